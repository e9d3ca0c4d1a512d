// Package model defines database models
package model

import "time"

type Role string

const (
	RolePlatformAdmin Role = "PLATFORM_ADMIN"
	RoleChapterAdmin  Role = "CHAPTER_ADMIN"
	RoleMember        Role = "MEMBER"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`

	Role Role `gorm:"not null;default:MEMBER" json:"role"`
	// Platform admins aren't tied to any chapter, everyone else is
	ChapterID *string `gorm:"index" json:"chapter_id,omitempty"`

	VerificationStatus VerificationStatus `gorm:"not null;default:PENDING" json:"verification_status"`
	VerifiedByID       *string            `json:"verified_by_id,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`

	// Bumped on every credential-invalidating change. Tokens carrying an
	// older version fail the freshness check in the auth middleware
	TokenVersion int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`

	Posts []ResourcePost `gorm:"foreignKey:AuthorID" json:"-"`
}

// Verified reports whether the user passed chapter verification. Only
// verified users may post, comment or fill
func (u *User) Verified() bool {
	return u.VerificationStatus == VerificationApproved
}
