package model

import (
	"slices"
	"time"
)

type PostType string

const (
	PostTypeRequest  PostType = "REQUEST"
	PostTypeOffering PostType = "OFFERING"
)

type PostStatus string

const (
	PostStatusPending  PostStatus = "PENDING"
	PostStatusApproved PostStatus = "APPROVED"
	PostStatusRejected PostStatus = "REJECTED"
	PostStatusFilled   PostStatus = "FILLED"
	PostStatusClosed   PostStatus = "CLOSED"
)

// Categories a post must pick from
var Categories = []string{
	"tutoring",
	"textbooks",
	"equipment",
	"transport",
	"housing",
	"events",
	"other",
}

func ValidCategory(c string) bool {
	return slices.Contains(Categories, c)
}

type ResourcePost struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"not null" json:"description"`
	Type        PostType    `gorm:"not null" json:"type"`
	Category    string      `gorm:"not null;index" json:"category"`
	Tags        StringSlice `gorm:"type:text" json:"tags"`

	Status PostStatus `gorm:"not null;default:PENDING;index" json:"status"`

	AuthorID string `gorm:"not null;index" json:"author_id"`
	// Copied from the author at creation so moderation stays chapter-scoped
	// even if the author later switches chapters
	ChapterID string `gorm:"not null;index" json:"chapter_id"`

	ReviewedByID    *string    `json:"reviewed_by_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	FilledByID   *string    `json:"filled_by_id,omitempty"`
	FilledAt     *time.Time `json:"filled_at,omitempty"`
	ContactName  *string    `json:"contact_name,omitempty"`
	ContactEmail *string    `json:"contact_email,omitempty"`
	ContactPhone *string    `json:"contact_phone,omitempty"`
	ContactNotes *string    `json:"contact_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// PubliclyVisible reports whether the post can be seen by anyone, not just
// its author and moderators
func (p *ResourcePost) PubliclyVisible() bool {
	return p.Status == PostStatusApproved || p.Status == PostStatusFilled
}

type Comment struct {
	ID       string `gorm:"primaryKey" json:"id"`
	PostID   string `gorm:"not null;index" json:"post_id"`
	AuthorID string `gorm:"not null" json:"author_id"`

	Content string `gorm:"not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}
