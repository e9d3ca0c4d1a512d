package model

// Chapter is an organizational unit (usually a school club) that scopes
// membership and moderation authority. Chapters are seeded from the config
// file and read-only at runtime
type Chapter struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"unique;not null" json:"slug"`
	Name string `gorm:"not null" json:"name"`

	// Emails that get the CHAPTER_ADMIN role (pre-approved) at sign-up
	AdminEmails StringSlice `gorm:"type:text" json:"-"`

	Users []User         `gorm:"foreignKey:ChapterID" json:"-"`
	Posts []ResourcePost `gorm:"foreignKey:ChapterID" json:"-"`
}
