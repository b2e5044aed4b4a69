package models

// Comment is owned exclusively by its parent question or answer. Insertion
// order is preserved through the shared created_at index.
type Comment struct {
	BaseModel

	Content string `gorm:"not null" json:"content"`

	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	SubjectType string `gorm:"not null;index:idx_comments_subject" json:"-"`
	SubjectID   string `gorm:"type:uuid;not null;index:idx_comments_subject" json:"-"`
}
