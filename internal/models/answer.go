package models

// Answer belongs to a question. Acceptance is flagged on the answer; the
// reputation award happens when the question author accepts it.
type Answer struct {
	BaseModel

	Content string `gorm:"not null" json:"content"`

	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	QuestionID string    `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`

	IsAccepted bool `gorm:"default:false" json:"is_accepted"`

	Comments []Comment `gorm:"polymorphic:Subject" json:"comments"`
	Votes    []Vote    `gorm:"polymorphic:Subject" json:"votes,omitempty"`
}

// VoteTally returns the upvoter and downvoter identity sets from the
// preloaded vote rows.
func (a *Answer) VoteTally() (upvotes, downvotes []string) {
	return splitVotes(a.Votes)
}

// VoteCount is upvotes minus downvotes and may be negative.
func (a *Answer) VoteCount() int {
	up, down := a.VoteTally()
	return len(up) - len(down)
}
