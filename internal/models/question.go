package models

import "gorm.io/datatypes"

// Question is a top level post. Comments and votes live in owned child
// tables keyed by the parent; answers reference the question.
type Question struct {
	BaseModel

	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`

	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Tags datatypes.JSONSlice[string] `json:"tags"`

	Views int64 `gorm:"default:0" json:"views"`

	Answers  []Answer  `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	Comments []Comment `gorm:"polymorphic:Subject" json:"comments"`
	Votes    []Vote    `gorm:"polymorphic:Subject" json:"votes,omitempty"`
}

// VoteTally returns the upvoter and downvoter identity sets from the
// preloaded vote rows.
func (q *Question) VoteTally() (upvotes, downvotes []string) {
	return splitVotes(q.Votes)
}

// VoteCount is upvotes minus downvotes and may be negative.
func (q *Question) VoteCount() int {
	up, down := q.VoteTally()
	return len(up) - len(down)
}
