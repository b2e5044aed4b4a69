package models

// Vote directions accepted by the API.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Subject discriminators used by the polymorphic comment and vote
// tables. They match the table names gorm writes for the owning models.
const (
	SubjectQuestion = "questions"
	SubjectAnswer   = "answers"
)

// Vote records one identity's standing vote on a question or answer. The
// unique index guarantees a voter never appears in both sets at once.
type Vote struct {
	BaseModel

	SubjectType string `gorm:"not null;uniqueIndex:idx_votes_subject_user" json:"-"`
	SubjectID   string `gorm:"type:uuid;not null;uniqueIndex:idx_votes_subject_user" json:"-"`
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_votes_subject_user" json:"user_id"`

	Value string `gorm:"not null" json:"value"`
}

// ValidVoteType reports whether the supplied direction is recognised.
func ValidVoteType(value string) bool {
	return value == VoteUp || value == VoteDown
}

func splitVotes(votes []Vote) (upvotes, downvotes []string) {
	for _, vote := range votes {
		switch vote.Value {
		case VoteUp:
			upvotes = append(upvotes, vote.UserID)
		case VoteDown:
			downvotes = append(downvotes, vote.UserID)
		}
	}
	return upvotes, downvotes
}
