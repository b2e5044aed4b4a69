package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/uniforum/uniforum/internal/models"
)

// ErrInvalidVote rejects vote directions other than upvote/downvote.
var ErrInvalidVote = errors.New("vote: invalid vote type")

// castVote moves the voter to the requested side of the ledger. Any
// previous vote by the same user on the same subject is removed first,
// so a voter holds at most one standing vote and switching sides never
// trips the uniqueness constraint.
func castVote(tx *gorm.DB, subjectType, subjectID, userID, value string) error {
	if !models.ValidVoteType(value) {
		return ErrInvalidVote
	}

	err := tx.Where("subject_type = ? AND subject_id = ? AND user_id = ?",
		subjectType, subjectID, userID).Delete(&models.Vote{}).Error
	if err != nil {
		return fmt.Errorf("vote: clear previous vote: %w", err)
	}

	vote := models.Vote{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		UserID:      userID,
		Value:       value,
	}
	if err := tx.Create(&vote).Error; err != nil {
		return fmt.Errorf("vote: record vote: %w", err)
	}
	return nil
}

// deleteSubjectChildren removes the comments and votes hanging off a
// question or answer. Used by the delete paths so orphaned rows never
// accumulate.
func deleteSubjectChildren(tx *gorm.DB, subjectType string, subjectIDs ...string) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	if err := tx.Where("subject_type = ? AND subject_id IN ?", subjectType, subjectIDs).
		Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("vote: delete comments: %w", err)
	}
	if err := tx.Where("subject_type = ? AND subject_id IN ?", subjectType, subjectIDs).
		Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("vote: delete votes: %w", err)
	}
	return nil
}
