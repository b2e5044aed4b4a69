package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/uniforum/uniforum/internal/models"
)

// Reputation awarded to an answer's author when it is accepted.
const acceptReputationAward = 15

var (
	// ErrAnswerNotFound indicates the answer id resolves to nothing.
	ErrAnswerNotFound = errors.New("answer service: answer not found")
	// ErrNotAnswerAuthor guards author-only mutations.
	ErrNotAnswerAuthor = errors.New("answer service: actor is not the answer author")
)

// AnswerService owns answers: posting, editing, commenting, voting,
// and acceptance by the question author.
type AnswerService struct {
	db *gorm.DB
}

// NewAnswerService constructs the answer service.
func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// CreateAnswerInput carries the fields for a new answer.
type CreateAnswerInput struct {
	AuthorID   string
	QuestionID string
	Content    string
}

// Create posts an answer under an existing question and bumps the
// author's answered counter in the same transaction.
func (s *AnswerService) Create(ctx context.Context, input CreateAnswerInput) (*models.Answer, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", input.QuestionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("answer service: question check: %w", err)
	}
	if count == 0 {
		return nil, ErrQuestionNotFound
	}

	answer := models.Answer{
		Content:    input.Content,
		AuthorID:   input.AuthorID,
		QuestionID: input.QuestionID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return fmt.Errorf("answer service: create: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", input.AuthorID).
			UpdateColumn("questions_answered", gorm.Expr("questions_answered + 1")).Error; err != nil {
			return fmt.Errorf("answer service: bump answered counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, answer.ID)
}

// ListForQuestion returns a question's answers newest-first with their
// full threads attached.
func (s *AnswerService) ListForQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author").
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("answer service: list for question: %w", err)
	}
	return answers, nil
}

// ListByAuthor returns a user's answers newest-first.
func (s *AnswerService) ListByAuthor(ctx context.Context, authorID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Preload("Question").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("answer service: list by author: %w", err)
	}
	return answers, nil
}

// Get fetches a single answer with its thread.
func (s *AnswerService) Get(ctx context.Context, id string) (*models.Answer, error) {
	return s.load(ctx, id)
}

// Update applies an author-only content edit.
func (s *AnswerService) Update(ctx context.Context, id, actorID, content string) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("answer service: find: %w", err)
	}

	if answer.AuthorID != actorID {
		return nil, ErrNotAnswerAuthor
	}

	if err := s.db.WithContext(ctx).Model(&answer).
		UpdateColumn("content", content).Error; err != nil {
		return nil, fmt.Errorf("answer service: update: %w", err)
	}

	return s.load(ctx, id)
}

// Delete removes an answer with its comments and votes, then
// decrements the author's answered counter. Only the answer author may
// delete.
func (s *AnswerService) Delete(ctx context.Context, id, actorID string) error {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnswerNotFound
		}
		return fmt.Errorf("answer service: find: %w", err)
	}

	if answer.AuthorID != actorID {
		return ErrNotAnswerAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSubjectChildren(tx, models.SubjectAnswer, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Answer{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("answer service: delete: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", answer.AuthorID).
			UpdateColumn("questions_answered", gorm.Expr("questions_answered - 1")).Error; err != nil {
			return fmt.Errorf("answer service: drop answered counter: %w", err)
		}
		return nil
	})
}

// AddComment attaches a comment to an answer.
func (s *AnswerService) AddComment(ctx context.Context, answerID, authorID, content string) (*models.Comment, error) {
	if err := s.exists(ctx, answerID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:     content,
		AuthorID:    authorID,
		SubjectType: models.SubjectAnswer,
		SubjectID:   answerID,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("answer service: add comment: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, fmt.Errorf("answer service: reload comment: %w", err)
	}
	return &comment, nil
}

// Vote records a user's standing vote on an answer, replacing any
// earlier vote by the same user.
func (s *AnswerService) Vote(ctx context.Context, answerID, userID, value string) (*models.Answer, error) {
	if err := s.exists(ctx, answerID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return castVote(tx, models.SubjectAnswer, answerID, userID, value)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, answerID)
}

// Accept marks an answer as accepted and awards its author reputation.
// Only the author of the owning question may accept; each call awards
// the bonus again, so callers should treat acceptance as one-shot.
func (s *AnswerService) Accept(ctx context.Context, answerID, actorID string) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, "id = ?", answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("answer service: find: %w", err)
	}

	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, "id = ?", answer.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("answer service: find question: %w", err)
	}

	if question.AuthorID != actorID {
		return nil, ErrNotQuestionAuthor
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).Where("id = ?", answerID).
			UpdateColumn("is_accepted", true).Error; err != nil {
			return fmt.Errorf("answer service: mark accepted: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", answer.AuthorID).
			UpdateColumn("reputation", gorm.Expr("reputation + ?", acceptReputationAward)).Error; err != nil {
			return fmt.Errorf("answer service: award reputation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, answerID)
}

func (s *AnswerService) exists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Answer{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("answer service: existence check: %w", err)
	}
	if count == 0 {
		return ErrAnswerNotFound
	}
	return nil
}

func (s *AnswerService) load(ctx context.Context, id string) (*models.Answer, error) {
	var answer models.Answer
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author").
		First(&answer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("answer service: load: %w", err)
	}
	return &answer, nil
}
