package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uniforum/uniforum/internal/models"
)

var (
	// ErrQuestionNotFound indicates the question id resolves to nothing.
	ErrQuestionNotFound = errors.New("question service: question not found")
	// ErrNotQuestionAuthor guards author-only mutations.
	ErrNotQuestionAuthor = errors.New("question service: actor is not the question author")
)

// QuestionService owns the question lifecycle: posting, browsing,
// editing, commenting, voting, and cascaded deletion.
type QuestionService struct {
	db *gorm.DB
}

// NewQuestionService constructs the question service.
func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// CreateQuestionInput carries the fields for a new question.
type CreateQuestionInput struct {
	AuthorID string
	Title    string
	Content  string
	Tags     []string
}

// Create posts a question and bumps the author's asked counter in the
// same transaction. The counter update is a column expression so
// concurrent posts never lose increments.
func (s *QuestionService) Create(ctx context.Context, input CreateQuestionInput) (*models.Question, error) {
	question := models.Question{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: input.AuthorID,
		Tags:     datatypes.NewJSONSlice(input.Tags),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return fmt.Errorf("question service: create: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", input.AuthorID).
			UpdateColumn("questions_asked", gorm.Expr("questions_asked + 1")).Error; err != nil {
			return fmt.Errorf("question service: bump asked counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, question.ID, false)
}

// List returns all questions newest-first with authors and vote
// ledgers attached.
func (s *QuestionService) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Preload("Answers").
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("question service: list: %w", err)
	}
	return questions, nil
}

// ListByAuthor returns a user's questions newest-first.
func (s *QuestionService) ListByAuthor(ctx context.Context, authorID string) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("question service: list by author: %w", err)
	}
	return questions, nil
}

// Get fetches a single question with its full thread and registers one
// view. The view counter is incremented as a column expression before
// the read so concurrent readers all land.
func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	res := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("question service: count view: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuestionNotFound
	}

	return s.load(ctx, id, true)
}

// UpdateQuestionInput carries a partial edit; nil fields are left as-is.
type UpdateQuestionInput struct {
	ID      string
	ActorID string
	Title   *string
	Content *string
	Tags    *[]string
}

// Update applies an author-only partial edit.
func (s *QuestionService) Update(ctx context.Context, input UpdateQuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, "id = ?", input.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("question service: find: %w", err)
	}

	if question.AuthorID != input.ActorID {
		return nil, ErrNotQuestionAuthor
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(*input.Tags)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&question).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("question service: update: %w", err)
		}
	}

	return s.load(ctx, input.ID, true)
}

// Delete removes a question, its answers, and every comment and vote
// hanging off any of them, then decrements the author's asked counter.
// Only the question author may delete.
func (s *QuestionService) Delete(ctx context.Context, id, actorID string) error {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("question service: find: %w", err)
	}

	if question.AuthorID != actorID {
		return ErrNotQuestionAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answerIDs []string
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", id).
			Pluck("id", &answerIDs).Error; err != nil {
			return fmt.Errorf("question service: collect answers: %w", err)
		}

		if err := deleteSubjectChildren(tx, models.SubjectAnswer, answerIDs...); err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
				return fmt.Errorf("question service: delete answers: %w", err)
			}
		}

		if err := deleteSubjectChildren(tx, models.SubjectQuestion, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Question{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("question service: delete: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", question.AuthorID).
			UpdateColumn("questions_asked", gorm.Expr("questions_asked - 1")).Error; err != nil {
			return fmt.Errorf("question service: drop asked counter: %w", err)
		}
		return nil
	})
}

// AddComment attaches a comment to a question.
func (s *QuestionService) AddComment(ctx context.Context, questionID, authorID, content string) (*models.Comment, error) {
	if err := s.exists(ctx, questionID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content:     content,
		AuthorID:    authorID,
		SubjectType: models.SubjectQuestion,
		SubjectID:   questionID,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("question service: add comment: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, fmt.Errorf("question service: reload comment: %w", err)
	}
	return &comment, nil
}

// Vote records a user's standing vote on a question, replacing any
// earlier vote by the same user.
func (s *QuestionService) Vote(ctx context.Context, questionID, userID, value string) (*models.Question, error) {
	if err := s.exists(ctx, questionID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return castVote(tx, models.SubjectQuestion, questionID, userID, value)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, questionID, false)
}

func (s *QuestionService) exists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("question service: existence check: %w", err)
	}
	if count == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// load fetches a question with its associations; full additionally
// pulls the answer thread with per-answer authors, comments, and votes.
func (s *QuestionService) load(ctx context.Context, id string, full bool) (*models.Question, error) {
	q := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author")

	if full {
		q = q.
			Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
			Preload("Answers.Author").
			Preload("Answers.Votes").
			Preload("Answers.Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
			Preload("Answers.Comments.Author")
	} else {
		q = q.Preload("Answers")
	}

	var question models.Question
	if err := q.First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("question service: load: %w", err)
	}
	return &question, nil
}
