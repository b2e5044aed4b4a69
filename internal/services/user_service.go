package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/uniforum/uniforum/internal/models"
)

const recentActivityLimit = 5

// ErrNotProfileOwner guards self-only profile mutations.
var ErrNotProfileOwner = errors.New("user service: actor does not own the profile")

// UserService serves public profiles and per-user activity rollups.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs the user service.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Profile is a public view of a user with their recent activity.
type Profile struct {
	User            *models.User      `json:"user"`
	RecentQuestions []models.Question `json:"recent_questions"`
	RecentAnswers   []models.Answer   `json:"recent_answers"`
}

// Get returns a user's public profile with their five most recent
// questions and answers.
func (s *UserService) Get(ctx context.Context, id string) (*Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user service: find: %w", err)
	}

	var questions []models.Question
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", id).
		Order("created_at DESC").
		Limit(recentActivityLimit).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("user service: recent questions: %w", err)
	}

	var answers []models.Answer
	if err := s.db.WithContext(ctx).
		Preload("Question").
		Where("author_id = ?", id).
		Order("created_at DESC").
		Limit(recentActivityLimit).
		Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("user service: recent answers: %w", err)
	}

	return &Profile{User: &user, RecentQuestions: questions, RecentAnswers: answers}, nil
}

// UpdateName renames a profile. Users may only rename themselves.
func (s *UserService) UpdateName(ctx context.Context, id, actorID, name string) (*models.User, error) {
	if id != actorID {
		return nil, ErrNotProfileOwner
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("user service: name is required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user service: find: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("name", name).Error; err != nil {
		return nil, fmt.Errorf("user service: rename: %w", err)
	}

	user.Name = name
	return &user, nil
}

// Stats is the activity rollup surfaced on a profile page.
type Stats struct {
	QuestionsAsked     int   `json:"questions_asked"`
	QuestionsAnswered  int   `json:"questions_answered"`
	Reputation         int   `json:"reputation"`
	TotalQuestionViews int64 `json:"total_question_views"`
	AcceptedAnswers    int64 `json:"accepted_answers"`
}

// Stats aggregates a user's contribution counters with live totals for
// question views and accepted answers.
func (s *UserService) Stats(ctx context.Context, id string) (*Stats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user service: find: %w", err)
	}

	var totalViews int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("author_id = ?", id).
		Select("COALESCE(SUM(views), 0)").
		Scan(&totalViews).Error; err != nil {
		return nil, fmt.Errorf("user service: sum views: %w", err)
	}

	var accepted int64
	if err := s.db.WithContext(ctx).Model(&models.Answer{}).
		Where("author_id = ? AND is_accepted = ?", id, true).
		Count(&accepted).Error; err != nil {
		return nil, fmt.Errorf("user service: count accepted: %w", err)
	}

	return &Stats{
		QuestionsAsked:     user.QuestionsAsked,
		QuestionsAnswered:  user.QuestionsAnswered,
		Reputation:         user.Reputation,
		TotalQuestionViews: totalViews,
		AcceptedAnswers:    accepted,
	}, nil
}
