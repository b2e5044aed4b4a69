package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uniforum/uniforum/internal/database/testutil"
	"github.com/uniforum/uniforum/internal/models"
)

func TestUserProfileRecentActivity(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user := seedUser(t, db, "asha")
	questions := NewQuestionService(db)
	answers := NewAnswerService(db)
	svc := NewUserService(db)

	var lastQuestion *models.Question
	for i := 0; i < 7; i++ {
		q, err := questions.Create(context.Background(), CreateQuestionInput{
			AuthorID: user.ID, Title: "q", Content: "c",
		})
		require.NoError(t, err)
		lastQuestion = q
	}
	_, err := answers.Create(context.Background(), CreateAnswerInput{
		AuthorID: user.ID, QuestionID: lastQuestion.ID, Content: "self answer",
	})
	require.NoError(t, err)

	profile, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.User.ID)
	require.Len(t, profile.RecentQuestions, 5)
	require.Len(t, profile.RecentAnswers, 1)
	require.NotNil(t, profile.RecentAnswers[0].Question)
}

func TestUserProfileNotFound(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Get(context.Background(), "3f0c8a1e-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateNameSelfOnly(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	user := seedUser(t, db, "asha")
	other := seedUser(t, db, "ravi")
	svc := NewUserService(db)

	_, err := svc.UpdateName(context.Background(), user.ID, other.ID, "Mallory")
	require.ErrorIs(t, err, ErrNotProfileOwner)

	renamed, err := svc.UpdateName(context.Background(), user.ID, user.ID, "Asha R")
	require.NoError(t, err)
	require.Equal(t, "Asha R", renamed.Name)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, "Asha R", stored.Name)
}

func TestUserStatsAggregates(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	asker := seedUser(t, db, "asha")
	answerer := seedUser(t, db, "ravi")
	questions := NewQuestionService(db)
	answers := NewAnswerService(db)
	svc := NewUserService(db)

	q1, err := questions.Create(context.Background(), CreateQuestionInput{
		AuthorID: asker.ID, Title: "q1", Content: "c",
	})
	require.NoError(t, err)
	q2, err := questions.Create(context.Background(), CreateQuestionInput{
		AuthorID: asker.ID, Title: "q2", Content: "c",
	})
	require.NoError(t, err)

	// Two views on q1, one on q2.
	for _, id := range []string{q1.ID, q1.ID, q2.ID} {
		_, err := questions.Get(context.Background(), id)
		require.NoError(t, err)
	}

	a, err := answers.Create(context.Background(), CreateAnswerInput{
		AuthorID: answerer.ID, QuestionID: q1.ID, Content: "answer",
	})
	require.NoError(t, err)
	_, err = answers.Accept(context.Background(), a.ID, asker.ID)
	require.NoError(t, err)

	askerStats, err := svc.Stats(context.Background(), asker.ID)
	require.NoError(t, err)
	require.Equal(t, 2, askerStats.QuestionsAsked)
	require.Equal(t, 0, askerStats.QuestionsAnswered)
	require.Equal(t, int64(3), askerStats.TotalQuestionViews)
	require.Equal(t, int64(0), askerStats.AcceptedAnswers)

	answererStats, err := svc.Stats(context.Background(), answerer.ID)
	require.NoError(t, err)
	require.Equal(t, 1, answererStats.QuestionsAnswered)
	require.Equal(t, 15, answererStats.Reputation)
	require.Equal(t, int64(1), answererStats.AcceptedAnswers)
	require.Equal(t, int64(0), answererStats.TotalQuestionViews)
}
