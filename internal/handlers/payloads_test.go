package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uniforum/uniforum/internal/models"
)

func TestQuestionViewShadowsRawVotes(t *testing.T) {
	q := &models.Question{
		Title:   "t",
		Content: "c",
		Votes: []models.Vote{
			{UserID: "u1", Value: models.VoteUp},
			{UserID: "u2", Value: models.VoteDown},
			{UserID: "u3", Value: models.VoteDown},
		},
	}

	raw, err := json.Marshal(newQuestionView(q))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))

	votes, ok := payload["votes"].(map[string]any)
	require.True(t, ok, "votes must be the summary object, got %T", payload["votes"])
	require.Equal(t, float64(-1), votes["vote_count"])
	require.Equal(t, []any{"u1"}, votes["upvotes"])
	require.Equal(t, []any{"u2", "u3"}, votes["downvotes"])
	require.Equal(t, float64(0), payload["answer_count"])
}

func TestVoteSummaryNeverNil(t *testing.T) {
	raw, err := json.Marshal(newVoteSummary(nil, nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"upvotes":[],"downvotes":[],"vote_count":0}`, string(raw))
}

func TestAnswerViewCarriesAcceptance(t *testing.T) {
	a := &models.Answer{Content: "c", IsAccepted: true}

	raw, err := json.Marshal(newAnswerView(a))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Equal(t, true, payload["is_accepted"])
}
