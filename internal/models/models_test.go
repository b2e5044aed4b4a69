package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoteTallySplitsByDirection(t *testing.T) {
	q := Question{Votes: []Vote{
		{UserID: "u1", Value: VoteUp},
		{UserID: "u2", Value: VoteDown},
		{UserID: "u3", Value: VoteUp},
	}}

	up, down := q.VoteTally()
	require.ElementsMatch(t, []string{"u1", "u3"}, up)
	require.ElementsMatch(t, []string{"u2"}, down)
	require.Equal(t, 1, q.VoteCount())
}

func TestVoteCountMayBeNegative(t *testing.T) {
	a := Answer{Votes: []Vote{
		{UserID: "u1", Value: VoteDown},
		{UserID: "u2", Value: VoteDown},
	}}
	require.Equal(t, -2, a.VoteCount())
}

func TestValidVoteType(t *testing.T) {
	require.True(t, ValidVoteType(VoteUp))
	require.True(t, ValidVoteType(VoteDown))
	require.False(t, ValidVoteType("sideways"))
	require.False(t, ValidVoteType(""))
}
