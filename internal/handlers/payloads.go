package handlers

import "github.com/uniforum/uniforum/internal/models"

// VoteSummary exposes the identity sets behind a score so clients can
// both render the count and highlight the caller's own vote.
type VoteSummary struct {
	Upvotes   []string `json:"upvotes"`
	Downvotes []string `json:"downvotes"`
	VoteCount int      `json:"vote_count"`
}

func newVoteSummary(up, down []string) VoteSummary {
	if up == nil {
		up = []string{}
	}
	if down == nil {
		down = []string{}
	}
	return VoteSummary{Upvotes: up, Downvotes: down, VoteCount: len(up) - len(down)}
}

// QuestionView is the API shape of a question. The explicit Votes field
// shadows the model's raw vote rows with the summarised sets.
type QuestionView struct {
	*models.Question
	Votes       VoteSummary  `json:"votes"`
	Answers     []AnswerView `json:"answers"`
	AnswerCount int          `json:"answer_count"`
}

func newQuestionView(q *models.Question) QuestionView {
	up, down := q.VoteTally()
	return QuestionView{
		Question:    q,
		Votes:       newVoteSummary(up, down),
		Answers:     newAnswerViews(q.Answers),
		AnswerCount: len(q.Answers),
	}
}

func newQuestionViews(questions []models.Question) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i := range questions {
		views[i] = newQuestionView(&questions[i])
	}
	return views
}

// AnswerView is the API shape of an answer.
type AnswerView struct {
	*models.Answer
	Votes VoteSummary `json:"votes"`
}

func newAnswerView(a *models.Answer) AnswerView {
	up, down := a.VoteTally()
	return AnswerView{Answer: a, Votes: newVoteSummary(up, down)}
}

func newAnswerViews(answers []models.Answer) []AnswerView {
	views := make([]AnswerView, len(answers))
	for i := range answers {
		views[i] = newAnswerView(&answers[i])
	}
	return views
}
