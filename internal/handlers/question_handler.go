package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniforum/uniforum/internal/services"
	apperrors "github.com/uniforum/uniforum/pkg/errors"
	"github.com/uniforum/uniforum/pkg/logger"
	"github.com/uniforum/uniforum/pkg/metrics"
	"github.com/uniforum/uniforum/pkg/response"
)

// QuestionHandler exposes the question endpoints.
type QuestionHandler struct {
	questions *services.QuestionService
}

// NewQuestionHandler constructs the question handler.
func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

type createQuestionRequest struct {
	Title   string   `json:"title" validate:"required,min=4,max=200"`
	Content string   `json:"content" validate:"required,min=1"`
	Tags    []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// Create posts a new question for the authenticated user.
func (h *QuestionHandler) Create(c *gin.Context) {
	req, ok := bindAndValidate[createQuestionRequest](c)
	if !ok {
		return
	}

	question, err := h.questions.Create(c.Request.Context(), services.CreateQuestionInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if err != nil {
		logger.WithModule("handlers").Error("create question failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, newQuestionView(question))
}

// List returns every question newest-first.
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		logger.WithModule("handlers").Error("list questions failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, newQuestionViews(questions))
}

// Get returns one question with its full thread and counts the view.
func (h *QuestionHandler) Get(c *gin.Context) {
	question, err := h.questions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	metrics.QuestionViews.Inc()
	response.Success(c, http.StatusOK, newQuestionView(question))
}

type updateQuestionRequest struct {
	Title   *string   `json:"title" validate:"omitempty,min=4,max=200"`
	Content *string   `json:"content" validate:"omitempty,min=1"`
	Tags    *[]string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// Update applies a partial edit; only the author may edit.
func (h *QuestionHandler) Update(c *gin.Context) {
	req, ok := bindAndValidate[updateQuestionRequest](c)
	if !ok {
		return
	}

	question, err := h.questions.Update(c.Request.Context(), services.UpdateQuestionInput{
		ID:      c.Param("id"),
		ActorID: currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, newQuestionView(question))
}

// Delete removes a question and everything beneath it; only the author
// may delete.
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.questions.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type commentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// AddComment attaches a comment to a question.
func (h *QuestionHandler) AddComment(c *gin.Context) {
	req, ok := bindAndValidate[commentRequest](c)
	if !ok {
		return
	}

	comment, err := h.questions.AddComment(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

type voteRequest struct {
	Type string `json:"voteType" validate:"required,oneof=upvote downvote"`
}

// Vote records the caller's standing vote on a question.
func (h *QuestionHandler) Vote(c *gin.Context) {
	req, ok := bindAndValidate[voteRequest](c)
	if !ok {
		return
	}

	question, err := h.questions.Vote(c.Request.Context(), c.Param("id"), currentUserID(c), req.Type)
	if err != nil {
		h.renderError(c, err)
		return
	}

	metrics.VotesCast.WithLabelValues("question", req.Type).Inc()
	response.Success(c, http.StatusOK, newQuestionView(question))
}

func (h *QuestionHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuestionNotFound):
		response.Error(c, errQuestionNotFound)
	case errors.Is(err, services.ErrNotQuestionAuthor):
		response.Error(c, apperrors.NewForbidden("Only the question author can modify this question"))
	case errors.Is(err, services.ErrInvalidVote):
		response.Error(c, apperrors.NewBadRequest("Invalid vote type"))
	default:
		logger.WithModule("handlers").Error("question operation failed", zap.Error(err))
		response.Error(c, err)
	}
}
