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

// AnswerHandler exposes the answer endpoints.
type AnswerHandler struct {
	answers *services.AnswerService
}

// NewAnswerHandler constructs the answer handler.
func NewAnswerHandler(answers *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

type createAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid4"`
	Content    string `json:"content" validate:"required,min=1"`
}

// Create posts an answer under a question.
func (h *AnswerHandler) Create(c *gin.Context) {
	req, ok := bindAndValidate[createAnswerRequest](c)
	if !ok {
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), services.CreateAnswerInput{
		AuthorID:   currentUserID(c),
		QuestionID: req.QuestionID,
		Content:    req.Content,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, newAnswerView(answer))
}

// ListForQuestion returns a question's answers newest-first.
func (h *AnswerHandler) ListForQuestion(c *gin.Context) {
	answers, err := h.answers.ListForQuestion(c.Request.Context(), c.Param("questionID"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, newAnswerViews(answers))
}

// Get returns one answer with its thread.
func (h *AnswerHandler) Get(c *gin.Context) {
	answer, err := h.answers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, newAnswerView(answer))
}

type updateAnswerRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// Update replaces the answer body; only the author may edit.
func (h *AnswerHandler) Update(c *gin.Context) {
	req, ok := bindAndValidate[updateAnswerRequest](c)
	if !ok {
		return
	}

	answer, err := h.answers.Update(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, newAnswerView(answer))
}

// Delete removes an answer; only the author may delete.
func (h *AnswerHandler) Delete(c *gin.Context) {
	if err := h.answers.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AddComment attaches a comment to an answer.
func (h *AnswerHandler) AddComment(c *gin.Context) {
	req, ok := bindAndValidate[commentRequest](c)
	if !ok {
		return
	}

	comment, err := h.answers.AddComment(c.Request.Context(), c.Param("id"), currentUserID(c), req.Content)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

// Vote records the caller's standing vote on an answer.
func (h *AnswerHandler) Vote(c *gin.Context) {
	req, ok := bindAndValidate[voteRequest](c)
	if !ok {
		return
	}

	answer, err := h.answers.Vote(c.Request.Context(), c.Param("id"), currentUserID(c), req.Type)
	if err != nil {
		h.renderError(c, err)
		return
	}

	metrics.VotesCast.WithLabelValues("answer", req.Type).Inc()
	response.Success(c, http.StatusOK, newAnswerView(answer))
}

// Accept marks an answer as accepted. Only the author of the owning
// question may accept.
func (h *AnswerHandler) Accept(c *gin.Context) {
	answer, err := h.answers.Accept(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotQuestionAuthor) {
			response.Error(c, apperrors.NewForbidden("Only the question author can accept an answer"))
			return
		}
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, newAnswerView(answer))
}

func (h *AnswerHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAnswerNotFound):
		response.Error(c, errAnswerNotFound)
	case errors.Is(err, services.ErrQuestionNotFound):
		response.Error(c, errQuestionNotFound)
	case errors.Is(err, services.ErrNotAnswerAuthor):
		response.Error(c, apperrors.NewForbidden("Only the answer author can modify this answer"))
	case errors.Is(err, services.ErrNotQuestionAuthor):
		response.Error(c, apperrors.NewForbidden("Only the question author can accept an answer"))
	case errors.Is(err, services.ErrInvalidVote):
		response.Error(c, apperrors.NewBadRequest("Invalid vote type"))
	default:
		logger.WithModule("handlers").Error("answer operation failed", zap.Error(err))
		response.Error(c, err)
	}
}
