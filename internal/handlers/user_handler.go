package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniforum/uniforum/internal/services"
	apperrors "github.com/uniforum/uniforum/pkg/errors"
	"github.com/uniforum/uniforum/pkg/logger"
	"github.com/uniforum/uniforum/pkg/response"
)

// UserHandler exposes profile and activity endpoints.
type UserHandler struct {
	users     *services.UserService
	questions *services.QuestionService
	answers   *services.AnswerService
}

// NewUserHandler constructs the user handler.
func NewUserHandler(users *services.UserService, questions *services.QuestionService, answers *services.AnswerService) *UserHandler {
	return &UserHandler{users: users, questions: questions, answers: answers}
}

// Get returns a public profile with recent activity.
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

type updateUserRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// Update renames the profile; users may only rename themselves.
func (h *UserHandler) Update(c *gin.Context) {
	req, ok := bindAndValidate[updateUserRequest](c)
	if !ok {
		return
	}

	user, err := h.users.UpdateName(c.Request.Context(), c.Param("id"), currentUserID(c), req.Name)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// Questions returns every question the user has asked.
func (h *UserHandler) Questions(c *gin.Context) {
	questions, err := h.questions.ListByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.WithModule("handlers").Error("list user questions failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, newQuestionViews(questions))
}

// Answers returns every answer the user has posted.
func (h *UserHandler) Answers(c *gin.Context) {
	answers, err := h.answers.ListByAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.WithModule("handlers").Error("list user answers failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, newAnswerViews(answers))
}

// Stats returns the user's contribution rollup.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *UserHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		response.Error(c, errUserNotFound)
	case errors.Is(err, services.ErrNotProfileOwner):
		response.Error(c, apperrors.NewForbidden("You can only update your own profile"))
	default:
		logger.WithModule("handlers").Error("user operation failed", zap.Error(err))
		response.Error(c, err)
	}
}
