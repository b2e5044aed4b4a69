package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniforum/uniforum/internal/middleware"
	apperrors "github.com/uniforum/uniforum/pkg/errors"
	"github.com/uniforum/uniforum/pkg/response"
	"github.com/uniforum/uniforum/pkg/validator"
)

// Domain-specific 404s so clients can tell which resource was missing.
var (
	errUserNotFound     = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	errQuestionNotFound = apperrors.New("QUESTION_NOT_FOUND", "Question not found", http.StatusNotFound)
	errAnswerNotFound   = apperrors.New("ANSWER_NOT_FOUND", "Answer not found", http.StatusNotFound)
)

// bindAndValidate decodes the JSON body into T and runs struct
// validation, writing the error response itself on failure.
func bindAndValidate[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("Invalid request payload"))
		return nil, false
	}
	if err := validator.ValidateStruct(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest(formatValidationError(err)))
		return nil, false
	}
	return &req, true
}

func formatValidationError(err error) string {
	var failures validator.ValidationErrors
	if stderrors.As(err, &failures) && len(failures) > 0 {
		return "Validation failed: " + failures.Error()
	}
	return "Invalid request payload"
}

// currentUserID returns the authenticated user id set by the auth
// middleware; empty on unauthenticated routes.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}
