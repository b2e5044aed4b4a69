package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithInternalKeepsOriginal(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrInternalServer.WithInternal(cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, ErrInternalServer.Code, err.Code)
	require.Contains(t, err.Error(), "disk full")
}

func TestFromErrorPassesThroughAppErrors(t *testing.T) {
	require.Same(t, ErrOTPExpired, FromError(ErrOTPExpired))

	wrapped := FromError(errors.New("boom"))
	require.Equal(t, ErrInternalServer.Code, wrapped.Code)
	require.Equal(t, http.StatusInternalServerError, wrapped.StatusCode)
}

func TestNewBadRequestMessage(t *testing.T) {
	err := NewBadRequest("title is required")
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.Equal(t, "title is required", err.Message)
}

func TestNewForbiddenMessage(t *testing.T) {
	err := NewForbidden("Only the question author can accept an answer")
	require.Equal(t, http.StatusForbidden, err.StatusCode)
	require.Equal(t, ErrForbidden.Code, err.Code)
}
