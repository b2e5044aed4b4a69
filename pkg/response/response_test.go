package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/uniforum/uniforum/pkg/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := newTestContext(t)

	Success(c, http.StatusCreated, gin.H{"id": "q-1"})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Nil(t, body.Error)
}

func TestErrorEnvelopeFromAppError(t *testing.T) {
	c, rec := newTestContext(t)

	Error(c, appErrors.ErrOTPExpired)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
	require.Equal(t, "OTP_EXPIRED", body.Error.Code)
	require.Equal(t, "OTP has expired", body.Error.Message)
}

func TestErrorEnvelopeDefaultsToInternal(t *testing.T) {
	c, rec := newTestContext(t)

	Error(c, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
