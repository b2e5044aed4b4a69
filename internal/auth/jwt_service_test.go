package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "unit-test-secret", Issuer: "uniforum"})
	require.NoError(t, err)

	token, err := svc.GenerateToken("user-1", "asha.rao2023@vitstudent.ac.in")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "asha.rao2023@vitstudent.ac.in", claims.Email)
	require.Equal(t, "uniforum", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued

	svc, err := NewJWTService(JWTConfig{
		Secret:   "unit-test-secret",
		TokenTTL: time.Hour,
		Clock:    func() time.Time { return clock },
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken("user-1", "")
	require.NoError(t, err)

	clock = issued.Add(2 * time.Hour)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	issuerA, err := NewJWTService(JWTConfig{Secret: "shared", Issuer: "a"})
	require.NoError(t, err)
	issuerB, err := NewJWTService(JWTConfig{Secret: "shared", Issuer: "b"})
	require.NoError(t, err)

	token, err := issuerA.GenerateToken("user-1", "")
	require.NoError(t, err)

	_, err = issuerB.ValidateToken(token)
	require.Error(t, err)
}

func TestDefaultTTLIsSevenDays(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued

	svc, err := NewJWTService(JWTConfig{
		Secret: "unit-test-secret",
		Clock:  func() time.Time { return clock },
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken("user-1", "")
	require.NoError(t, err)

	clock = issued.Add(7*24*time.Hour - time.Minute)
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	clock = issued.Add(7*24*time.Hour + time.Minute)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}
