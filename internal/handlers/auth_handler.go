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

// AuthHandler exposes the registration, verification, and login flows.
type AuthHandler struct {
	accounts *services.AccountService
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Register creates an unverified account and returns the issued OTP
// alongside the user so verification can proceed even without SMTP.
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindAndValidate[registerRequest](c)
	if !ok {
		return
	}

	user, otp, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotInstitutional):
			response.Error(c, apperrors.NewBadRequest("Please use your institutional email address"))
		case errors.Is(err, services.ErrEmailRegistered):
			response.Error(c, apperrors.ErrEmailTaken)
		default:
			logger.WithModule("handlers").Error("register failed", zap.Error(err))
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registration successful. Verify your email with the OTP.",
		"user":    user,
		"otp":     otp,
	})
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// VerifyEmail consumes the pending OTP and returns a session token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	req, ok := bindAndValidate[verifyEmailRequest](c)
	if !ok {
		return
	}

	user, token, err := h.accounts.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			metrics.OTPVerifications.WithLabelValues("not_found").Inc()
			response.Error(c, errUserNotFound)
		case errors.Is(err, services.ErrNoPendingOTP):
			metrics.OTPVerifications.WithLabelValues("missing").Inc()
			response.Error(c, apperrors.ErrOTPMissing)
		case errors.Is(err, services.ErrOTPMismatch):
			metrics.OTPVerifications.WithLabelValues("invalid").Inc()
			response.Error(c, apperrors.ErrOTPInvalid)
		case errors.Is(err, services.ErrOTPExpired):
			metrics.OTPVerifications.WithLabelValues("expired").Inc()
			response.Error(c, apperrors.ErrOTPExpired)
		default:
			logger.WithModule("handlers").Error("verify email failed", zap.Error(err))
			response.Error(c, err)
		}
		return
	}

	metrics.OTPVerifications.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a verified account and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindAndValidate[loginRequest](c)
	if !ok {
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		switch {
		case errors.Is(err, services.ErrBadCredentials):
			response.Error(c, apperrors.ErrInvalidCredentials)
		case errors.Is(err, services.ErrNotVerified):
			response.Error(c, apperrors.ErrEmailUnverified)
		default:
			logger.WithModule("handlers").Error("login failed", zap.Error(err))
			response.Error(c, err)
		}
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

type resendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendOTP issues a fresh verification code. A delivery failure is
// surfaced here, unlike during registration.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	req, ok := bindAndValidate[resendOTPRequest](c)
	if !ok {
		return
	}

	otp, err := h.accounts.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			response.Error(c, errUserNotFound)
		case errors.Is(err, services.ErrAlreadyVerified):
			response.Error(c, apperrors.ErrAlreadyVerified)
		case errors.Is(err, services.ErrOTPDelivery):
			logger.WithModule("handlers").Error("otp delivery failed", zap.Error(err))
			response.Error(c, apperrors.ErrEmailDelivery)
		default:
			logger.WithModule("handlers").Error("resend otp failed", zap.Error(err))
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "OTP resent to your email.",
		"otp":     otp,
	})
}
