package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniforum/uniforum/internal/handlers"
)

func registerAuthRoutes(api *gin.RouterGroup, deps Dependencies) {
	h := handlers.NewAuthHandler(deps.Accounts)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/login", h.Login)
		auth.POST("/resend-otp", h.ResendOTP)
	}
}
