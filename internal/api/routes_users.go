package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniforum/uniforum/internal/handlers"
	"github.com/uniforum/uniforum/internal/middleware"
)

func registerUserRoutes(api *gin.RouterGroup, deps Dependencies) {
	h := handlers.NewUserHandler(deps.Users, deps.Questions, deps.Answers)

	users := api.Group("/users")
	{
		users.GET("/:id", h.Get)
		users.GET("/:id/questions", h.Questions)
		users.GET("/:id/answers", h.Answers)
		users.GET("/:id/stats", h.Stats)

		users.PUT("/:id", middleware.Auth(deps.JWT), h.Update)
	}
}
