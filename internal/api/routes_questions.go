package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniforum/uniforum/internal/handlers"
	"github.com/uniforum/uniforum/internal/middleware"
)

func registerQuestionRoutes(api *gin.RouterGroup, deps Dependencies) {
	h := handlers.NewQuestionHandler(deps.Questions)

	questions := api.Group("/questions")
	{
		// Browsing is open; the view counter still ticks.
		questions.GET("", h.List)
		questions.GET("/:id", h.Get)

		authed := questions.Group("", middleware.Auth(deps.JWT))
		{
			authed.POST("", h.Create)
			authed.PUT("/:id", h.Update)
			authed.DELETE("/:id", h.Delete)
			authed.POST("/:id/comments", h.AddComment)
			authed.POST("/:id/vote", h.Vote)
		}
	}
}
