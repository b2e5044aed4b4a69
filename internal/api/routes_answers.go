package api

import (
	"github.com/gin-gonic/gin"

	"github.com/uniforum/uniforum/internal/handlers"
	"github.com/uniforum/uniforum/internal/middleware"
)

func registerAnswerRoutes(api *gin.RouterGroup, deps Dependencies) {
	h := handlers.NewAnswerHandler(deps.Answers)

	answers := api.Group("/answers")
	{
		answers.GET("/question/:questionID", h.ListForQuestion)
		answers.GET("/:id", h.Get)

		authed := answers.Group("", middleware.Auth(deps.JWT))
		{
			authed.POST("", h.Create)
			authed.PUT("/:id", h.Update)
			authed.DELETE("/:id", h.Delete)
			authed.POST("/:id/comments", h.AddComment)
			authed.POST("/:id/vote", h.Vote)
			authed.POST("/:id/accept", h.Accept)
		}
	}
}
