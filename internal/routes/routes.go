package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/remercado/remercado-backend/internal/handler"
	"github.com/remercado/remercado-backend/internal/middleware"
	"github.com/remercado/remercado-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	convHandler *handler.ConversationHandler,
	msgHandler *handler.MessageHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtManager))

	conversations := api.Group("/conversations")
	{
		conversations.POST("", convHandler.Start)
		conversations.GET("", convHandler.List)
		conversations.GET("/:id/messages", msgHandler.List)
		conversations.POST("/:id/messages", msgHandler.Send)
		conversations.POST("/:id/read", convHandler.MarkRead)
		conversations.DELETE("/:id", convHandler.Delete)
	}

	api.GET("/messages/unread-count", convHandler.UnreadCount)

	// Outside the auth group: the handler verifies the token itself
	// (query parameter or Authorization header)
	router.GET("/ws", wsHandler.ServeWS)
}
