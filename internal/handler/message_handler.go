package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/remercado/remercado-backend/internal/middleware"
	"github.com/remercado/remercado-backend/internal/service"
)

// MessageHandler handles message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /conversations/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Send(c.Param("id"), userID, &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// List handles GET /conversations/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	messages, err := h.service.ListForConversation(c.Param("id"), userID)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, messages, nil)
}
