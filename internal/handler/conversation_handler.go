package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/remercado/remercado-backend/internal/middleware"
	"github.com/remercado/remercado-backend/internal/service"
)

// ConversationHandler handles conversation HTTP requests
type ConversationHandler struct {
	convService   service.ConversationService
	msgService    service.MessageService
	unreadService service.UnreadService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(
	convService service.ConversationService,
	msgService service.MessageService,
	unreadService service.UnreadService,
) *ConversationHandler {
	return &ConversationHandler{
		convService:   convService,
		msgService:    msgService,
		unreadService: unreadService,
	}
}

// Start handles POST /conversations: find the thread for this listing
// and counterpart or create it, first message included
func (h *ConversationHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	var req domain.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.convService.ResolveOrCreate(userID, &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// List handles GET /conversations
func (h *ConversationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	conversations, err := h.convService.ListForUser(userID)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, conversations, nil)
}

// MarkRead handles POST /conversations/:id/read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	if err := h.msgService.MarkRead(c.Param("id"), userID); err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"read": true}, nil)
}

// Delete handles DELETE /conversations/:id
func (h *ConversationHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	if err := h.convService.Delete(c.Param("id"), userID); err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// UnreadCount handles GET /messages/unread-count
func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	total, err := h.unreadService.GetTotal(userID)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	common.SuccessResponse(c, &domain.UnreadSummaryResponse{TotalUnread: total}, nil)
}
