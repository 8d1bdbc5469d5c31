package api

import (
	"net/http"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/service"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles end-user chat requests
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// Chat relays one user query through the answer pipeline and returns the
// unified reply. Escalated queries still return 200; the status field tells
// the front-end an admin will follow up.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for chat", "error", err.Error())
		c.Error(apperrors.NewBadRequestError(apperrors.CodeValidation, "user_id and query_text are required"))
		return
	}

	resp, err := h.service.HandleMessage(c.Request.Context(), req.UserID, req.QueryText, req.Language)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers the chat endpoint on the given router group
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.Chat)
}
