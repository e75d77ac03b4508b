package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"propchat/internal/apperror"
	"propchat/internal/model"
	"propchat/internal/service"
)

// ContextHandler manages stored conversation context
type ContextHandler struct {
	chatService *service.ChatService
	logger      zerolog.Logger
}

// NewContextHandler creates a new context handler
func NewContextHandler(chatService *service.ChatService, logger zerolog.Logger) *ContextHandler {
	return &ContextHandler{
		chatService: chatService,
		logger:      logger.With().Str("component", "context_handler").Logger(),
	}
}

// Clear handles POST /api/chat/clear-context. An empty body clears every chat.
func (h *ContextHandler) Clear(c *gin.Context) {
	var req model.ClearContextRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.logger, apperror.NewValidationError("INVALID_REQUEST", "Invalid request: "+err.Error()))
		return
	}

	response, err := h.chatService.ClearContext(c.Request.Context(), strings.TrimSpace(req.ChatID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/chat/context-stats
func (h *ContextHandler) Stats(c *gin.Context) {
	response, err := h.chatService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
