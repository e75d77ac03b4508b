package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"propchat/internal/apperror"
	"propchat/internal/model"
	"propchat/internal/service"
)

// ChatHandler handles conversational search requests
type ChatHandler struct {
	chatService      *service.ChatService
	maxMessageLength int
	logger           zerolog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, maxMessageLength int, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService:      chatService,
		maxMessageLength: maxMessageLength,
		logger:           logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.logger, apperror.NewValidationError("INVALID_REQUEST", "Invalid request: "+err.Error()))
		return
	}

	message, err := h.validateMessage(req.Message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response, err := h.chatService.HandleMessage(c.Request.Context(), strings.TrimSpace(req.ChatID), message)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// validateMessage checks the raw message field in order: present, string,
// non-blank, within the length limit. Length counts characters.
func (h *ChatHandler) validateMessage(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isFalsy(trimmed) {
		return "", apperror.NewValidationError("MISSING_MESSAGE", "Message is required")
	}

	var message string
	if err := json.Unmarshal(trimmed, &message); err != nil {
		return "", apperror.NewValidationError("INVALID_MESSAGE_TYPE", "Message must be a string")
	}

	if strings.TrimSpace(message) == "" {
		return "", apperror.NewValidationError("EMPTY_MESSAGE", "Message cannot be empty")
	}

	if utf8.RuneCountInString(message) > h.maxMessageLength {
		return "", apperror.NewValidationError("MESSAGE_TOO_LONG",
			fmt.Sprintf("Message is too long (max %d characters)", h.maxMessageLength))
	}

	return message, nil
}

// isFalsy matches the JSON values a client sends for "no message"
func isFalsy(raw []byte) bool {
	switch string(raw) {
	case "null", `""`, "false", "0":
		return true
	}
	return false
}
