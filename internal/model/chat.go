package model

import "encoding/json"

// ChatRequest represents a chat turn request. Message is kept raw so the
// handler can tell a missing message from one of the wrong type.
type ChatRequest struct {
	Message json.RawMessage `json:"message"`
	ChatID  string          `json:"chatId,omitempty"`
}

// ChatResponse represents the answer to one chat turn
type ChatResponse struct {
	Summary        string              `json:"summary"`
	Properties     []FormattedProperty `json:"properties"`
	Filters        *FilterSet          `json:"filters"`
	TotalResults   int                 `json:"totalResults"`
	ContextApplied bool                `json:"contextApplied"`
	ChatID         string              `json:"chatId,omitempty"`
}

// ClearContextRequest represents a request to drop one or all sessions
type ClearContextRequest struct {
	ChatID string `json:"chatId,omitempty"`
}

// ClearContextResponse represents the clear-context result
type ClearContextResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ChatID       string `json:"chatId,omitempty"`
	ClearedCount *int   `json:"clearedCount,omitempty"`
}

// ContextStatsResponse lists the sessions held in memory
type ContextStatsResponse struct {
	TotalChats int              `json:"totalChats"`
	Chats      []SessionSummary `json:"chats"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
