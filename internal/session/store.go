// Package session keeps per-chat conversation state.
package session

import (
	"context"

	"propchat/internal/model"
)

// Store maps chat identifiers to conversation state
type Store interface {
	// Get returns the state for id; ok is false when none exists.
	Get(ctx context.Context, id string) (state *model.SessionState, ok bool, err error)
	Set(ctx context.Context, id string, state *model.SessionState) error
	// Delete reports whether id existed.
	Delete(ctx context.Context, id string) (bool, error)
	// Clear drops every session and reports how many there were.
	Clear(ctx context.Context) (int, error)
	List(ctx context.Context) ([]model.SessionSummary, error)
}

func summarize(id string, s *model.SessionState) model.SessionSummary {
	return model.SessionSummary{
		ChatID:          id,
		MessageCount:    len(s.ConversationHistory),
		LastQuery:       s.LastQuery,
		LastResultCount: len(s.LastResults),
		Filters:         s.PreviousFilters,
	}
}
