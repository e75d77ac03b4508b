package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"propchat/internal/apperror"
	"propchat/internal/metrics"
	"propchat/internal/model"
	"propchat/internal/repository"
	"propchat/internal/session"
)

// PropertySource provides the loaded property collection
type PropertySource interface {
	Properties() ([]model.Property, error)
}

// ChatOptions bounds what one turn returns and what a session keeps
type ChatOptions struct {
	MaxResults      int
	HistorySize     int
	LastResultsSize int
}

// DefaultChatOptions returns the stock limits
func DefaultChatOptions() ChatOptions {
	return ChatOptions{MaxResults: 10, HistorySize: 10, LastResultsSize: 10}
}

// ChatService runs one conversational turn: extract, merge, search, summarize
type ChatService struct {
	extractor Extractor
	sessions  session.Store
	locker    *session.Locker
	dataset   PropertySource
	engine    *SearchEngine
	opts      ChatOptions
	logger    zerolog.Logger
	now       func() time.Time

	// turns and single-chat clears hold it shared; clear-all holds it exclusively
	clearMu sync.RWMutex
}

// NewChatService creates a chat service
func NewChatService(
	extractor Extractor,
	sessions session.Store,
	dataset PropertySource,
	engine *SearchEngine,
	opts ChatOptions,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		extractor: extractor,
		sessions:  sessions,
		locker:    session.NewLocker(),
		dataset:   dataset,
		engine:    engine,
		opts:      opts,
		logger:    logger.With().Str("component", "chat").Logger(),
		now:       time.Now,
	}
}

// NewChatID generates a session identifier
func NewChatID() string {
	return "chat_" + uuid.NewString()
}

// HandleMessage answers one message. An empty chatID starts a new session
// whose identifier is returned in the response.
func (s *ChatService) HandleMessage(ctx context.Context, chatID, message string) (*model.ChatResponse, error) {
	if chatID == "" {
		chatID = NewChatID()
	}
	log := s.logger.With().Str("chat_id", chatID).Logger()

	s.clearMu.RLock()
	defer s.clearMu.RUnlock()
	unlock := s.locker.Lock(chatID)
	defer unlock()

	state, existed, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, apperror.NewUnavailableError("SESSION_UNAVAILABLE", "Session store is not available", err)
	}
	if !existed {
		state = model.NewSessionState()
	}

	current, err := s.extractor.Extract(ctx, message)
	if err != nil || current == nil {
		current = ExtractPatterns(message)
	}

	merged, decision := MergeWithDecision(current, state.PreviousFilters, message)
	metrics.RecordMergeDecision(string(decision))
	log.Debug().
		Interface("extracted", current).
		Interface("effective", merged).
		Str("decision", string(decision)).
		Msg("Filters resolved")

	properties, err := s.dataset.Properties()
	if err != nil {
		if errors.Is(err, repository.ErrDatasetNotLoaded) {
			return nil, apperror.NewUnavailableError("DATASET_UNAVAILABLE", "Property data is not loaded yet", err)
		}
		return nil, apperror.NewInternalError("Failed to read property data", err)
	}

	matches := FormatProperties(s.engine.Search(merged, properties))
	metrics.RecordSearch(len(matches))
	summary := Summarize(merged, matches)

	state.PreviousFilters = merged
	state.LastQuery = message
	state.LastResults = head(matches, s.opts.LastResultsSize)
	state.AppendHistory(model.HistoryEntry{
		Query:       message,
		Filters:     merged,
		ResultCount: len(matches),
		Timestamp:   s.now().UTC(),
	}, s.opts.HistorySize)

	if err := s.sessions.Set(ctx, chatID, state); err != nil {
		return nil, apperror.NewUnavailableError("SESSION_UNAVAILABLE", "Failed to save session", err)
	}
	if !existed {
		metrics.Sessions.Inc()
	}

	log.Debug().Int("results", len(matches)).Msg("Turn completed")

	return &model.ChatResponse{
		Summary:        summary,
		Properties:     head(matches, s.opts.MaxResults),
		Filters:        merged,
		TotalResults:   len(matches),
		ContextApplied: ContextApplied(current, merged),
		ChatID:         chatID,
	}, nil
}

// ClearContext drops one session, or every session when chatID is empty.
// Clearing an unknown id is not an error. Clearing everything waits for
// turns in flight so none of them re-creates a session afterwards.
func (s *ChatService) ClearContext(ctx context.Context, chatID string) (*model.ClearContextResponse, error) {
	if chatID != "" {
		s.clearMu.RLock()
		defer s.clearMu.RUnlock()
		unlock := s.locker.Lock(chatID)
		defer unlock()

		existed, err := s.sessions.Delete(ctx, chatID)
		if err != nil {
			return nil, apperror.NewUnavailableError("SESSION_UNAVAILABLE", "Failed to clear session", err)
		}

		msg := "No context found for chat"
		if existed {
			msg = "Context cleared for chat"
			metrics.Sessions.Dec()
		}
		return &model.ClearContextResponse{Success: true, Message: msg, ChatID: chatID}, nil
	}

	s.clearMu.Lock()
	defer s.clearMu.Unlock()

	n, err := s.sessions.Clear(ctx)
	if err != nil {
		return nil, apperror.NewUnavailableError("SESSION_UNAVAILABLE", "Failed to clear sessions", err)
	}
	metrics.SetSessions(0)
	return &model.ClearContextResponse{
		Success:      true,
		Message:      fmt.Sprintf("All contexts cleared (%d chats)", n),
		ClearedCount: &n,
	}, nil
}

// Stats lists the sessions currently held
func (s *ChatService) Stats(ctx context.Context) (*model.ContextStatsResponse, error) {
	chats, err := s.sessions.List(ctx)
	if err != nil {
		return nil, apperror.NewUnavailableError("SESSION_UNAVAILABLE", "Failed to list sessions", err)
	}
	metrics.SetSessions(len(chats))
	return &model.ContextStatsResponse{TotalChats: len(chats), Chats: chats}, nil
}

func head(items []model.FormattedProperty, n int) []model.FormattedProperty {
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	out := make([]model.FormattedProperty, len(items))
	copy(out, items)
	return out
}
