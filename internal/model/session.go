package model

import "time"

// SessionState is the conversation memory of one chat identifier
type SessionState struct {
	PreviousFilters     *FilterSet          `json:"previousFilters"`
	LastQuery           string              `json:"lastQuery"`
	LastResults         []FormattedProperty `json:"lastResults"`
	ConversationHistory []HistoryEntry      `json:"conversationHistory"`
}

// HistoryEntry records one completed turn
type HistoryEntry struct {
	Query       string     `json:"query"`
	Filters     *FilterSet `json:"filters"`
	ResultCount int        `json:"resultCount"`
	Timestamp   time.Time  `json:"timestamp"`
}

// NewSessionState returns an empty state
func NewSessionState() *SessionState {
	return &SessionState{
		PreviousFilters:     &FilterSet{},
		LastResults:         []FormattedProperty{},
		ConversationHistory: []HistoryEntry{},
	}
}

// AppendHistory adds an entry, evicting the oldest beyond limit
func (s *SessionState) AppendHistory(entry HistoryEntry, limit int) {
	s.ConversationHistory = append(s.ConversationHistory, entry)
	if limit > 0 && len(s.ConversationHistory) > limit {
		s.ConversationHistory = append([]HistoryEntry(nil), s.ConversationHistory[len(s.ConversationHistory)-limit:]...)
	}
}

// SessionSummary is the per-chat line of the context stats endpoint
type SessionSummary struct {
	ChatID          string     `json:"chatId"`
	MessageCount    int        `json:"messageCount"`
	LastQuery       string     `json:"lastQuery"`
	LastResultCount int        `json:"lastResultCount"`
	Filters         *FilterSet `json:"filters"`
}
