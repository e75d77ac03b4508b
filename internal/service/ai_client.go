package service

import (
	"context"
	"errors"
)

// ErrCompletionDisabled is returned by clients that have no credentials
var ErrCompletionDisabled = errors.New("completion service is not enabled")

// CompletionClient is the text-completion oracle behind filter extraction.
// Replies are opaque text; callers parse what they need.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// Ensure OpenAIClient implements CompletionClient
var _ CompletionClient = (*OpenAIClient)(nil)
