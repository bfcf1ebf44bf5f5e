package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumina-ai/lumina/domain/entities"
)

// ErrModelListingUnsupported is returned by agents that have no model
// registry. Callers must not retry; the operation is simply unavailable.
var ErrModelListingUnsupported = errors.New("model listing is not supported by this agent")

// ConversationalAgent abstracts any conversational AI backend. Process may
// take unbounded wall-clock time and may fail; implementations must honor
// context cancellation.
type ConversationalAgent interface {
	// Process sends a prompt (with any rendered conversation context) and
	// returns the agent's response.
	Process(ctx context.Context, prompt string) (*entities.AgentResponse, error)
	// ListModels returns the backend's model catalog as raw JSON, or
	// ErrModelListingUnsupported.
	ListModels(ctx context.Context) (string, error)
}

// AgentError is a structured network failure from an agent backend,
// carrying the upstream HTTP status code.
type AgentError struct {
	HTTPCode int
	Message  string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent request failed with status %d: %s", e.HTTPCode, e.Message)
}
