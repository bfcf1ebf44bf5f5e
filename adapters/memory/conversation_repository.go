package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

// ConversationRepository is the in-memory fallback used when no MongoDB
// URI is configured, and in tests.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string][]entities.ChatMessage
}

var _ repositories.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates an empty in-memory repository
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[string][]entities.ChatMessage),
	}
}

// Save implements repositories.ConversationRepository
func (r *ConversationRepository) Save(ctx context.Context, deviceID string, messages []entities.ChatMessage) error {
	if deviceID == "" {
		return errors.New("device ID cannot be empty")
	}

	stored := make([]entities.ChatMessage, len(messages))
	copy(stored, messages)

	r.mu.Lock()
	r.conversations[deviceID] = stored
	r.mu.Unlock()
	return nil
}

// Load implements repositories.ConversationRepository
func (r *ConversationRepository) Load(ctx context.Context, deviceID string) ([]entities.ChatMessage, error) {
	if deviceID == "" {
		return nil, errors.New("device ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.conversations[deviceID]
	out := make([]entities.ChatMessage, len(stored))
	copy(out, stored)
	return out, nil
}
