package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

// ConversationRepository persists conversation history per device in a
// single document keyed by device ID.
type ConversationRepository struct {
	collection *mongo.Collection
}

var _ repositories.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a MongoDB conversation repository
func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		collection: db.Collection("conversations"),
	}
}

type conversationDocument struct {
	DeviceID  string                 `bson:"device_id"`
	Messages  []entities.ChatMessage `bson:"messages"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

// Save implements repositories.ConversationRepository
func (r *ConversationRepository) Save(ctx context.Context, deviceID string, messages []entities.ChatMessage) error {
	if deviceID == "" {
		return errors.New("device ID cannot be empty")
	}

	filter := bson.M{"device_id": deviceID}
	update := bson.M{"$set": conversationDocument{
		DeviceID:  deviceID,
		Messages:  messages,
		UpdatedAt: time.Now(),
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

// Load implements repositories.ConversationRepository
func (r *ConversationRepository) Load(ctx context.Context, deviceID string) ([]entities.ChatMessage, error) {
	if deviceID == "" {
		return nil, errors.New("device ID cannot be empty")
	}

	var doc conversationDocument
	err := r.collection.FindOne(ctx, bson.M{"device_id": deviceID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []entities.ChatMessage{}, nil
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	return doc.Messages, nil
}
