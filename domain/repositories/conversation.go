package repositories

import (
	"context"

	"github.com/lumina-ai/lumina/domain/entities"
)

// ConversationRepository persists conversation history per device
type ConversationRepository interface {
	// Save replaces the stored history for a device with the given messages
	Save(ctx context.Context, deviceID string, messages []entities.ChatMessage) error
	// Load returns the stored history for a device; an empty slice when
	// none exists yet.
	Load(ctx context.Context, deviceID string) ([]entities.ChatMessage, error)
}

// DeviceRepository authenticates and looks up registered devices
type DeviceRepository interface {
	// Authenticate validates device credentials and returns the device
	Authenticate(ctx context.Context, serialNumber, secretKey string) (*entities.Device, error)
	GetByID(ctx context.Context, id string) (*entities.Device, error)
}
