package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lumina-ai/lumina/domain/entities"
	"github.com/lumina-ai/lumina/domain/repositories"
)

// DeviceRepository is an in-memory device registry for development. Real
// deployments register devices through provisioning; this seeds a few.
type DeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]*entities.Device
	secrets map[string]string // serial_number -> secret_key
}

var _ repositories.DeviceRepository = (*DeviceRepository)(nil)

// NewDeviceRepository creates the registry with pre-registered test devices
func NewDeviceRepository() *DeviceRepository {
	repo := &DeviceRepository{
		devices: make(map[string]*entities.Device),
		secrets: make(map[string]string),
	}

	repo.Register("LUMINA001", "secret123", "android")
	repo.Register("LUMINA002", "secret456", "ios")
	repo.Register("LUMINA003", "secret789", "auto")

	return repo
}

// Register adds a device to the registry
func (r *DeviceRepository) Register(serialNumber, secret, platform string) *entities.Device {
	device := &entities.Device{
		ID:           "device-" + serialNumber,
		SerialNumber: serialNumber,
		Platform:     platform,
		CreatedAt:    time.Now(),
	}

	r.mu.Lock()
	r.devices[device.ID] = device
	r.secrets[serialNumber] = secret
	r.mu.Unlock()
	return device
}

// Authenticate implements repositories.DeviceRepository
func (r *DeviceRepository) Authenticate(ctx context.Context, serialNumber, secretKey string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storedSecret, exists := r.secrets[serialNumber]
	if !exists {
		return nil, errors.New("device not found")
	}
	if storedSecret != secretKey {
		return nil, errors.New("invalid credentials")
	}

	for _, device := range r.devices {
		if device.SerialNumber == serialNumber {
			return device, nil
		}
	}
	return nil, errors.New("device not found")
}

// GetByID implements repositories.DeviceRepository
func (r *DeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, exists := r.devices[id]
	if !exists {
		return nil, errors.New("device not found")
	}
	return device, nil
}
