package api

import "time"

// DeviceAuthRequest represents the request payload for device authentication
type DeviceAuthRequest struct {
	SerialNumber string `json:"serial_number"`
	SecretKey    string `json:"secret_key"`
}

// DeviceAuthResponse represents the response payload for device authentication
type DeviceAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	DeviceID  string    `json:"device_id"`
}

// AgentSwitchRequest selects a registered agent backend
type AgentSwitchRequest struct {
	Backend string `json:"backend"`
}

// AgentStatusResponse reports the active backend and everything registered
type AgentStatusResponse struct {
	Active   string   `json:"active"`
	Backends []string `json:"backends"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
