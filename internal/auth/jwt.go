package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const deviceTokenTTL = 24 * time.Hour

// DeviceClaims represents the claims in a device JWT token
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	Platform string `json:"platform,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and validates device tokens with an injected secret.
type Service struct {
	secret []byte
}

// NewService creates a token service. The secret must not be empty.
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Service{secret: []byte(secret)}, nil
}

// GenerateDeviceToken generates a JWT token for device authentication
func (s *Service) GenerateDeviceToken(deviceID, platform string) (string, error) {
	claims := &DeviceClaims{
		DeviceID: deviceID,
		Platform: platform,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(deviceTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*DeviceClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
