package entities

import (
	"errors"
	"time"
)

// Device represents a registered assistant device (phone, head unit, ...)
type Device struct {
	ID           string    `json:"id" bson:"id"`
	SerialNumber string    `json:"serial_number" bson:"serial_number"`
	Platform     string    `json:"platform" bson:"platform"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

func (d *Device) Validate() error {
	if d.SerialNumber == "" {
		return errors.New("serial number is required")
	}
	if d.Platform == "" {
		return errors.New("platform is required")
	}
	return nil
}
