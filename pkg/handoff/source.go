// Package handoff reads the key/value extras a companion app passes to the receiver
// when it launches a navigation session.
package handoff

import (
	"errors"
	"fmt"
	"time"
)

// Hand-off field keys written by the companion app.
const (
	KeyBuildingName        = "building_name"
	KeyRoomName            = "room_name"
	KeyDestinationLat      = "destination_lat"
	KeyDestinationLng      = "destination_lng"
	KeyBuildingDescription = "building_description"

	// KeyVersion is optional; when present it is checked against the configured constraint.
	KeyVersion = "handoff_version"
	// KeyIssuedAt is optional; an RFC 3339 time the host created the hand-off.
	KeyIssuedAt = "issued_at"
)

var (
	ErrNoActiveHandle      = errors.New("no active hand-off handle")
	ErrNoDataObject        = errors.New("hand-off carries no data object")
	ErrFieldMissing        = errors.New("hand-off field missing")
	ErrFieldType           = errors.New("hand-off field is not a string")
	ErrIncompatibleVersion = errors.New("incompatible hand-off version")
)

// Source is the platform hand-off as seen by the destination resolver.
type Source interface {
	// HasActiveHandle reports whether a host session handed control to the receiver.
	HasActiveHandle() bool
	// GetDataObject returns the extras attached to the active handle.
	GetDataObject() (DataObject, error)
}

// DataObject is the extras bundle of a single hand-off.
type DataObject interface {
	ReadField(key string) (string, error)
}

// Extras is the decoded key/value payload of a hand-off. Values are expected to be
// strings but arrive as arbitrary JSON.
type Extras map[string]any

// ReadField returns the string value stored under key.
func (e Extras) ReadField(key string) (string, error) {
	v, ok := e[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", ErrFieldMissing, key)
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s has type %T", ErrFieldType, key, v)
	}
	return s, nil
}

// IssuedAt returns the time the host created the hand-off, or the zero time when the
// field is absent or malformed.
func (e Extras) IssuedAt() time.Time {
	raw, err := e.ReadField(KeyIssuedAt)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
