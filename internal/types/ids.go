package types

import (
	"time"

	"github.com/google/uuid"
)

// RequestID represents a UUIDv7 filter-request identifier.
// String alias enables type safety while maintaining JSON string
// serialization. UUIDv7 time-ordering ensures sequential IDs cluster in
// B-tree indexes.
type RequestID string

// NewRequestID generates a UUIDv7 filter-request identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRequestID() RequestID {
	return RequestID(uuid.Must(uuid.NewV7()).String())
}

// ParseRequestID validates and converts a string to RequestID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseRequestID(s string) (RequestID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RequestID(s), nil
}

// RequestIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Enables time-based queries without a database lookup.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func RequestIDTime(id RequestID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
