package records

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the target record no longer exists.
	ErrNotFound = errors.New("record not found")

	// ErrStoreUnavailable indicates a transport or connectivity failure.
	// Callers must not assume any write took effect when they see it.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownCollection indicates a collection name with no registry entry.
	ErrUnknownCollection = errors.New("unknown collection")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
