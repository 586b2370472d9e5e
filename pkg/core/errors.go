package core

import "errors"

// Common errors.
var (
	// ErrSerialization is returned when a value cannot be encoded for storage.
	ErrSerialization = errors.New("value could not be serialized")
	// ErrStorage is returned when the storage medium rejects a write
	// (unavailable, full or read-only).
	ErrStorage = errors.New("storage unavailable")
	// ErrQuotaExceeded is wrapped together with ErrStorage when a write would
	// exceed the configured storage quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrReadOnly is wrapped together with ErrStorage on writes to a read-only store.
	ErrReadOnly = errors.New("storage is in read-only mode")
	// ErrCorrupt is returned when a stored entry cannot be decoded.
	ErrCorrupt = errors.New("stored value is corrupt")
	// ErrInvalidKey is returned for keys the storage cannot address.
	ErrInvalidKey = errors.New("invalid storage key")
)
