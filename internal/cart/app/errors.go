package app

import "github.com/go-faster/errors"

var (
	// ErrStorage wraps any failure of the underlying Slot.
	ErrStorage   = errors.New("cart storage unavailable")
	ErrNotLoaded = errors.New("cart not loaded")
	// ErrMalformedSnapshot is never returned to callers; Load recovers from it.
	ErrMalformedSnapshot = errors.New("malformed cart snapshot")
)

// StorageError carries the slot failure behind ErrStorage. It matches
// ErrStorage with errors.Is and unwraps to the backend error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return ErrStorage.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
