package app

import (
	"context"
)

// Slot is the durable key-value entry that holds the serialized cart.
// Get reports ok=false when nothing has been stored yet.
type Slot interface {
	Get(ctx context.Context) (blob string, ok bool, err error)
	Set(ctx context.Context, blob string) error
}

// Listener is called after every successful state change.
type Listener func(Event)
