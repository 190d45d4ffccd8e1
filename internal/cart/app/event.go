package app

import "github.com/dwikikusuma/shoping-cart/internal/cart/domain"

type EventKind string

const (
	EventLoaded          EventKind = "cart.loaded"
	EventItemAdded       EventKind = "cart.item.added"
	EventItemRemoved     EventKind = "cart.item.removed"
	EventQuantityUpdated EventKind = "cart.quantity.updated"
	EventCleared         EventKind = "cart.cleared"
)

// Event describes a state change. ProductID is zero for whole-cart events.
// Cart is a copy of the state right after the change.
//
// Listeners run outside the store lock, so events from concurrent changes
// can arrive out of order. Version increases with every change; a consumer
// that keeps only the newest state should ignore lower versions.
type Event struct {
	Kind      EventKind
	ProductID int64
	Cart      domain.Cart
	Version   uint64
}
