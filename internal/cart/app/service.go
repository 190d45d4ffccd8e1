package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

// Service is the single source of truth for cart contents. Every mutation
// is persisted to the Slot before subscribers are notified.
type Service struct {
	slot Slot
	log  *zap.Logger

	mu      sync.Mutex
	cart    domain.Cart
	loaded  bool
	version uint64

	subMu     sync.Mutex
	nextSubID int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(slot Slot, opts ...Option) *Service {
	s := &Service{
		slot: slot,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the cart from the slot. An absent or malformed snapshot
// yields an empty cart. A failing slot also yields an empty cart, but the
// error is returned so the caller can report it.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	blob, ok, err := s.slot.Get(ctx)
	s.cart = domain.Cart{}
	s.loaded = true

	var loadErr error
	switch {
	case err != nil:
		loadErr = &StorageError{Op: "load", Err: err}
		s.log.Error("cart load failed, starting empty", zap.Error(err))
	case !ok:
		s.log.Debug("no saved cart, starting empty")
	default:
		cart, decodeErr := decodeCart(blob)
		if decodeErr != nil {
			s.log.Warn("discarding malformed cart snapshot", zap.Error(decodeErr))
			break
		}
		s.cart = cart
		s.log.Info("cart restored", zap.Int("lines", len(cart.Items)), zap.Int("item_count", cart.ItemCount()))
	}
	s.version++
	snapshot, version := s.cart.Clone(), s.version
	s.mu.Unlock()

	s.notify(Event{Kind: EventLoaded, Cart: snapshot, Version: version})
	return loadErr
}

func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	return s.persist(ctx)
}

func (s *Service) persist(ctx context.Context) error {
	blob, err := encodeCart(s.cart)
	if err != nil {
		return err
	}
	if err := s.slot.Set(ctx, blob); err != nil {
		s.log.Error("cart save failed", zap.Error(err))
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// mutate applies fn under the lock and persists the result. If the save
// fails the previous state is restored so memory never runs ahead of the slot.
// fn returns the kind of change it made, or "" when there is nothing to save.
func (s *Service) mutate(ctx context.Context, productID int64, fn func(c *domain.Cart) EventKind) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}

	previous := s.cart.Clone()
	kind := fn(&s.cart)
	if kind == "" {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist(ctx); err != nil {
		s.cart = previous
		s.mu.Unlock()
		return err
	}
	s.version++
	snapshot, version := s.cart.Clone(), s.version
	s.mu.Unlock()

	s.notify(Event{Kind: kind, ProductID: productID, Cart: snapshot, Version: version})
	return nil
}

// AddItem increments the quantity of an existing line by one or appends
// a new line with quantity one.
func (s *Service) AddItem(ctx context.Context, product domain.Product) error {
	return s.mutate(ctx, product.ID, func(c *domain.Cart) EventKind {
		if i := c.IndexOf(product.ID); i >= 0 {
			c.Items[i].Quantity++
			return EventItemAdded
		}
		c.Items = append(c.Items, domain.LineItem{Product: product, Quantity: 1})
		return EventItemAdded
	})
}

// RemoveItem deletes the line for productID. Removing an absent id is not
// an error and still saves.
func (s *Service) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, productID, func(c *domain.Cart) EventKind {
		removeLine(c, productID)
		return EventItemRemoved
	})
}

// UpdateQuantity sets the quantity of an existing line. A quantity below
// one removes the line. Unknown ids are ignored.
func (s *Service) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, productID, func(c *domain.Cart) EventKind {
		return setQuantity(c, productID, quantity)
	})
}

// AdjustQuantity changes the quantity of an existing line by delta in one
// step. The result is clamped the same way as UpdateQuantity.
func (s *Service) AdjustQuantity(ctx context.Context, productID int64, delta int) error {
	return s.mutate(ctx, productID, func(c *domain.Cart) EventKind {
		i := c.IndexOf(productID)
		if i < 0 {
			return ""
		}
		return setQuantity(c, productID, c.Items[i].Quantity+delta)
	})
}

func (s *Service) Clear(ctx context.Context) error {
	return s.mutate(ctx, 0, func(c *domain.Cart) EventKind {
		c.Items = nil
		return EventCleared
	})
}

// Take empties the cart and returns the lines it held. An empty cart is
// left untouched and nothing is saved.
func (s *Service) Take(ctx context.Context) ([]domain.LineItem, error) {
	var taken []domain.LineItem
	err := s.mutate(ctx, 0, func(c *domain.Cart) EventKind {
		if c.IsEmpty() {
			return ""
		}
		taken = c.Clone().Items
		c.Items = nil
		return EventCleared
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}

func setQuantity(c *domain.Cart, productID int64, quantity int) EventKind {
	i := c.IndexOf(productID)
	if i < 0 {
		return ""
	}
	if quantity <= 0 {
		removeLine(c, productID)
		return EventItemRemoved
	}
	c.Items[i].Quantity = quantity
	return EventQuantityUpdated
}

func removeLine(c *domain.Cart, productID int64) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

func (s *Service) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Versioned returns the current cart with the version of the last change,
// the same number carried by that change's Event.
func (s *Service) Versioned() (domain.Cart, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone(), s.version
}

func (s *Service) Items() []domain.LineItem {
	return s.Snapshot().Items
}

func (s *Service) Item(productID int64) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cart.IndexOf(productID)
	if i < 0 {
		return domain.LineItem{}, false
	}
	return s.cart.Items[i], true
}

func (s *Service) Contains(productID int64) bool {
	_, ok := s.Item(productID)
	return ok
}

func (s *Service) Subtotal() decimal.Decimal {
	return s.Snapshot().Subtotal()
}

func (s *Service) TaxAmount() decimal.Decimal {
	return s.Snapshot().Tax()
}

func (s *Service) Total() decimal.Decimal {
	return s.Snapshot().Total()
}

func (s *Service) ItemCount() int {
	return s.Snapshot().ItemCount()
}

// Subscribe registers fn for change notifications. Listeners run on the
// goroutine that made the change, after the store lock is released.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Service) notify(ev Event) {
	s.subMu.Lock()
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
