package app

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	cartdomain "github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/checkout/domain"
)

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	Cart    Cart
	Catalog CatalogReader

	maxConcurrent int
	log           *zap.Logger
	now           func() time.Time
}

func NewService(cart Cart, catalog CatalogReader, maxConcurrent int, log *zap.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		Cart:          cart,
		Catalog:       catalog,
		maxConcurrent: maxConcurrent,
		log:           log,
		now:           time.Now,
	}
}

// Confirm empties the cart and returns a receipt for what it held. An empty
// cart is left untouched and reported as ErrEmptyCart.
func (s *Service) Confirm(ctx context.Context) (domain.Receipt, error) {
	items, err := s.Cart.Take(ctx)
	if err != nil {
		return domain.Receipt{}, err
	}
	if len(items) == 0 {
		return domain.Receipt{}, ErrEmptyCart
	}

	lines := make([]domain.Line, len(items))
	for i, it := range items {
		lines[i] = domain.Line{
			ProductID: it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			LineTotal: it.LineTotal(),
		}
	}

	subtotal, tax, total := totals(lines)
	receipt := domain.Receipt{
		ID:          uuid.New(),
		Lines:       lines,
		Subtotal:    subtotal,
		Tax:         tax,
		Total:       total,
		ConfirmedAt: s.now().UTC(),
	}

	s.log.Info("checkout confirmed",
		zap.Stringer("receipt_id", receipt.ID),
		zap.Int("lines", len(lines)),
		zap.String("total", total.StringFixed(2)),
	)
	return receipt, nil
}

// Quote prices the current cart against the catalog without changing it.
func (s *Service) Quote(ctx context.Context) (domain.Quote, error) {
	items := s.Cart.Snapshot().Items
	if len(items) == 0 {
		return domain.Quote{}, ErrEmptyCart
	}

	lines := make([]domain.Line, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			product, err := s.Catalog.GetProduct(ctx, it.ID)
			if err != nil {
				return errors.Wrapf(err, "failed to get product %d", it.ID)
			}

			lines[idx] = domain.Line{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitPrice: product.Price,
				LineTotal: product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
				Repriced:  !product.Price.Equal(it.Price),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	subtotal, tax, total := totals(lines)
	return domain.Quote{
		Lines:    lines,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}, nil
}

func totals(lines []domain.Line) (subtotal, tax, total decimal.Decimal) {
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	tax = subtotal.Mul(cartdomain.TaxRate)
	return subtotal, tax, subtotal.Add(tax)
}
