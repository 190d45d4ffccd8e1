package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	cartdomain "github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	checkoutdomain "github.com/dwikikusuma/shoping-cart/internal/checkout/domain"
	"github.com/dwikikusuma/shoping-cart/internal/storefront/view"
)

var ErrUnknownProduct = errors.New("unknown product")

// Controller turns user intents into cart operations and keeps a Surface
// in step with the cart. It holds no cart state of its own.
type Controller struct {
	store    CartStore
	catalog  ProductReader
	checkout Checkout
	surface  view.Surface
	log      *zap.Logger
}

func NewController(store CartStore, catalog ProductReader, checkout Checkout, surface view.Surface, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store:    store,
		catalog:  catalog,
		checkout: checkout,
		surface:  surface,
		log:      log,
	}
}

// Start subscribes the surface to cart changes and renders the current
// cart once. The returned func detaches the surface.
func (c *Controller) Start() (stop func()) {
	stop = c.store.Subscribe(func(ev cartapp.Event) {
		c.render(ev.Cart, ev.Version)
	})
	c.render(c.store.Versioned())
	return stop
}

func (c *Controller) render(cart cartdomain.Cart, version uint64) {
	model := view.BuildCart(cart)
	model.Version = version
	c.surface.Render(model)
}

func (c *Controller) Add(ctx context.Context, productID int64) error {
	p, err := c.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := c.store.AddItem(ctx, p); err != nil {
		return err
	}
	c.log.Debug("item added", zap.Int64("product_id", productID))
	return nil
}

func (c *Controller) Increment(ctx context.Context, productID int64) error {
	return c.store.AdjustQuantity(ctx, productID, 1)
}

// Decrement lowers the quantity by one. Going below one removes the line.
func (c *Controller) Decrement(ctx context.Context, productID int64) error {
	return c.store.AdjustQuantity(ctx, productID, -1)
}

func (c *Controller) Remove(ctx context.Context, productID int64) error {
	return c.store.RemoveItem(ctx, productID)
}

func (c *Controller) ConfirmCheckout(ctx context.Context) (checkoutdomain.Receipt, error) {
	return c.checkout.Confirm(ctx)
}

func (c *Controller) QuoteCheckout(ctx context.Context) (checkoutdomain.Quote, error) {
	return c.checkout.Quote(ctx)
}

func (c *Controller) Cart() view.Cart {
	cart, version := c.store.Versioned()
	model := view.BuildCart(cart)
	model.Version = version
	return model
}

func (c *Controller) Products(ctx context.Context) ([]view.Product, error) {
	products, err := c.catalog.ListProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	cart := c.store.Snapshot()
	return view.BuildProducts(products, cart.Contains), nil
}
