package app

import (
	"context"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	cartdomain "github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	checkoutdomain "github.com/dwikikusuma/shoping-cart/internal/checkout/domain"
)

type CartStore interface {
	Snapshot() cartdomain.Cart
	Versioned() (cartdomain.Cart, uint64)
	AddItem(ctx context.Context, product cartdomain.Product) error
	RemoveItem(ctx context.Context, productID int64) error
	AdjustQuantity(ctx context.Context, productID int64, delta int) error
	Subscribe(fn cartapp.Listener) (unsubscribe func())
}

// ProductReader resolves catalog entries. Unknown ids are reported as
// ErrUnknownProduct.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (cartdomain.Product, error)
	ListProducts(ctx context.Context) ([]cartdomain.Product, error)
}

type Checkout interface {
	Confirm(ctx context.Context) (checkoutdomain.Receipt, error)
	Quote(ctx context.Context) (checkoutdomain.Quote, error)
}
