package app

import (
	"context"

	"github.com/shopspring/decimal"

	cartdomain "github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

// CartReader returns the current cart without changing it.
type CartReader interface {
	Snapshot() cartdomain.Cart
}

// CartDrainer empties the cart and hands back what it held, atomically.
type CartDrainer interface {
	Take(ctx context.Context) ([]cartdomain.LineItem, error)
}

type Cart interface {
	CartReader
	CartDrainer
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID int64) (Product, error)
}

type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}
