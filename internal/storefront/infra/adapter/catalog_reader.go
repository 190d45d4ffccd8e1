package adapter

import (
	"context"

	"github.com/go-faster/errors"

	cartdomain "github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	storefrontapp "github.com/dwikikusuma/shoping-cart/internal/storefront/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, id int64) (cartdomain.Product, error) {
	p, err := r.svc.GetProduct(ctx, id)
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return cartdomain.Product{}, errors.Wrapf(storefrontapp.ErrUnknownProduct, "product %d", id)
	}
	if err != nil {
		return cartdomain.Product{}, err
	}
	return toCartProduct(p), nil
}

func (r *CatalogServiceReader) ListProducts(ctx context.Context) ([]cartdomain.Product, error) {
	products, err := r.svc.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]cartdomain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toCartProduct(p))
	}
	return out, nil
}

func toCartProduct(p catalogdomain.Product) cartdomain.Product {
	return cartdomain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
	}
}
