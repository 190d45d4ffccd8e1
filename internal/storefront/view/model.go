package view

import (
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

const (
	LabelAddToCart = "Add to Cart"
	LabelInCart    = "In Cart"
)

// Surface receives every new cart render model. Implementations must not
// block for long: Render runs on the goroutine that changed the cart.
type Surface interface {
	Render(Cart)
}

// SurfaceFunc adapts a plain function to Surface.
type SurfaceFunc func(Cart)

func (f SurfaceFunc) Render(c Cart) { f(c) }

type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type Cart struct {
	Count    int    `json:"count"`
	Items    []Item `json:"items"`
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	Empty    bool   `json:"empty"`
	// Version is the cart version this model was built from. Surfaces use
	// it to drop renders that arrive after a newer one.
	Version uint64 `json:"-"`
}

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	InCart      bool   `json:"in_cart"`
	ButtonLabel string `json:"button_label"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildCart maps cart state to what the cart panel shows. Amounts are
// rounded to two decimals only here; the cart itself keeps full precision.
func BuildCart(c domain.Cart) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, Item{
			ID:        it.ID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
			LineTotal: money(it.LineTotal()),
		})
	}

	return Cart{
		Count:    c.ItemCount(),
		Items:    items,
		Subtotal: money(c.Subtotal()),
		Tax:      money(c.Tax()),
		Total:    money(c.Total()),
		Empty:    c.IsEmpty(),
	}
}

func BuildProducts(products []domain.Product, inCart func(id int64) bool) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		label := LabelAddToCart
		in := inCart != nil && inCart(p.ID)
		if in {
			label = LabelInCart
		}
		out = append(out, Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			Price:       money(p.Price),
			InCart:      in,
			ButtonLabel: label,
		})
	}
	return out
}
