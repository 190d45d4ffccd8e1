package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

func line(id int64, name, price string, qty int) domain.LineItem {
	return domain.LineItem{
		Product:  domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Image: "img.png"},
		Quantity: qty,
	}
}

func TestBuildCart(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		c := BuildCart(domain.Cart{})
		assert.True(t, c.Empty)
		assert.Equal(t, 0, c.Count)
		assert.Equal(t, "0.00", c.Subtotal)
		assert.Equal(t, "0.00", c.Tax)
		assert.Equal(t, "0.00", c.Total)
		assert.NotNil(t, c.Items)
	})

	t.Run("lines and totals", func(t *testing.T) {
		c := BuildCart(domain.Cart{Items: []domain.LineItem{
			line(1, "Lamp", "19.99", 2),
			line(2, "Mug", "5", 1),
		}})

		assert.False(t, c.Empty)
		assert.Equal(t, 3, c.Count)
		require.Len(t, c.Items, 2)
		assert.Equal(t, "19.99", c.Items[0].Price)
		assert.Equal(t, "39.98", c.Items[0].LineTotal)
		assert.Equal(t, "5.00", c.Items[1].Price)
		assert.Equal(t, "44.98", c.Subtotal)
		assert.Equal(t, "4.50", c.Tax)
		assert.Equal(t, "49.48", c.Total)
	})

	t.Run("rounding happens once at display", func(t *testing.T) {
		c := BuildCart(domain.Cart{Items: []domain.LineItem{line(1, "Pen", "0.333", 3)}})
		assert.Equal(t, "1.00", c.Subtotal)
		assert.Equal(t, "1.10", c.Total)
	})
}

func TestBuildProducts(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Lamp", Price: decimal.RequireFromString("10")},
		{ID: 2, Name: "Mug", Price: decimal.RequireFromString("2.5")},
	}

	got := BuildProducts(products, func(id int64) bool { return id == 2 })
	require.Len(t, got, 2)
	assert.False(t, got[0].InCart)
	assert.Equal(t, LabelAddToCart, got[0].ButtonLabel)
	assert.True(t, got[1].InCart)
	assert.Equal(t, LabelInCart, got[1].ButtonLabel)
	assert.Equal(t, "2.50", got[1].Price)

	none := BuildProducts(products, nil)
	assert.False(t, none[1].InCart)
}

func TestRenderPage(t *testing.T) {
	products := BuildProducts([]domain.Product{
		{ID: 1, Name: `<script>alert("x")</script>`, Price: decimal.RequireFromString("1")},
	}, func(int64) bool { return true })

	t.Run("empty cart", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderPage(&buf, Page{Title: "Shop", Products: products, Cart: BuildCart(domain.Cart{})}))

		html := buf.String()
		assert.Contains(t, html, "Your cart is empty")
		assert.Contains(t, html, "disabled")
		assert.Contains(t, html, LabelInCart)
		assert.NotContains(t, html, "<script>alert", "product names are escaped")
	})

	t.Run("cart lines", func(t *testing.T) {
		var buf bytes.Buffer
		cart := BuildCart(domain.Cart{Items: []domain.LineItem{line(7, "Lamp", "10", 2)}})
		require.NoError(t, RenderPage(&buf, Page{Title: "Shop", Cart: cart, Notice: "Order placed"}))

		html := buf.String()
		assert.NotContains(t, html, "Your cart is empty")
		assert.Contains(t, html, "/api/cart/items/7/increment")
		assert.Contains(t, html, "$22.00")
		assert.Equal(t, 1, strings.Count(html, "Order placed"))
	})
}
