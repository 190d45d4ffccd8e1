package domain

import "github.com/shopspring/decimal"

// TaxRate is applied to the subtotal to get the tax amount.
var TaxRate = decimal.RequireFromString("0.10")

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
}

type LineItem struct {
	Product
	Quantity int
}

func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of line items with unique product ids.
// Order is insertion order.
type Cart struct {
	Items []LineItem
}

func (c Cart) IndexOf(productID int64) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Contains(productID int64) bool {
	return c.IndexOf(productID) >= 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

func (c Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate)
}

func (c Cart) Total() decimal.Decimal {
	subtotal := c.Subtotal()
	return subtotal.Add(subtotal.Mul(TaxRate))
}

// Clone returns a deep copy so callers never share the backing array.
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
