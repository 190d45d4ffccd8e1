package app

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

// record is the persisted shape of a line item: every product field plus
// the quantity. Price is written as a JSON number.
type record struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Image       string      `json:"image"`
	Quantity    int         `json:"quantity"`
}

func encodeCart(c domain.Cart) (string, error) {
	records := make([]record, 0, len(c.Items))
	for _, item := range c.Items {
		records = append(records, record{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       json.Number(item.Price.String()),
			Image:       item.Image,
			Quantity:    item.Quantity,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", errors.Wrap(err, "encode cart")
	}
	return string(data), nil
}

func decodeCart(blob string) (domain.Cart, error) {
	var records []record
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return domain.Cart{}, errors.Wrap(ErrMalformedSnapshot, err.Error())
	}

	items := make([]domain.LineItem, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for i, rec := range records {
		price, err := decimal.NewFromString(rec.Price.String())
		if err != nil {
			return domain.Cart{}, errors.Wrapf(ErrMalformedSnapshot, "item %d: price %q", i, rec.Price)
		}
		if price.IsNegative() {
			return domain.Cart{}, errors.Wrapf(ErrMalformedSnapshot, "item %d: negative price", i)
		}
		if rec.Quantity < 1 {
			return domain.Cart{}, errors.Wrapf(ErrMalformedSnapshot, "item %d: quantity %d", i, rec.Quantity)
		}
		if _, dup := seen[rec.ID]; dup {
			return domain.Cart{}, errors.Wrapf(ErrMalformedSnapshot, "item %d: duplicate id %d", i, rec.ID)
		}
		seen[rec.ID] = struct{}{}

		items = append(items, domain.LineItem{
			Product: domain.Product{
				ID:          rec.ID,
				Name:        rec.Name,
				Description: rec.Description,
				Price:       price,
				Image:       rec.Image,
			},
			Quantity: rec.Quantity,
		})
	}

	return domain.Cart{Items: items}, nil
}
