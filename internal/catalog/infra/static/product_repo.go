package static

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
)

//go:embed products.json
var defaultCatalog []byte

type productRow struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

// ProductRepo serves a fixed, trusted product list from memory.
type ProductRepo struct {
	products []domain.Product
	byID     map[int64]int
}

// NewDefaultProductRepo uses the catalog compiled into the binary.
func NewDefaultProductRepo() (*ProductRepo, error) {
	return NewProductRepo(defaultCatalog)
}

// NewProductRepoFromFile reads a catalog in the same JSON shape as products.json.
func NewProductRepoFromFile(path string) (*ProductRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	return NewProductRepo(data)
}

func NewProductRepo(data []byte) (*ProductRepo, error) {
	var rows []productRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	repo := &ProductRepo{
		products: make([]domain.Product, 0, len(rows)),
		byID:     make(map[int64]int, len(rows)),
	}
	for i, row := range rows {
		if row.ID <= 0 {
			return nil, errors.Errorf("catalog entry %d: id must be positive", i)
		}
		if row.Price.IsNegative() {
			return nil, errors.Errorf("catalog entry %d: negative price", i)
		}
		if _, dup := repo.byID[row.ID]; dup {
			return nil, errors.Errorf("catalog entry %d: duplicate id %d", i, row.ID)
		}
		repo.byID[row.ID] = len(repo.products)
		repo.products = append(repo.products, domain.Product{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Image:       row.Image,
		})
	}
	return repo, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return r.products[i], nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}
