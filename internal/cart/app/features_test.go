package app_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/memory"
)

type cartTestContext struct {
	slot *memory.Slot
	svc  *app.Service
	err  error
}

func (c *cartTestContext) reset() {
	c.slot = nil
	c.svc = nil
	c.err = nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.slot = memory.NewSlot()
	c.svc = app.NewService(c.slot)
	return c.svc.Load(context.Background())
}

func (c *cartTestContext) theStoredSnapshotIs(blob string) error {
	return c.slot.Set(context.Background(), blob)
}

func (c *cartTestContext) iAddProductPriced(id int64, price string) error {
	p := domain.Product{ID: id, Name: fmt.Sprintf("Product %d", id), Price: decimal.RequireFromString(price)}
	c.err = c.svc.AddItem(context.Background(), p)
	return nil
}

func (c *cartTestContext) iRemoveProduct(id int64) error {
	c.err = c.svc.RemoveItem(context.Background(), id)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfProductTo(id int64, q int) error {
	c.err = c.svc.UpdateQuantity(context.Background(), id, q)
	return nil
}

func (c *cartTestContext) iReloadTheCartFromStorage() error {
	c.svc = app.NewService(c.slot)
	c.err = c.svc.Load(context.Background())
	return nil
}

func (c *cartTestContext) storageStartsRejectingWrites() error {
	c.slot.FailSet(errors.New("storage full"))
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if got := len(c.svc.Items()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	return c.theCartHasLines(0)
}

func (c *cartTestContext) theItemCountIs(n int) error {
	if got := c.svc.ItemCount(); got != n {
		return fmt.Errorf("expected item count %d, got %d", n, got)
	}
	return nil
}

func expectAmount(name string, got decimal.Decimal, want string) error {
	if s := got.StringFixed(2); s != want {
		return fmt.Errorf("expected %s %s, got %s", name, want, s)
	}
	return nil
}

func (c *cartTestContext) theSubtotalIs(want string) error {
	return expectAmount("subtotal", c.svc.Subtotal(), want)
}

func (c *cartTestContext) theTaxIs(want string) error {
	return expectAmount("tax", c.svc.TaxAmount(), want)
}

func (c *cartTestContext) theTotalIs(want string) error {
	return expectAmount("total", c.svc.Total(), want)
}

func (c *cartTestContext) theLinesAre(list string) error {
	var got []string
	for _, item := range c.svc.Items() {
		got = append(got, strconv.FormatInt(item.ID, 10))
	}
	if strings.Join(got, ",") != list {
		return fmt.Errorf("expected lines %s, got %s", list, strings.Join(got, ","))
	}
	return nil
}

func (c *cartTestContext) theQuantityOfProductIs(id int64, q int) error {
	item, ok := c.svc.Item(id)
	if !ok {
		return fmt.Errorf("product %d not in cart", id)
	}
	if item.Quantity != q {
		return fmt.Errorf("expected quantity %d, got %d", q, item.Quantity)
	}
	return nil
}

func (c *cartTestContext) noErrorWasRaised() error {
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func (c *cartTestContext) theErrorIsAStorageError() error {
	if !errors.Is(c.err, app.ErrStorage) {
		return fmt.Errorf("expected storage error, got %v", c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the stored snapshot is "([^"]*)"$`, tc.theStoredSnapshotIs)

	// When steps
	ctx.Step(`^I add product (\d+) priced ([\d.]+)$`, tc.iAddProductPriced)
	ctx.Step(`^I remove product (\d+)$`, tc.iRemoveProduct)
	ctx.Step(`^I set the quantity of product (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)
	ctx.Step(`^I reload the cart from storage$`, tc.iReloadTheCartFromStorage)
	ctx.Step(`^storage starts rejecting writes$`, tc.storageStartsRejectingWrites)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the item count is (\d+)$`, tc.theItemCountIs)
	ctx.Step(`^the subtotal is "([^"]*)"$`, tc.theSubtotalIs)
	ctx.Step(`^the tax is "([^"]*)"$`, tc.theTaxIs)
	ctx.Step(`^the total is "([^"]*)"$`, tc.theTotalIs)
	ctx.Step(`^the lines are "([^"]*)"$`, tc.theLinesAre)
	ctx.Step(`^the quantity of product (\d+) is (\d+)$`, tc.theQuantityOfProductIs)
	ctx.Step(`^no error was raised$`, tc.noErrorWasRaised)
	ctx.Step(`^the error is a storage error$`, tc.theErrorIsAStorageError)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
