package http

import (
	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"

	cartapp "github.com/dwikikusuma/shoping-cart/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/shoping-cart/internal/checkout/app"
	storefrontapp "github.com/dwikikusuma/shoping-cart/internal/storefront/app"
)

var errInvalidID = errors.New("invalid product id")

// httpStatusFromErr maps domain errors to an HTTP status, a stable code and
// the message sent to the client.
func httpStatusFromErr(err error) (int, string, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, errInvalidID):
		return fiber.StatusBadRequest, "INVALID_ARGUMENT", errInvalidID.Error()
	case errors.Is(err, storefrontapp.ErrUnknownProduct):
		return fiber.StatusNotFound, "NOT_FOUND", storefrontapp.ErrUnknownProduct.Error()
	case errors.Is(err, checkoutapp.ErrEmptyCart):
		return fiber.StatusConflict, "EMPTY_CART", checkoutapp.ErrEmptyCart.Error()
	case errors.Is(err, cartapp.ErrStorage):
		return fiber.StatusServiceUnavailable, "UNAVAILABLE", "cart storage unavailable"
	case errors.Is(err, cartapp.ErrNotLoaded):
		return fiber.StatusServiceUnavailable, "UNAVAILABLE", "cart not ready"
	case errors.As(err, &fe):
		return fe.Code, "HTTP", fe.Message
	default:
		return fiber.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
