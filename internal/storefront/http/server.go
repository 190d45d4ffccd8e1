package http

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	cartdomain "github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	checkoutdomain "github.com/dwikikusuma/shoping-cart/internal/checkout/domain"
	storefrontapp "github.com/dwikikusuma/shoping-cart/internal/storefront/app"
	"github.com/dwikikusuma/shoping-cart/internal/storefront/view"
)

const (
	noticeThanks = "Thank you for your purchase!"
	noticeEmpty  = "Your cart is empty!"
)

// LiveSurface keeps the newest cart render model pushed by the controller
// so HTTP reads never race a mutation. Renders older than the held model
// are dropped.
type LiveSurface struct {
	cart atomic.Pointer[view.Cart]
}

func NewLiveSurface() *LiveSurface {
	s := &LiveSurface{}
	s.Render(view.BuildCart(cartdomain.Cart{}))
	return s
}

func (s *LiveSurface) Render(c view.Cart) {
	for {
		cur := s.cart.Load()
		if cur != nil && c.Version < cur.Version {
			return
		}
		if s.cart.CompareAndSwap(cur, &c) {
			return
		}
	}
}

func (s *LiveSurface) Current() view.Cart {
	return *s.cart.Load()
}

type Server struct {
	ctrl  *storefrontapp.Controller
	live  *LiveSurface
	log   *zap.Logger
	title string
}

func NewServer(ctrl *storefrontapp.Controller, live *LiveSurface, log *zap.Logger, title string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{ctrl: ctrl, live: live, log: log, title: title}
}

// App builds the fiber application with every storefront route mounted.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               s.title,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          s.handleError,
	})
	app.Use(recover.New())
	app.Use(s.logRequests)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/", s.page)

	api := app.Group("/api")
	api.Get("/products", s.products)
	api.Get("/cart", s.cart)

	items := api.Group("/cart/items")
	items.Post("/:id", s.withID(s.ctrl.Add))
	items.Post("/:id/increment", s.withID(s.ctrl.Increment))
	items.Post("/:id/decrement", s.withID(s.ctrl.Decrement))
	items.Post("/:id/remove", s.withID(s.ctrl.Remove))
	items.Delete("/:id", s.withID(s.ctrl.Remove))

	api.Get("/checkout/quote", s.quote)
	api.Post("/checkout", s.checkout)

	return app
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, code, msg := httpStatusFromErr(err)
	if status >= fiber.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.String("code", code), zap.Error(err))
	}
	if fromForm(c) && status < fiber.StatusInternalServerError {
		return c.Redirect("/?notice="+url.QueryEscape(msg), fiber.StatusSeeOther)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg, "code": code})
}

func fromForm(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// withID wraps a cart intent keyed by product id. Form posts are sent back
// to the page, API calls get the updated cart.
func (s *Server) withID(intent func(ctx context.Context, id int64) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := intent(c.UserContext(), id); err != nil {
			return err
		}
		if fromForm(c) {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		return c.JSON(s.live.Current())
	}
}

func (s *Server) page(c *fiber.Ctx) error {
	products, err := s.ctrl.Products(c.UserContext())
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return view.RenderPage(c, view.Page{
		Title:    s.title,
		Products: products,
		Cart:     s.live.Current(),
		Notice:   c.Query("notice"),
	})
}

func (s *Server) products(c *fiber.Ctx) error {
	products, err := s.ctrl.Products(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (s *Server) cart(c *fiber.Ctx) error {
	return c.JSON(s.live.Current())
}

func (s *Server) quote(c *fiber.Ctx) error {
	q, err := s.ctrl.QuoteCheckout(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(quoteResponse{
		Lines:    toLines(q.Lines),
		Subtotal: q.Subtotal.StringFixed(2),
		Tax:      q.Tax.StringFixed(2),
		Total:    q.Total.StringFixed(2),
	})
}

func (s *Server) checkout(c *fiber.Ctx) error {
	r, err := s.ctrl.ConfirmCheckout(c.UserContext())
	if fromForm(c) {
		notice := noticeThanks
		if err != nil {
			status, _, _ := httpStatusFromErr(err)
			if status != fiber.StatusConflict {
				return err
			}
			notice = noticeEmpty
		}
		return c.Redirect("/?notice="+url.QueryEscape(notice), fiber.StatusSeeOther)
	}
	if err != nil {
		return err
	}
	return c.JSON(receiptResponse{
		ID:          r.ID.String(),
		Message:     noticeThanks,
		Lines:       toLines(r.Lines),
		Subtotal:    r.Subtotal.StringFixed(2),
		Tax:         r.Tax.StringFixed(2),
		Total:       r.Total.StringFixed(2),
		ConfirmedAt: r.ConfirmedAt.Format(time.RFC3339),
	})
}

type lineResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	Repriced  bool   `json:"repriced,omitempty"`
}

type quoteResponse struct {
	Lines    []lineResponse `json:"lines"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Total    string         `json:"total"`
}

type receiptResponse struct {
	ID          string         `json:"id"`
	Message     string         `json:"message"`
	Lines       []lineResponse `json:"lines"`
	Subtotal    string         `json:"subtotal"`
	Tax         string         `json:"tax"`
	Total       string         `json:"total"`
	ConfirmedAt string         `json:"confirmed_at"`
}

func toLines(lines []checkoutdomain.Line) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			LineTotal: l.LineTotal.StringFixed(2),
			Repriced:  l.Repriced,
		})
	}
	return out
}
