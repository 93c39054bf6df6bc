package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebookhq/codebook/internal/backend"
	"github.com/codebookhq/codebook/internal/checkout"
	"github.com/codebookhq/codebook/internal/domain"
)

type cartView struct {
	Items    []domain.CartItem `json:"items"`
	Total    float64           `json:"total"`
	Quantity int               `json:"quantity"`
}

func (s *WebServer) cartHandler(c echo.Context) error {
	bucket := s.appCtx.Carts().Get(BrowserID(c))
	items := bucket.Items()
	return ok(c, cartView{Items: items, Total: bucket.Total(), Quantity: len(items)})
}

type cartAddPayload struct {
	ProductID int64 `json:"id"`
}

// cartAddHandler resolves the product against the catalog before
// adding it, so the cart never carries a stale price or an item the
// backend no longer sells.
func (s *WebServer) cartAddHandler(c echo.Context) error {
	var payload cartAddPayload
	if err := c.Bind(&payload); err != nil || payload.ProductID == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product id is required", nil)
	}

	product, err := s.client.GetProduct(c.Request().Context(), payload.ProductID)
	if err != nil {
		return backendFail(c, err)
	}
	if !product.InStock {
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "Product is out of stock", nil)
	}

	bucket := s.appCtx.Carts().Get(BrowserID(c))
	bucket.Add(domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Poster:    product.Poster,
	})
	items := bucket.Items()
	return ok(c, cartView{Items: items, Total: bucket.Total(), Quantity: len(items)})
}

func (s *WebServer) cartRemoveHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	bucket := s.appCtx.Carts().Get(BrowserID(c))
	bucket.Remove(id)
	items := bucket.Items()
	return ok(c, cartView{Items: items, Total: bucket.Total(), Quantity: len(items)})
}

// checkoutHandler submits the cart as an order. A backend rejection is
// reported inside the confirmation payload with status=false rather
// than as a transport failure, matching the order confirmation view;
// the cart is kept in that case so the shopper can retry.
func (s *WebServer) checkoutHandler(c echo.Context) error {
	var payment domain.Payment
	if err := c.Bind(&payment); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment details", nil)
	}

	result, err := s.checkout.Submit(c.Request().Context(), BrowserID(c), payment)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
		}
		var vErr *backend.ValidationError
		if errors.As(err, &vErr) {
			return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Payment fields missing", vErr.Fields)
		}
		if errors.Is(err, backend.ErrUnauthenticated) {
			return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please login to continue", nil)
		}
		return ok(c, result)
	}
	return ok(c, result)
}
