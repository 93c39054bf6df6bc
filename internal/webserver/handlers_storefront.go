package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebookhq/codebook/internal/backend"
)

func (s *WebServer) productListHandler(c echo.Context) error {
	products, err := s.client.GetProductList(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return backendFail(c, err)
	}
	return ok(c, products)
}

func (s *WebServer) featuredHandler(c echo.Context) error {
	products, err := s.client.GetFeaturedList(c.Request().Context())
	if err != nil {
		return backendFail(c, err)
	}
	return ok(c, products)
}

// productDetailHandler serves one catalog item and publishes it as the
// browser's current view under a generation token, so a slow fetch for
// a previously opened product never clobbers the newer one.
func (s *WebServer) productDetailHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	bid := BrowserID(c)
	token := s.viewCache.Begin(bid)

	product, err := s.client.GetProduct(c.Request().Context(), id)
	if err != nil {
		return backendFail(c, err)
	}
	s.viewCache.Complete(bid, token, product)
	return ok(c, product)
}

func (s *WebServer) viewingHandler(c echo.Context) error {
	product, found := s.viewCache.Current(BrowserID(c))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "No product viewed yet", nil)
	}
	return ok(c, product)
}

type reviewPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *WebServer) addReviewHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload reviewPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse review", nil)
	}

	product, err := s.client.AddReview(c.Request().Context(), BrowserID(c), id, payload.Rating, payload.Comment)
	if err != nil {
		return backendFail(c, err)
	}
	return ok(c, product)
}

func (s *WebServer) deleteReviewHandler(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	rid, err := parseIDParam(c, "rid")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}

	product, err := s.client.DeleteReview(c.Request().Context(), BrowserID(c), id, rid)
	if err != nil {
		return backendFail(c, err)
	}
	return ok(c, product)
}

func (s *WebServer) userOrdersHandler(c echo.Context) error {
	orders, err := s.client.GetUserOrders(c.Request().Context(), BrowserID(c))
	if err != nil {
		return backendFail(c, err)
	}
	return ok(c, orders)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// backendFail maps the client error taxonomy onto HTTP responses.
func backendFail(c echo.Context, err error) error {
	var vErr *backend.ValidationError
	if errors.As(err, &vErr) {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Required fields missing or invalid", vErr.Fields)
	}
	if errors.Is(err, backend.ErrUnauthenticated) {
		return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please login to continue", nil)
	}
	if errors.Is(err, backend.ErrForbidden) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Operation not permitted", nil)
	}
	if errors.Is(err, backend.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	}
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return fail(c, http.StatusBadGateway, "BACKEND_UNREACHABLE", "Backend unavailable", nil)
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return fail(c, apiErr.Status, "REMOTE_FAILURE", apiErr.Message, nil)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
}
