package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebookhq/codebook/internal/app"
	"github.com/codebookhq/codebook/internal/backend"
)

var (
	appCtx app.AppContext
	client *backend.Client
)

// Init wires the back-office API onto the admin-gated route group.
// webserver.Init must run first.
func Init(ctx app.AppContext, c *backend.Client) {
	appCtx = ctx
	client = c

	registerProductRoutes()
	registerUserRoutes()
	registerOrderRoutes()
	registerReviewRoutes()
	registerDashboardRoutes()
}

type apiResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Msg     string      `json:"msg,omitempty"`
	ErrCode string      `json:"err_code,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pagedData struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Code: 0, Data: data})
}

func fail(c echo.Context, status int, errCode, msg string, detail interface{}) error {
	return c.JSON(status, apiResponse{Code: 1, ErrCode: errCode, Msg: msg, Detail: detail})
}

func paged(c echo.Context, items interface{}, total, page, pageSize int) error {
	return c.JSON(http.StatusOK, apiResponse{Code: 0, Data: pagedData{
		Items: items, Total: total, Page: page, PageSize: pageSize,
	}})
}

func parsePagination(c echo.Context) (page int, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// pageBounds slices an in-memory list: the backend has no admin
// pagination, so the back office pages what it fetched.
func pageBounds(total, page, pageSize int) (lo, hi int) {
	lo = (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi = lo + pageSize
	if hi > total {
		hi = total
	}
	return lo, hi
}

// backendFail maps upstream failures onto back-office responses. The
// admin gate already handled authorization, so a 401 here means the
// upstream rejected our stored token mid-flight.
func backendFail(c echo.Context, err error, msg string) error {
	if errors.Is(err, backend.ErrUnauthenticated) {
		return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please login again", nil)
	}
	if errors.Is(err, backend.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
	}
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return fail(c, http.StatusBadGateway, "BACKEND_UNREACHABLE", msg, nil)
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return fail(c, apiErr.Status, "REMOTE_FAILURE", msg, apiErr.Message)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg, err.Error())
}
