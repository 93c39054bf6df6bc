package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codebookhq/codebook/internal/backend"
	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/internal/webserver"
	"github.com/codebookhq/codebook/pkg/metrics"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", dashboard)
	webserver.ApiGET("/dashboard/metrics", dashboardMetrics)
}

// dashboardView aggregates the back office landing page. Secondary
// lists are best-effort: a failed loader leaves its list empty and
// adds a scoped message instead of failing the whole view.
type dashboardView struct {
	Products []domain.Product      `json:"products"`
	Orders   []domain.Order        `json:"orders"`
	Users    []domain.User         `json:"users"`
	Reviews  []backend.AdminReview `json:"reviews"`

	ProductCount int      `json:"product_count"`
	OrderCount   int      `json:"order_count"`
	UserCount    int      `json:"user_count"`
	ReviewCount  int      `json:"review_count"`
	ActiveCarts  int      `json:"active_carts"`
	Warnings     []string `json:"warnings,omitempty"`
}

func dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	view := dashboardView{}

	// The product list is the primary loader; its failure fails the
	// view. The rest degrade independently.
	products, err := client.AdminGetAllProducts(ctx)
	if err != nil {
		return backendFail(c, err, "Failed to load products")
	}
	view.Products = products

	var g errgroup.Group
	var ordersWarn, usersWarn string
	var loadedOrders []domain.Order
	var loadedUsers []domain.User
	g.Go(func() error {
		orders, err := client.AdminGetAllOrders(ctx, webserver.BrowserID(c))
		if err != nil {
			zap.S().Warnf("dashboard: orders loader failed: %s", err)
			ordersWarn = "orders unavailable"
			return nil
		}
		loadedOrders = orders
		return nil
	})
	g.Go(func() error {
		users, err := client.AdminGetAllUsers(ctx)
		if err != nil {
			zap.S().Warnf("dashboard: users loader failed: %s", err)
			usersWarn = "users unavailable"
			return nil
		}
		loadedUsers = users
		return nil
	})
	_ = g.Wait()
	view.Orders = loadedOrders
	view.Users = loadedUsers
	for _, w := range []string{ordersWarn, usersWarn} {
		if w != "" {
			view.Warnings = append(view.Warnings, w)
		}
	}

	// Reviews come from the already fetched catalog.
	for _, p := range view.Products {
		for _, r := range p.Reviews {
			view.Reviews = append(view.Reviews, backend.AdminReview{Review: r, ProductID: p.ID, ProductName: p.Name})
		}
	}

	view.ProductCount = len(view.Products)
	view.OrderCount = len(view.Orders)
	view.UserCount = len(view.Users)
	view.ReviewCount = len(view.Reviews)
	view.ActiveCarts = appCtx.Carts().Size()

	return ok(c, view)
}

func dashboardMetrics(c echo.Context) error {
	window := 24 * time.Hour
	return ok(c, map[string]interface{}{
		"window_hours":   24,
		"http_requests":  metrics.CounterSum(metrics.MetricHTTPRequest, window),
		"backend_calls":  metrics.CounterSum(metrics.MetricBackendCall, window),
		"backend_errors": metrics.CounterSum(metrics.MetricBackendError, window),
		"orders":         metrics.CounterSum(metrics.MetricOrderCreated, window),
		"logins":         metrics.CounterSum(metrics.MetricLoginSuccess, window),
		"login_failures": metrics.CounterSum(metrics.MetricLoginFailure, window),
		"reviews":        metrics.CounterSum(metrics.MetricReviewCreated, window),
	})
}
