package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/internal/app"
	"github.com/codebookhq/codebook/internal/backend"
	"github.com/codebookhq/codebook/internal/checkout"
	"github.com/codebookhq/codebook/internal/gate"
)

// WebServer is the storefront HTTP front: public catalog and cart
// routes, authenticated shopper routes, and the gated admin API.
type WebServer struct {
	root      *echo.Echo
	appCtx    app.AppContext
	client    *backend.Client
	gate      *gate.Gate
	checkout  *checkout.Service
	viewCache *ProductViewCache
	adminAPI  *echo.Group
}

var server *WebServer

// Init builds the singleton web server. Admin route registration
// (ApiGET and friends) requires Init to have run.
func Init(appCtx app.AppContext, client *backend.Client, adminGate *gate.Gate, checkoutSvc *checkout.Service) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(appCtx.Config().Web.Secret))))

	s := &WebServer{
		root:      e,
		appCtx:    appCtx,
		client:    client,
		gate:      adminGate,
		checkout:  checkoutSvc,
		viewCache: NewProductViewCache(),
	}
	e.Use(s.browserSessionMiddleware)
	e.Use(s.requestCountMiddleware)

	// Swept browsers lose their view state along with session and
	// cart; entries with no backing session age out on the same cycle.
	maxIdle := time.Duration(appCtx.Config().Web.SessionMaxAge) * time.Second
	if err := appCtx.Bus().Subscribe(app.TopicSessionsSwept, func(stale []string) {
		s.viewCache.Drop(stale...)
		s.viewCache.Sweep(maxIdle)
	}); err != nil {
		zap.S().Warnf("view cache sweep subscription failed: %s", err)
	}

	s.adminAPI = e.Group("/admin/api", s.adminGateMiddleware)
	s.initRouter()

	server = s
	return s
}

func (s *WebServer) initRouter() {
	g := s.root.Group("/api")

	// auth
	g.POST("/auth/login", s.loginHandler)
	g.POST("/auth/register", s.registerHandler)
	g.POST("/auth/logout", s.logoutHandler)
	g.GET("/auth/session", s.sessionHandler)

	// catalog (public)
	g.GET("/storefront/products", s.productListHandler)
	g.GET("/storefront/products/:id", s.productDetailHandler)
	g.GET("/storefront/featured", s.featuredHandler)
	g.GET("/storefront/viewing", s.viewingHandler)

	// reviews (authenticated shoppers)
	g.POST("/storefront/products/:id/reviews", s.addReviewHandler)
	g.DELETE("/storefront/products/:id/reviews/:rid", s.deleteReviewHandler)

	// cart and checkout
	g.GET("/cart", s.cartHandler)
	g.POST("/cart/items", s.cartAddHandler)
	g.DELETE("/cart/items/:id", s.cartRemoveHandler)
	g.POST("/checkout", s.checkoutHandler)
	g.GET("/orders", s.userOrdersHandler)

	// preferences
	g.GET("/prefs/theme", s.themeGetHandler)
	g.PUT("/prefs/theme", s.themePutHandler)
}

// Start runs the HTTP listener until the process stops.
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("Starting storefront server on %s", addr)
	return s.root.Start(addr)
}

// Echo exposes the underlying router (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// ApiGET registers a GET route on the admin-gated API group.
func ApiGET(path string, h echo.HandlerFunc) {
	server.adminAPI.GET(path, h)
}

// ApiPOST registers a POST route on the admin-gated API group.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.adminAPI.POST(path, h)
}

// ApiPUT registers a PUT route on the admin-gated API group.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.adminAPI.PUT(path, h)
}

// ApiDELETE registers a DELETE route on the admin-gated API group.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.adminAPI.DELETE(path, h)
}

// response envelope shared by the storefront and admin APIs.

type apiResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Msg     string      `json:"msg,omitempty"`
	ErrCode string      `json:"err_code,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Code: 0, Data: data})
}

func fail(c echo.Context, status int, errCode, msg string, detail interface{}) error {
	return c.JSON(status, apiResponse{Code: 1, ErrCode: errCode, Msg: msg, Detail: detail})
}
