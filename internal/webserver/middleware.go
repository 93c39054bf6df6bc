package webserver

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/codebookhq/codebook/internal/gate"
	"github.com/codebookhq/codebook/pkg/metrics"
)

const (
	cookieName   = "codebook_bid"
	ctxBrowserID = "browser_id"
)

// BrowserID returns the stable per-browser identifier assigned by the
// session cookie middleware.
func BrowserID(c echo.Context) string {
	if id, ok := c.Get(ctxBrowserID).(string); ok {
		return id
	}
	return ""
}

// browserSessionMiddleware assigns each browser an opaque id in a
// signed cookie. The id keys the session store and the cart manager.
func (s *WebServer) browserSessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// A tampered cookie decodes to a fresh session, so the error
		// only means a new identity gets assigned below.
		sess, _ := session.Get(cookieName, c)
		bid, _ := sess.Values["bid"].(string)
		if bid == "" {
			bid = random.String(24)
			sess.Values["bid"] = bid
			sess.Options = &sessions.Options{
				Path:     "/",
				MaxAge:   s.appCtx.Config().Web.SessionMaxAge,
				HttpOnly: true,
			}
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				zap.S().Warnf("browser cookie save failed: %s", err)
			}
		}
		c.Set(ctxBrowserID, bid)
		return next(c)
	}
}

func (s *WebServer) requestCountMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		metrics.CounterInc(metrics.MetricHTTPRequest)
		return next(c)
	}
}

// adminGateMiddleware re-runs the admin check on every request to the
// back office; the decision is never cached across requests.
func (s *WebServer) adminGateMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch s.gate.Check(c.Request().Context(), BrowserID(c)) {
		case gate.Allowed:
			return next(c)
		case gate.DeniedNoSession:
			if wantsHTML(c) {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please login to continue", map[string]string{"redirect": "/login"})
		default:
			if wantsHTML(c) {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin access required", map[string]string{"redirect": "/"})
		}
	}
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
