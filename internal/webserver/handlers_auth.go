package webserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codebookhq/codebook/internal/backend"
	"github.com/codebookhq/codebook/internal/domain"
)

func (s *WebServer) loginHandler(c echo.Context) error {
	var cred domain.Credentials
	if err := c.Bind(&cred); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if missing := requiredFields(map[string]string{"email": cred.Email, "password": cred.Password}); len(missing) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Required fields missing", missing)
	}

	user, err := s.client.Login(c.Request().Context(), BrowserID(c), cred)
	if err != nil {
		return authFail(c, err)
	}
	return ok(c, user)
}

func (s *WebServer) registerHandler(c echo.Context) error {
	var reg domain.Registration
	if err := c.Bind(&reg); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	if missing := requiredFields(map[string]string{"name": reg.Name, "email": reg.Email, "password": reg.Password}); len(missing) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Required fields missing", missing)
	}

	user, err := s.client.Register(c.Request().Context(), BrowserID(c), reg)
	if err != nil {
		return authFail(c, err)
	}
	return ok(c, user)
}

func (s *WebServer) logoutHandler(c echo.Context) error {
	s.client.Logout(BrowserID(c))
	return ok(c, nil)
}

// sessionHandler reports the cached session so the front end can gate
// its own rendering without a network round trip per component.
func (s *WebServer) sessionHandler(c echo.Context) error {
	sess := s.appCtx.SessionStore().Get(BrowserID(c))
	return ok(c, map[string]interface{}{
		"authenticated": sess.Authenticated(),
		"user_id":       sess.UserID,
		"name":          sess.Name,
		"role":          sess.Role,
	})
}

func authFail(c echo.Context, err error) error {
	var authErr *backend.AuthError
	if errors.As(err, &authErr) {
		return fail(c, authErr.Status, "AUTH_FAILED", authErr.Message, nil)
	}
	var netErr *backend.NetworkError
	if errors.As(err, &netErr) {
		return fail(c, http.StatusBadGateway, "BACKEND_UNREACHABLE", "Authentication service unavailable", nil)
	}
	return fail(c, http.StatusInternalServerError, "AUTH_ERROR", err.Error(), nil)
}

func requiredFields(fields map[string]string) []string {
	var missing []string
	for name, val := range fields {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
