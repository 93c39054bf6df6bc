package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// The dark mode flag lives in its own durable bucket, separate from
// the auth session, and survives logout.

type themePayload struct {
	Dark bool `json:"dark"`
}

func (s *WebServer) themeGetHandler(c echo.Context) error {
	dark := s.appCtx.SessionStore().GetPrefBool(BrowserID(c), "dark_mode", false)
	return ok(c, themePayload{Dark: dark})
}

func (s *WebServer) themePutHandler(c echo.Context) error {
	var payload themePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse theme preference", nil)
	}
	if err := s.appCtx.SessionStore().SetPref(BrowserID(c), "dark_mode", payload.Dark); err != nil {
		return fail(c, http.StatusInternalServerError, "STORE_ERROR", "Failed to save preference", nil)
	}
	return ok(c, payload)
}
