package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// strictBinder decodes JSON bodies with unknown fields disallowed, so a
// misspelled key fails with 400 instead of binding to nothing. Non-JSON
// requests fall back to Echo's default binder.
type strictBinder struct {
	fallback echo.DefaultBinder
}

// NewBinder returns a strictBinder ready to be assigned to echo.Echo.Binder.
func NewBinder() echo.Binder {
	return &strictBinder{}
}

// Bind satisfies the echo.Binder interface.
func (b *strictBinder) Bind(i any, c echo.Context) error {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)
	if req.ContentLength == 0 || !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return b.fallback.Bind(i, c)
	}

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload: "+err.Error())
	}
	return nil
}
