package handler // declare the package name; contains HTTP handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint. It answers "ok" and reports the roster
// length in X-Roster-Size so probes can tell the snapshot was loaded.
func (h *StudentHandler) Health(c echo.Context) error {
	c.Response().Header().Set("X-Roster-Size", strconv.Itoa(h.Roster.Len()))
	return c.String(http.StatusOK, "ok")
}
