package router // package router defines how HTTP routes are registered for the API

import (
	"os"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-threshold-api/internal/handler"
	"github.com/iliyamo/student-threshold-api/internal/middleware"
	"github.com/iliyamo/student-threshold-api/internal/utils"
)

// RegisterRoutes registers the health check and, when present on disk, the
// landing page and its static assets.
func RegisterRoutes(e *echo.Echo, h *handler.StudentHandler, indexPage, staticDir string) {
	e.GET("/healthz", h.Health)
	if fileExists(indexPage) {
		e.File("/", indexPage)
	}
	if fileExists(staticDir) {
		e.Static("/static", staticDir)
	}
}

// RegisterPublic registers the threshold query routes. limiter applies to
// both forms; cache only to the GET form since the POST threshold lives in
// the body.
func RegisterPublic(e *echo.Echo, h *handler.StudentHandler, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/students", limiter)
	g.POST("/above", h.AboveThreshold)
	g.GET("/above", h.AboveThresholdQuery, cache)
}

// RegisterTeacher registers roster detail routes under /v1 for TEACHER
// tokens. Nothing is registered without a secret.
func RegisterTeacher(e *echo.Echo, h *handler.StudentHandler, jwtSecret string) bool {
	if jwtSecret == "" {
		return false
	}
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleTeacher),
	)
	g.GET("/students", h.ListStudents)
	g.GET("/students/above/export", h.ExportAboveThreshold)
	g.GET("/students/:id", h.GetStudent)
	return true
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
