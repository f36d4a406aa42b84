package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/handler"
	"github.com/deppfellow/gradejournal/internal/server"
)

// registerSystemRoutes mounts the health check, the static directory and
// the docs UI.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", s.Config.Frontend.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
