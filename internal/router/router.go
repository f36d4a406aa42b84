// Package router builds the echo instance: global middleware, the record
// API, the admin console, the frontend and the system routes.
package router

import (
	"os"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/deppfellow/gradejournal/internal/handler"
	"github.com/deppfellow/gradejournal/internal/lib/render"
	"github.com/deppfellow/gradejournal/internal/middleware"
	"github.com/deppfellow/gradejournal/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	env := s.Config.Primary.Env
	router.Renderer = render.New(os.DirFS(s.Config.Frontend.TemplateDir), env == "local" || env == "development")

	// "/students/" and "/students" are the same route.
	router.Pre(echoMiddleware.RemoveTrailingSlash())

	router.Use(
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		s.Sessions.Middleware(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)
	registerJournalRoutes(router, h)
	h.Admin.Register(router, m.Auth.RequireAdmin, m.RateLimit.LoginRateLimit())
	registerFrontendRoutes(router, h)

	return router
}
