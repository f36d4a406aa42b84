// Package testutil builds a fully wired application on a temporary
// SQLite database for tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/gradejournal/internal/config"
	"github.com/deppfellow/gradejournal/internal/handler"
	"github.com/deppfellow/gradejournal/internal/logger"
	"github.com/deppfellow/gradejournal/internal/middleware"
	"github.com/deppfellow/gradejournal/internal/repository"
	"github.com/deppfellow/gradejournal/internal/router"
	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/service"
)

const indexTemplate = `<!DOCTYPE html><title>{{.Title}}</title><p>{{.Request.URL.Path}}</p>`

// NewTestConfig returns a config pointing at a fresh SQLite file and fresh
// template and static directories.
func NewTestConfig(t testing.TB) *config.Config {
	t.Helper()

	dir := t.TempDir()
	templates := filepath.Join(dir, "templates")
	static := filepath.Join(dir, "static")
	for _, d := range []string{templates, static} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("create %s: %v", d, err)
		}
	}
	writeFile(t, filepath.Join(templates, "index.html"), indexTemplate)
	writeFile(t, filepath.Join(static, "app.js"), "console.log('ok');\n")
	writeFile(t, filepath.Join(static, "openapi.html"), "<html>docs</html>")

	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	cfg.Database.Path = filepath.Join(dir, "test.db")
	cfg.Frontend.TemplateDir = templates
	cfg.Frontend.StaticDir = static
	cfg.Admin.LoginRateLimit = 1000
	cfg.Observability.Environment = "test"
	cfg.Observability.Logging.Level = "error"
	cfg.Observability.HealthChecks.Checks = []string{"database"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}

func writeFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// NewTestServer opens a server on cfg, closing it when the test ends.
func NewTestServer(t testing.TB, cfg *config.Config) *server.Server {
	t.Helper()

	log := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.WarnLevel)
	loggerService := logger.NewLoggerService(cfg.Observability)

	s, err := server.New(cfg, &log, loggerService)
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// App is a wired application ready to serve requests.
type App struct {
	Server   *server.Server
	Repos    *repository.Repositories
	Services *service.Services
	Echo     *echo.Echo
}

// NewApp builds the whole stack the way the serve command does.
func NewApp(t testing.TB) *App {
	t.Helper()
	return NewAppWithConfig(t, NewTestConfig(t))
}

func NewAppWithConfig(t testing.TB, cfg *config.Config) *App {
	t.Helper()

	s := NewTestServer(t, cfg)
	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	if err != nil {
		t.Fatalf("failed to create services: %v", err)
	}

	handlers := handler.NewHandlers(s, services, repos)
	middlewares := middleware.NewMiddlewares(s, services.AdminAuth)

	return &App{
		Server:   s,
		Repos:    repos,
		Services: services,
		Echo:     router.NewRouter(s, handlers, middlewares),
	}
}

// Do sends a request through the router. A body starting with '{' is sent
// as JSON, any other body as a urlencoded form.
func (a *App) Do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		if strings.HasPrefix(strings.TrimSpace(body), "{") {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		} else {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		}
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}
