package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/gradejournal/internal/server"
)

// AdminLoginPath is where unauthenticated admin requests are sent.
const AdminLoginPath = "/admin/login"

// Authenticator reports whether a request carries an admin session.
type Authenticator interface {
	Authenticate(c echo.Context) (bool, error)
}

type AuthMiddleware struct {
	server        *server.Server
	authenticator Authenticator
}

func NewAuthMiddleware(s *server.Server, authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server:        s,
		authenticator: authenticator,
	}
}

// RequireAdmin lets the request through only with an admin session;
// everything else is redirected to the login page.
func (auth *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		ok, err := auth.authenticator.Authenticate(c)
		if err != nil {
			return err
		}

		if !ok {
			GetLogger(c).Info().
				Str("function", "RequireAdmin").
				Dur("duration", time.Since(start)).
				Msg("admin session missing, redirecting to login")

			return c.Redirect(http.StatusFound, AdminLoginPath)
		}

		c.Set(UserRoleKey, "admin")

		return next(c)
	}
}
