package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/gradejournal/internal/errs"
	"github.com/deppfellow/gradejournal/internal/server"
	"github.com/deppfellow/gradejournal/internal/sqlerr"
)

// GlobalMiddlewares groups the middleware applied to every route together
// with the global error handler.
//
// Why a struct?
//   - Each middleware needs the same dependencies from *server.Server,
//     mostly the config (CORS origins) and the request logger.
//   - The router builds it once and picks the methods it wants, in the
//     order it wants.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares keeps a pointer to the application container so
// every middleware reads its settings from the one shared config.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns echo's CORS middleware for the configured origins.
//
// Credentials are allowed so a frontend served from another origin can
// send the admin session cookie.
//
// IMPORTANT QUIRK:
// Browsers reject "Access-Control-Allow-Origin: *" on a credentialed
// response. The default origin list is ["*"], so the wildcard is answered
// by echoing the request's Origin back, which browsers accept. Any origin
// can then make credentialed calls; production deployments should list
// their real origins in server.cors_allowed_origins.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,

		UnsafeWildcardOriginWithAllowCredentials: true,
	})
}

// RequestLogger returns echo's request logger with a zerolog LogValuesFunc.
//
// Every request produces exactly one "API" line:
//   - the level follows the final status (5xx Error, 4xx Warn, else Info)
//   - request_id and user_role tie it to the other lines of the request
//   - latency, method, URI, host, client IP and user agent are attached
//
// The logger comes from the echo context, so ContextEnhancer must run
// before the handler for the request fields to show up.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		// LogValuesFunc runs after the handler returns. v carries what the
		// middleware measured: status, latency, the returned error.
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// IMPORTANT QUIRK:
			// A handler that fails returns its error before anything is
			// written, so v.Status still reads 200. GlobalErrorHandler picks
			// the real status later; derive the same one from the error.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				} else {
					statusCode = http.StatusInternalServerError
				}
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			if role := GetUserRole(c); role != "" {
				e = e.Str("user_role", role)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns a handler panic into an error for GlobalErrorHandler (a
// 500) instead of taking the process down.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure sets echo's default security headers (X-XSS-Protection,
// X-Content-Type-Options, X-Frame-Options). It hardens the admin pages
// against framing and MIME sniffing; it is not an authorization layer.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is where every error returned by a handler or
// middleware ends up.
//
// It works in three steps:
//  1. Classify: *errs.HTTPError passes through, echo's route 404 becomes
//     our NotFound shape, anything else goes to sqlerr.HandleError, which
//     maps constraint violations and missing rows to client errors and
//     everything unknown to a 500.
//  2. Log the original error with the request logger. Driver text only
//     ever reaches the log, never the client.
//  3. Write the errs.HTTPError JSON body, unless the response was already
//     committed. HEAD requests get the status alone.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// The client may get a sanitized error; the log keeps this one.
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			if echoErr.Code == http.StatusNotFound {
				err = errs.NewNotFoundError("Route not found", false, nil)
			}
		} else {
			err = sqlerr.HandleError(err)
		}
	}

	var echoErr *echo.HTTPError
	var status int
	var code string
	var message string
	var fieldErrors []errs.FieldError
	var action *errs.Action

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		code = httpErr.Code
		message = httpErr.Message
		fieldErrors = httpErr.Errors
		action = httpErr.Action

	case errors.As(err, &echoErr):
		status = echoErr.Code
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(status))
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(echoErr.Code)
		}

	default:
		status = http.StatusInternalServerError
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError))
		message = http.StatusText(http.StatusInternalServerError)
	}

	// Client faults log at Warn, server faults at Error with a stack.
	logger := GetLogger(c)
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error().Stack()
	}
	if dbCode := sqlerr.ErrCode(originalErr); dbCode != sqlerr.Other {
		event = event.Str("db_error", string(dbCode))
	}
	event.
		Err(originalErr).
		Int("status", status).
		Str("error_code", code).
		Msg(message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}

	_ = c.JSON(status, errs.HTTPError{
		Code:     code,
		Message:  message,
		Status:   status,
		Override: httpErr != nil && httpErr.Override,
		Errors:   fieldErrors,
		Action:   action,
	})
}
