// Package middleware holds the global and route-level middleware:
// request IDs, the request-scoped logger, New Relic tracing, CORS, the
// admin session gate, the login rate limiter and the error handler.
package middleware
