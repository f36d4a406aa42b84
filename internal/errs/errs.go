// Package errs defines the error shape returned by every JSON endpoint.
//
// Handlers and repositories return *HTTPError values; the global error
// handler serializes them as-is and converts anything else first.
package errs
