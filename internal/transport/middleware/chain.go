// Package middleware holds the HTTP middleware stack: panic recovery,
// request identifiers, access logging, CORS, rate limiting, and bearer-token
// authentication.
package middleware

import "net/http"

// Middleware wraps an http.Handler with one cross-cutting concern.
type Middleware func(http.Handler) http.Handler

// Chain folds the given middleware into one. The first argument becomes the
// outermost wrapper and therefore runs first on every request; Recovery must
// lead the chain and Auth must come after the request id and logger so
// auth failures are logged with an id.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		wrapped := h
		for i := len(mws) - 1; i >= 0; i-- {
			wrapped = mws[i](wrapped)
		}
		return wrapped
	}
}
