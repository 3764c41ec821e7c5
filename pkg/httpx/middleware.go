// Package httpx holds small HTTP helpers shared by every handler: the
// middleware chain, JSON response writing and per-key rate limiting.
package httpx

import "net/http"

// Middleware wraps an http.Handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first middleware in the list
// is the outermost, i.e. runs first on the way in. Chain(h, a, b) serves
// a -> b -> h.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
