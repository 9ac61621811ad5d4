// Package httpx carries the HTTP-layer plumbing shared by the dashboard
// server: the route guard, rate limiting, metrics, response helpers, and the
// cookie-sync middleware that keeps the browser's credential cookie in step
// with the credential store.
package httpx

import (
	"net/http"

	"github.com/rankwise/dashboard/pkg/credstore"
)

// Middleware is a standard http.Handler wrapper stage.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so the first listed runs outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// CookieSync flushes pending credential-cookie changes onto every response.
// The mirror is only written through the credential store's single write
// path; this middleware is the delivery mechanism, not a writer.
func CookieSync(mirror *credstore.CookieMirror) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&cookieSyncWriter{ResponseWriter: w, mirror: mirror}, r)
		})
	}
}

// cookieSyncWriter injects the mirror cookie at header-write time, after the
// handler has had its chance to change the credential (login, logout,
// refresh).
type cookieSyncWriter struct {
	http.ResponseWriter
	mirror *credstore.CookieMirror
	wrote  bool
}

func (w *cookieSyncWriter) WriteHeader(code int) {
	if !w.wrote {
		w.wrote = true
		w.mirror.Apply(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieSyncWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
