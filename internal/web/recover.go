package web

import (
	"net/http"
	"runtime/debug"
)

// Recover turns a panicking handler into the 500 page.
func (rd *Renderer) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rd.log.WithField("panic", rec).
					WithField("path", r.URL.Path).
					WithField("stack", string(debug.Stack())).
					Error("handler panicked")
				rd.InternalError(w, r)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
