package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrNoSession is returned by Ensure when the request did not pass through
// Middleware and carries no session.
var ErrNoSession = errors.New("request has no session")

type contextKey struct{}

// requestState is shared by every copy of a request context so a session
// created late in the chain is visible to handlers further up.
type requestState struct {
	session *Session
	store   Store
	w       http.ResponseWriter
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, &requestState{session: s})
}

func FromContext(ctx context.Context) (*Session, bool) {
	st, ok := ctx.Value(contextKey{}).(*requestState)
	if !ok || st.session == nil {
		return nil, false
	}
	return st.session, true
}

// UserIDFromContext returns the authenticated user id of the request, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	s, ok := FromContext(ctx)
	if !ok || !s.Authenticated() {
		return 0, false
	}
	return s.UserID, true
}

// Middleware attaches the caller's session to the request context. Requests
// without a valid cookie get no session until Ensure is called for them.
func Middleware(store Store, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := &requestState{store: store, w: w}
			if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
				st.session, err = store.Get(cookie.Value)
				if err != nil {
					log.WithError(err).Debug("discarding session cookie")
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, st)))
		})
	}
}

// Ensure returns the request's session, creating an anonymous one and
// setting its cookie when there is none yet.
func Ensure(r *http.Request) (*Session, error) {
	st, ok := r.Context().Value(contextKey{}).(*requestState)
	if !ok {
		return nil, ErrNoSession
	}
	if st.session != nil {
		return st.session, nil
	}
	if st.store == nil {
		return nil, ErrNoSession
	}

	created, err := st.store.Create(0)
	if err != nil {
		return nil, err
	}
	st.store.WriteCookie(st.w, created)
	st.session = created
	return created, nil
}

// AddFlash queues a notice on the session attached to r.
func AddFlash(store Store, r *http.Request, category, message string) {
	s, err := Ensure(r)
	if err != nil {
		return
	}
	_ = store.AddFlash(s.Token, Flash{Category: category, Message: message})
}
