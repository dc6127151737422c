package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/user"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type userContextKey struct{}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// CurrentUser returns the user loaded by RequireUser.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*user.User)
	return u, ok && u != nil
}

// RequireUser lets a request through only when its session is bound to an
// existing user; otherwise it redirects to the login page.
func RequireUser(sessions session.Store, users user.Service, renderer *web.Renderer, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok || !sess.Authenticated() {
				log.WithField("path", r.URL.Path).Debug("access without login")
				session.AddFlash(sessions, r, session.FlashWarning, "Please log in.")
				web.Redirect(w, r, "/login")
				return
			}

			current, err := users.GetUserByID(r.Context(), sess.UserID)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					log.WithField("user_id", sess.UserID).Warn("session bound to missing user")
					_ = sessions.ClearUser(sess.Token)
					session.AddFlash(sessions, r, session.FlashDanger, "User not found. Please log in again.")
					web.Redirect(w, r, "/login")
					return
				}
				log.WithError(err).Error("could not load session user")
				renderer.InternalError(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), current)))
		})
	}
}
