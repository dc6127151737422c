package auth

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type Handler struct {
	authService Service
	sessions    session.Store
	renderer    *web.Renderer
	log         logrus.FieldLogger
}

func NewHandler(authService Service, sessions session.Store, renderer *web.Renderer, log logrus.FieldLogger) *Handler {
	return &Handler{
		authService: authService,
		sessions:    sessions,
		renderer:    renderer,
		log:         log,
	}
}

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.UserIDFromContext(r.Context()); ok {
		web.Redirect(w, r, "/dashboard")
		return
	}
	web.Redirect(w, r, "/login")
}

func (h *Handler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, web.PageLogin, web.Page{Title: "Login"})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		session.AddFlash(h.sessions, r, session.FlashDanger, "Invalid form submission.")
		web.Redirect(w, r, "/login")
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		h.renderer.Render(w, r, http.StatusBadRequest, web.PageLogin, web.Page{
			Title: "Login",
			Form:  url.Values{"email": {email}},
			Flashes: []session.Flash{{
				Category: session.FlashDanger,
				Message:  "Please enter email and password.",
			}},
		})
		return
	}

	sess, err := session.Ensure(r)
	if err != nil {
		h.log.WithError(err).Error("could not create session")
		h.renderer.InternalError(w, r)
		return
	}

	loggedIn, err := h.authService.Login(r.Context(), sess.Token, email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSuchUser):
			session.AddFlash(h.sessions, r, session.FlashDanger, "User does not exist.")
		case errors.Is(err, ErrBadPassword):
			session.AddFlash(h.sessions, r, session.FlashDanger, "Wrong password.")
		default:
			session.AddFlash(h.sessions, r, session.FlashDanger, "Login failed. Please try again.")
		}
		web.Redirect(w, r, "/login")
		return
	}

	h.sessions.WriteCookie(w, loggedIn)
	_ = h.sessions.AddFlash(loggedIn.Token, session.Flash{Category: session.FlashSuccess, Message: "Logged in successfully!"})
	web.Redirect(w, r, "/dashboard")
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		if err := h.authService.Logout(sess.Token); err != nil {
			h.log.WithError(err).Error("could not clear session")
		}
	}
	session.AddFlash(h.sessions, r, session.FlashSuccess, "Logged out successfully.")
	web.Redirect(w, r, "/login")
}
