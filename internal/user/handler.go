package user

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type Handler struct {
	userService Service
	sessions    session.Store
	renderer    *web.Renderer
	log         logrus.FieldLogger
}

func NewHandler(userService Service, sessions session.Store, renderer *web.Renderer, log logrus.FieldLogger) *Handler {
	return &Handler{
		userService: userService,
		sessions:    sessions,
		renderer:    renderer,
		log:         log,
	}
}

func (h *Handler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, web.PageRegister, web.Page{Title: "Register"})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		session.AddFlash(h.sessions, r, session.FlashDanger, "Invalid form submission.")
		web.Redirect(w, r, "/register")
		return
	}

	username := r.PostForm.Get("username")
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	_, err := h.userService.Register(r.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameOrEmailTaken):
			h.log.WithFields(logrus.Fields{"username": username, "email": email}).Debug("registration rejected: username or email taken")
			session.AddFlash(h.sessions, r, session.FlashDanger, "Username or email already taken.")
		case errors.Is(err, ErrMissingFields):
			session.AddFlash(h.sessions, r, session.FlashDanger, "Please fill in all fields.")
		case errors.Is(err, ErrInvalidEmail):
			session.AddFlash(h.sessions, r, session.FlashDanger, "Please enter a valid email address.")
		case errors.Is(err, ErrFieldTooLong):
			session.AddFlash(h.sessions, r, session.FlashDanger, "Username or email is too long.")
		default:
			session.AddFlash(h.sessions, r, session.FlashDanger, "Registration failed. Please try again.")
		}
		web.Redirect(w, r, "/register")
		return
	}

	session.AddFlash(h.sessions, r, session.FlashSuccess, "Registration successful! Please log in.")
	web.Redirect(w, r, "/login")
}
