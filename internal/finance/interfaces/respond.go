package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

// pageResponder holds what the HTML handlers share: flashes, redirects and
// rendered pages.
type pageResponder struct {
	sessions session.Store
	renderer *web.Renderer
	log      logrus.FieldLogger
}

func (p pageResponder) flash(r *http.Request, category, message string) {
	session.AddFlash(p.sessions, r, category, message)
}

func (p pageResponder) flashAll(r *http.Request, category string, messages []string) {
	for _, message := range messages {
		p.flash(r, category, message)
	}
}

// flashValidation queues the messages of a validation failure and reports
// whether err was one.
func (p pageResponder) flashValidation(r *http.Request, err error) bool {
	if !financeErrors.IsValidationErrors(err) && !financeErrors.IsValidationError(err) {
		return false
	}
	p.flashAll(r, session.FlashDanger, financeErrors.Messages(err))
	return true
}

// currentUserID returns the session user or redirects to the login page.
func (p pageResponder) currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := session.UserIDFromContext(r.Context())
	if !ok {
		p.flash(r, session.FlashWarning, "Please log in.")
		web.Redirect(w, r, "/login")
		return 0, false
	}
	return userID, true
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
