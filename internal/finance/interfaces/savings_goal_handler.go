package interfaces

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/finance/domain"
	financeErrors "github.com/sebuszqo/PersonalFinance/internal/finance/errors"
	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type SavingsGoalServiceInterface interface {
	CreateSavingsGoal(ctx context.Context, goal *domain.SavingsGoal) error
	DeleteSavingsGoal(ctx context.Context, goalID, userID int64) error
}

type SavingsGoalHandler struct {
	pageResponder
	service SavingsGoalServiceInterface
}

func NewSavingsGoalHandler(service SavingsGoalServiceInterface, sessions session.Store, renderer *web.Renderer, log logrus.FieldLogger) *SavingsGoalHandler {
	return &SavingsGoalHandler{
		pageResponder: pageResponder{sessions: sessions, renderer: renderer, log: log},
		service:       service,
	}
}

func (h *SavingsGoalHandler) AddSavingsGoalForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, web.PageAddSavingsGoal, web.Page{Title: "Add savings goal"})
}

func (h *SavingsGoalHandler) AddSavingsGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(r, session.FlashDanger, "Invalid form submission.")
		web.Redirect(w, r, "/add_savings_goal")
		return
	}

	validationErrors := &financeErrors.ValidationErrors{}
	goal := &domain.SavingsGoal{
		UserID:        userID,
		Name:          requiredString(r.PostForm, "name", "Name", validationErrors),
		TargetAmount:  parseAmount(r.PostForm, "target_amount", "Target amount", true, validationErrors),
		CurrentAmount: parseAmount(r.PostForm, "current_amount", "Current amount", false, validationErrors),
	}
	if err := validationErrors.ErrOrNil(); err != nil {
		h.flashValidation(r, err)
		web.Redirect(w, r, "/add_savings_goal")
		return
	}

	if err := h.service.CreateSavingsGoal(r.Context(), goal); err != nil {
		if !h.flashValidation(r, err) {
			h.log.WithError(err).WithField("user_id", userID).Error("failed to add savings goal")
			h.flash(r, session.FlashDanger, "Failed to add savings goal.")
		}
		web.Redirect(w, r, "/add_savings_goal")
		return
	}

	h.flash(r, session.FlashSuccess, "Savings goal added successfully!")
	web.Redirect(w, r, "/dashboard")
}

func (h *SavingsGoalHandler) DeleteSavingsGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	goalID, ok := pathID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	err := h.service.DeleteSavingsGoal(r.Context(), goalID, userID)
	switch {
	case err == nil:
		h.flash(r, session.FlashSuccess, "Savings goal deleted!")
	case errors.Is(err, financeErrors.ErrNotFound):
		h.renderer.NotFound(w, r)
		return
	case errors.Is(err, financeErrors.ErrAccessDenied):
		h.log.WithFields(logrus.Fields{"user_id": userID, "savings_goal_id": goalID}).Warn("denied foreign savings goal delete")
		h.flash(r, session.FlashDanger, "Access denied.")
	default:
		h.log.WithError(err).WithField("savings_goal_id", goalID).Error("failed to delete savings goal")
		h.flash(r, session.FlashDanger, "Failed to delete savings goal.")
	}
	web.Redirect(w, r, "/dashboard")
}
