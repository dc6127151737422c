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

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, budget *domain.Budget) error
	DeleteBudget(ctx context.Context, budgetID, userID int64) error
}

type BudgetHandler struct {
	pageResponder
	service BudgetServiceInterface
}

func NewBudgetHandler(service BudgetServiceInterface, sessions session.Store, renderer *web.Renderer, log logrus.FieldLogger) *BudgetHandler {
	return &BudgetHandler{
		pageResponder: pageResponder{sessions: sessions, renderer: renderer, log: log},
		service:       service,
	}
}

func (h *BudgetHandler) AddBudgetForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, web.PageAddBudget, web.Page{Title: "Add budget"})
}

func (h *BudgetHandler) AddBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(r, session.FlashDanger, "Invalid form submission.")
		web.Redirect(w, r, "/add_budget")
		return
	}

	validationErrors := &financeErrors.ValidationErrors{}
	budget := &domain.Budget{
		UserID:   userID,
		Category: requiredString(r.PostForm, "category", "Category", validationErrors),
		Amount:   parseAmount(r.PostForm, "amount", "Amount", true, validationErrors),
		Period:   requiredString(r.PostForm, "period", "Period", validationErrors),
	}
	if err := validationErrors.ErrOrNil(); err != nil {
		h.flashValidation(r, err)
		web.Redirect(w, r, "/add_budget")
		return
	}

	if err := h.service.CreateBudget(r.Context(), budget); err != nil {
		if !h.flashValidation(r, err) {
			h.log.WithError(err).WithField("user_id", userID).Error("failed to add budget")
			h.flash(r, session.FlashDanger, "Failed to add budget.")
		}
		web.Redirect(w, r, "/add_budget")
		return
	}

	h.flash(r, session.FlashSuccess, "Budget added!")
	web.Redirect(w, r, "/dashboard")
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	budgetID, ok := pathID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	err := h.service.DeleteBudget(r.Context(), budgetID, userID)
	switch {
	case err == nil:
		h.flash(r, session.FlashSuccess, "Budget deleted!")
	case errors.Is(err, financeErrors.ErrNotFound):
		h.renderer.NotFound(w, r)
		return
	case errors.Is(err, financeErrors.ErrAccessDenied):
		h.log.WithFields(logrus.Fields{"user_id": userID, "budget_id": budgetID}).Warn("denied foreign budget delete")
		h.flash(r, session.FlashDanger, "Access denied.")
	default:
		h.log.WithError(err).WithField("budget_id", budgetID).Error("failed to delete budget")
		h.flash(r, session.FlashDanger, "Failed to delete budget.")
	}
	web.Redirect(w, r, "/dashboard")
}
