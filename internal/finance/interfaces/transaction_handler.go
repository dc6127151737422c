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

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID, userID int64) error
}

type TransactionHandler struct {
	pageResponder
	service TransactionServiceInterface
}

func NewTransactionHandler(service TransactionServiceInterface, sessions session.Store, renderer *web.Renderer, log logrus.FieldLogger) *TransactionHandler {
	return &TransactionHandler{
		pageResponder: pageResponder{sessions: sessions, renderer: renderer, log: log},
		service:       service,
	}
}

func (h *TransactionHandler) AddTransactionForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, web.PageAddTransaction, web.Page{Title: "Add transaction"})
}

func (h *TransactionHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.flash(r, session.FlashDanger, "Invalid form submission.")
		web.Redirect(w, r, "/add_transaction")
		return
	}

	validationErrors := &financeErrors.ValidationErrors{}
	transaction := &domain.Transaction{
		UserID:    userID,
		Amount:    parseAmount(r.PostForm, "amount", "Amount", true, validationErrors),
		Category:  requiredString(r.PostForm, "category", "Category", validationErrors),
		Type:      requiredString(r.PostForm, "transaction_type", "Type", validationErrors),
		Frequency: optionalString(r.PostForm, "frequency"),
	}
	if err := validationErrors.ErrOrNil(); err != nil {
		h.flashValidation(r, err)
		web.Redirect(w, r, "/add_transaction")
		return
	}

	if err := h.service.CreateTransaction(r.Context(), transaction); err != nil {
		if !h.flashValidation(r, err) {
			h.log.WithError(err).WithField("user_id", userID).Error("failed to add transaction")
			h.flash(r, session.FlashDanger, "Failed to add transaction.")
		}
		web.Redirect(w, r, "/add_transaction")
		return
	}

	h.flash(r, session.FlashSuccess, "Transaction added!")
	web.Redirect(w, r, "/dashboard")
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	transactionID, ok := pathID(r)
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	err := h.service.DeleteTransaction(r.Context(), transactionID, userID)
	switch {
	case err == nil:
		h.flash(r, session.FlashSuccess, "Transaction deleted!")
	case errors.Is(err, financeErrors.ErrNotFound):
		h.renderer.NotFound(w, r)
		return
	case errors.Is(err, financeErrors.ErrAccessDenied):
		h.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": transactionID}).Warn("denied foreign transaction delete")
		h.flash(r, session.FlashDanger, "Access denied.")
	default:
		h.log.WithError(err).WithField("transaction_id", transactionID).Error("failed to delete transaction")
		h.flash(r, session.FlashDanger, "Failed to delete transaction.")
	}
	web.Redirect(w, r, "/dashboard")
}
