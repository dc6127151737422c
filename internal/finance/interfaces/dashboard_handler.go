package interfaces

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sebuszqo/PersonalFinance/internal/auth"
	"github.com/sebuszqo/PersonalFinance/internal/finance/application"
	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context, userID int64) (*application.Dashboard, error)
}

type DashboardHandler struct {
	pageResponder
	service DashboardServiceInterface
}

func NewDashboardHandler(service DashboardServiceInterface, sessions session.Store, renderer *web.Renderer, log logrus.FieldLogger) *DashboardHandler {
	return &DashboardHandler{
		pageResponder: pageResponder{sessions: sessions, renderer: renderer, log: log},
		service:       service,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("failed to load dashboard")
		h.renderer.InternalError(w, r)
		return
	}
	if current, ok := auth.CurrentUser(r.Context()); ok {
		dashboard.Username = current.Username
	}

	h.renderer.Render(w, r, http.StatusOK, web.PageDashboard, web.Page{
		Title: "Dashboard",
		Data:  dashboard,
	})
}
