package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	database "github.com/sebuszqo/PersonalFinance/db"
	"github.com/sebuszqo/PersonalFinance/internal/auth"
	"github.com/sebuszqo/PersonalFinance/internal/finance/interfaces"
	"github.com/sebuszqo/PersonalFinance/internal/logger"
	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/user"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

type Server struct {
	router   *mux.Router
	log      logrus.FieldLogger
	db       *database.DBService
	sessions session.Store
	renderer *web.Renderer

	userService        user.Service
	authHandler        *auth.Handler
	userHandler        *user.Handler
	transactionHandler *interfaces.TransactionHandler
	budgetHandler      *interfaces.BudgetHandler
	savingsGoalHandler *interfaces.SavingsGoalHandler
	dashboardHandler   *interfaces.DashboardHandler

	// Both nil when no trigger secret is configured.
	recurringHandler *interfaces.RecurringHandler
	triggerTokens    *auth.TriggerTokenManager
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.db.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) RegisterRoutes() {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.renderer.NotFound)

	// Public routes
	router.HandleFunc("/", s.authHandler.HandleHome).Methods(http.MethodGet)
	router.HandleFunc("/register", s.userHandler.HandleRegisterForm).Methods(http.MethodGet)
	router.HandleFunc("/register", s.userHandler.HandleRegister).Methods(http.MethodPost)
	router.HandleFunc("/login", s.authHandler.HandleLoginForm).Methods(http.MethodGet)
	router.HandleFunc("/login", s.authHandler.HandleLogin).Methods(http.MethodPost)
	router.HandleFunc("/logout", s.authHandler.HandleLogout).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	// Protected routes (session bound to an existing user)
	protected := router.NewRoute().Subrouter()
	protected.Use(auth.RequireUser(s.sessions, s.userService, s.renderer, s.log))
	protected.HandleFunc("/dashboard", s.dashboardHandler.Dashboard).Methods(http.MethodGet)

	protected.HandleFunc("/add_transaction", s.transactionHandler.AddTransactionForm).Methods(http.MethodGet)
	protected.HandleFunc("/add_transaction", s.transactionHandler.AddTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/delete_transaction/{id:[0-9]+}", s.transactionHandler.DeleteTransaction).Methods(http.MethodPost)

	protected.HandleFunc("/add_budget", s.budgetHandler.AddBudgetForm).Methods(http.MethodGet)
	protected.HandleFunc("/add_budget", s.budgetHandler.AddBudget).Methods(http.MethodPost)
	protected.HandleFunc("/delete_budget/{id:[0-9]+}", s.budgetHandler.DeleteBudget).Methods(http.MethodPost)

	protected.HandleFunc("/add_savings_goal", s.savingsGoalHandler.AddSavingsGoalForm).Methods(http.MethodGet)
	protected.HandleFunc("/add_savings_goal", s.savingsGoalHandler.AddSavingsGoal).Methods(http.MethodPost)
	protected.HandleFunc("/delete_savings_goal/{id:[0-9]+}", s.savingsGoalHandler.DeleteSavingsGoal).Methods(http.MethodPost)

	// Trigger routes (bearer token)
	if s.recurringHandler != nil && s.triggerTokens != nil {
		trigger := router.PathPrefix("/internal").Subrouter()
		trigger.Use(s.triggerTokens.Middleware(s.log))
		trigger.HandleFunc("/recurring/run", s.recurringHandler.ProcessRecurring).Methods(http.MethodPost)
	}

	s.router = router
}

// Handler wraps the router so that unmatched paths get the session and
// recovery middleware as well.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = session.Middleware(s.sessions, s.log)(h)
	h = s.renderer.Recover(h)
	return logger.Middleware(s.log)(h)
}
