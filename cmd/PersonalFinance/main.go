package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	database "github.com/sebuszqo/PersonalFinance/db"
	"github.com/sebuszqo/PersonalFinance/internal/auth"
	"github.com/sebuszqo/PersonalFinance/internal/config"
	"github.com/sebuszqo/PersonalFinance/internal/finance/application"
	"github.com/sebuszqo/PersonalFinance/internal/finance/infrastructure"
	"github.com/sebuszqo/PersonalFinance/internal/finance/interfaces"
	"github.com/sebuszqo/PersonalFinance/internal/logger"
	"github.com/sebuszqo/PersonalFinance/internal/session"
	"github.com/sebuszqo/PersonalFinance/internal/user"
	"github.com/sebuszqo/PersonalFinance/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file overriding the environment")
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	runRecurring := flag.Bool("run-recurring", false, "run the recurring transaction projection once and exit")
	issueToken := flag.Bool("issue-trigger-token", false, "print a bearer token for the recurring trigger endpoint and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Missing configuration, update to start server: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if !cfg.EnvFileLoaded {
		log.Debug("no .env file, continuing with system environment variables")
	}

	if *issueToken {
		if err := printTriggerToken(cfg.TriggerSecret); err != nil {
			log.WithError(err).Fatal("could not issue trigger token")
		}
		return
	}

	ctx := context.Background()
	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, log)
	if err != nil {
		log.WithError(err).Fatal("could not initialize database")
	}
	defer dbService.Close()

	applied, err := database.Migrate(ctx, dbService.DB)
	if err != nil {
		log.WithError(err).Fatal("could not apply migrations")
	}
	log.WithField("applied", applied).Info("database schema up to date")
	if *migrateOnly {
		return
	}

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	recurringService := application.NewRecurringService(transactionRepo, log)

	if *runRecurring {
		created, err := recurringService.ProcessRecurring(ctx, time.Now().UTC())
		if err != nil {
			log.WithError(err).Fatal("recurring run failed")
		}
		log.WithField("created", created).Info("recurring run completed")
		return
	}

	sessionManager := session.NewManager(cfg.SessionTTL, cfg.CookieSecure)
	stopCleanup := sessionManager.StartCleanup(cfg.SessionCleanupInterval)
	defer stopCleanup()

	renderer, err := web.NewRenderer(cfg.TemplatesDir, sessionManager, log)
	if err != nil {
		log.WithError(err).Fatal("could not load templates")
	}

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, log)
	authService := auth.NewAuthService(userService, sessionManager, log)

	transactionService := application.NewTransactionService(transactionRepo, log)
	budgetService := application.NewBudgetService(infrastructure.NewBudgetRepository(dbService.DB), log)
	savingsGoalService := application.NewSavingsGoalService(infrastructure.NewSavingsGoalRepository(dbService.DB), log)
	dashboardService := application.NewDashboardService(transactionService, budgetService, savingsGoalService)

	server := &Server{
		log:                log,
		db:                 dbService,
		sessions:           sessionManager,
		renderer:           renderer,
		userService:        userService,
		authHandler:        auth.NewHandler(authService, sessionManager, renderer, log),
		userHandler:        user.NewHandler(userService, sessionManager, renderer, log),
		transactionHandler: interfaces.NewTransactionHandler(transactionService, sessionManager, renderer, log),
		budgetHandler:      interfaces.NewBudgetHandler(budgetService, sessionManager, renderer, log),
		savingsGoalHandler: interfaces.NewSavingsGoalHandler(savingsGoalService, sessionManager, renderer, log),
		dashboardHandler:   interfaces.NewDashboardHandler(dashboardService, sessionManager, renderer, log),
	}
	if cfg.TriggerSecret != "" {
		triggerTokens, err := auth.NewTriggerTokenManager(cfg.TriggerSecret)
		if err != nil {
			log.WithError(err).Fatal("could not set up trigger tokens")
		}
		server.triggerTokens = triggerTokens
		server.recurringHandler = interfaces.NewRecurringHandler(recurringService, log)
	}
	server.RegisterRoutes()

	if cfg.RecurringSchedule != "" {
		scheduler, err := StartRecurringScheduler(cfg.RecurringSchedule, recurringService, log)
		if err != nil {
			log.WithError(err).Fatal("scheduler didn't start, stopping the app")
		}
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// StartRecurringScheduler runs the recurring projection on spec, a standard
// five-field cron expression or a descriptor such as "@daily".
func StartRecurringScheduler(spec string, recurringService *application.RecurringService, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		created, err := recurringService.ProcessRecurring(context.Background(), time.Now().UTC())
		if err != nil {
			log.WithError(err).Error("scheduled recurring run failed")
			return
		}
		log.WithField("created", created).Info("scheduled recurring run completed")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func printTriggerToken(secret string) error {
	tokens, err := auth.NewTriggerTokenManager(secret)
	if err != nil {
		return err
	}
	token, err := tokens.Generate(auth.DefaultTriggerTokenDuration)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
