package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blogem/loan-approval/authenticator"
	"github.com/blogem/loan-approval/config"
	"github.com/blogem/loan-approval/controllers"
	"github.com/blogem/loan-approval/database"
	"github.com/blogem/loan-approval/decision"
	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/metrics"
	authmiddleware "github.com/blogem/loan-approval/middleware"
	"github.com/blogem/loan-approval/repositories"
	"github.com/blogem/loan-approval/services"
)

const shutdownTimeout = 10 * time.Second

// application holds the wired components shared by the commands
type application struct {
	cfg      config.Config
	logger   *logging.Logger
	repos    *repositories.Repositories
	services *services.Services
	registry *prometheus.Registry
	metrics  *metrics.Collector
	auditor  *authmiddleware.Auditor
}

// newLogger builds the zap logger from the configuration and installs it globally
func newLogger(cfg config.Config) (*logging.Logger, error) {
	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.LogDev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logging.SetGlobal(logger)
	return logger, nil
}

// newApplication opens the audit database, the flat-file stores and the
// decision engine. Call close when done.
func newApplication(cfg config.Config, logger *logging.Logger) (*application, error) {
	// Initialize database
	if err := database.InitializeDatabase(cfg.AuditDBPath); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	seed, err := cfg.SeedIdentities()
	if err != nil {
		database.CloseDB()
		return nil, err
	}

	// Initialize repositories
	repos, err := repositories.NewRepositories(database.GetDB(), repositories.Paths{
		Ledger:     cfg.LedgerPath,
		Identities: cfg.UsersPath,
	}, seed)
	if err != nil {
		database.CloseDB()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	engine, err := decision.New(decision.Options{Strategy: cfg.DecisionStrategy, ModelPath: cfg.ModelPath})
	if err != nil {
		database.CloseDB()
		return nil, fmt.Errorf("failed to initialize decision engine: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Initialize services
	srvs := services.NewServices(repos, services.Options{
		Engine:             engine,
		InvalidSubmissions: cfg.InvalidSubmissions,
		Metrics:            collector,
		Logger:             logger,
	})

	identities, err := repos.Identities.Count(context.Background())
	if err != nil {
		database.CloseDB()
		return nil, fmt.Errorf("failed to read identities: %w", err)
	}

	logger.Info("Decision engine ready",
		zap.String("strategy", engine.Name()),
		zap.String("invalid_submissions", cfg.InvalidSubmissions),
		zap.String("ledger", repos.Ledger.Path()),
		zap.Int("identities", identities))

	return &application{
		cfg:      cfg,
		logger:   logger,
		repos:    repos,
		services: srvs,
		registry: registry,
		metrics:  collector,
		auditor:  authmiddleware.NewAuditor(repos.Audit, logger),
	}, nil
}

// close waits for pending audit writes, then closes the database
func (a *application) close() {
	a.auditor.Wait()
	if err := database.CloseDB(); err != nil {
		a.logger.Warn("Failed to close database", zap.Error(err))
	}
}

// handler builds the HTTP handler with every route
func (a *application) handler(ctx context.Context) (http.Handler, error) {
	var sso authenticator.Provider
	if a.cfg.OIDC.Enabled() {
		provider, err := authenticator.NewOpenIDProvider(ctx, authenticator.OpenIDConfig{
			Domain:       a.cfg.OIDC.Domain,
			ClientID:     a.cfg.OIDC.ClientID,
			ClientSecret: a.cfg.OIDC.ClientSecret,
			CallbackURL:  a.cfg.OIDC.CallbackURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenID provider: %w", err)
		}
		sso = provider
	}

	ctrl := controllers.NewControllers(a.services, sso, a.logger)

	return setupRouter(ctrl, routerOptions{
		RequireLogin:   a.cfg.RequireLogin,
		SecureCookies:  a.cfg.UseHTTPS,
		Audit:          a.auditor,
		Metrics:        a.metrics,
		MetricsHandler: promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}),
	})
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully
func (a *application) serve(ctx context.Context) error {
	handler, err := a.handler(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Loan approval service starting",
			zap.String("addr", "http://localhost:"+a.cfg.Port),
			zap.String("ledger", a.repos.Ledger.Path()),
			zap.String("audit_db", a.cfg.AuditDBPath),
			zap.Bool("require_login", a.cfg.RequireLogin))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
