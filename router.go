package main

import (
	"fmt"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/loan-approval/controllers"
	"github.com/blogem/loan-approval/metrics"
	authmiddleware "github.com/blogem/loan-approval/middleware"
)

// routerOptions carries what setupRouter needs besides the controllers
type routerOptions struct {
	RequireLogin  bool
	SecureCookies bool
	Audit         *authmiddleware.Auditor
	Metrics       *metrics.Collector
	// MetricsHandler serves /metrics; the route is omitted when nil
	MetricsHandler http.Handler
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, opts routerOptions) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // OAuth callbacks can be slow
	r.Use(middleware.Compress(5))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "loan_session",
		Secure:         opts.SecureCookies,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(authmiddleware.LoadIdentity)
	if opts.Audit != nil {
		r.Use(opts.Audit.Handler)
	}

	// PUBLIC ROUTES (no authentication required)
	r.Get("/", ctrl.Home.Index)
	r.Get("/health", ctrl.Home.Health)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	r.Get("/login", ctrl.Auth.LoginForm)
	r.Post("/login", ctrl.Auth.Login)
	r.Get("/register", ctrl.Auth.RegisterForm)
	r.Post("/register", ctrl.Auth.Register)
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/auth/oidc/login", ctrl.Auth.OIDCLogin)
	r.Get("/auth/oidc/callback", ctrl.Auth.OIDCCallback)

	// Application and reporting routes, protected unless login is disabled
	r.Group(func(r chi.Router) {
		if opts.RequireLogin {
			r.Use(authmiddleware.RequireAuth)
		}

		r.Get("/predict", ctrl.Predict.Form)
		r.Post("/predict", ctrl.Predict.Submit)
		r.Get("/predictions", ctrl.Report.Predictions)
		r.Get("/download", ctrl.Report.Download)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", ctrl.Report.Dashboard)
			r.Get("/decisions.svg", ctrl.Report.DecisionsChart)
			r.Get("/income.svg", ctrl.Report.IncomeChart)
		})
	})

	// The personal history always needs an identity
	r.With(authmiddleware.RequireAuth).Get("/history", ctrl.Report.History)

	return r, nil
}
