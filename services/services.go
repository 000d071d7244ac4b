package services

import (
	"github.com/blogem/loan-approval/decision"
	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/metrics"
	"github.com/blogem/loan-approval/repositories"
)

// Services holds all service instances
type Services struct {
	Prediction PredictionService
	Report     ReportService
	Auth       AuthService
}

// Options carries the collaborators shared by the services
type Options struct {
	Engine             decision.Engine
	InvalidSubmissions string
	Metrics            *metrics.Collector
	Logger             *logging.Logger
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, opts Options) *Services {
	return &Services{
		Prediction: NewPredictionService(opts.Engine, repos.Ledger, opts.InvalidSubmissions, opts.Metrics, opts.Logger),
		Report:     NewReportService(repos.Ledger, opts.Logger),
		Auth:       NewAuthService(repos.Identities, opts.Logger),
	}
}
