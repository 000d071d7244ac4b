package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blogem/loan-approval/config"
	"github.com/blogem/loan-approval/decision"
	"github.com/blogem/loan-approval/features"
	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/metrics"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories"
	"github.com/blogem/loan-approval/userctx"
)

// PredictionService interface defines the submission -> decision -> ledger flow
type PredictionService interface {
	// Predict evaluates submitted form values and appends the outcome to the ledger.
	// Submissions that cannot be evaluated return a *models.ValidationError or an
	// models.ErrComputation error together with a result describing what was recorded.
	Predict(ctx context.Context, values map[string]string) (*PredictionResult, error)
	Strategy() string
}

// PredictionResult describes one processed submission
type PredictionResult struct {
	Application *models.LoanApplication
	Decision    models.Decision
	// Record is the ledger row written for the submission, nil when nothing was written
	Record *models.LedgerRecord
}

// predictionService implements PredictionService interface
type predictionService struct {
	engine        decision.Engine
	ledgerRepo    repositories.LedgerRepository
	invalidPolicy string
	metrics       *metrics.Collector
	logger        *logging.Logger
	now           func() time.Time
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	engine decision.Engine,
	ledgerRepo repositories.LedgerRepository,
	invalidPolicy string,
	collector *metrics.Collector,
	logger *logging.Logger,
) PredictionService {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &predictionService{
		engine:        engine,
		ledgerRepo:    ledgerRepo,
		invalidPolicy: invalidPolicy,
		metrics:       collector,
		logger:        logger.Named("prediction"),
		now:           time.Now,
	}
}

// Strategy returns the name of the decision strategy in use
func (s *predictionService) Strategy() string {
	return s.engine.Name()
}

// Predict implements PredictionService
func (s *predictionService) Predict(ctx context.Context, values map[string]string) (*PredictionResult, error) {
	now := s.now()
	username := userctx.GetUsername(ctx)

	app, err := features.ParseApplication(values, now)
	if err != nil {
		return s.handleInvalid(ctx, values, now, err)
	}

	result := &PredictionResult{Application: app}

	d, err := s.engine.Decide(ctx, app)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return s.handleInvalid(ctx, values, now, err)
	}
	result.Decision = d
	s.metrics.ObserveDecision(s.engine.Name(), string(d.Outcome))

	record := &models.LedgerRecord{
		Timestamp:     now.Truncate(time.Microsecond),
		Username:      username,
		ApplicantName: app.ApplicantName,
		DateOfBirth:   app.DateOfBirthString(),
		Occupation:    app.Occupation,
		Values:        app.Values,
		Prediction:    d.Outcome,
		Reason:        d.Reason,
		Feedback:      strings.TrimSpace(values[models.FieldFeedback]),
	}

	if err := s.append(ctx, record); err != nil {
		return result, err
	}
	result.Record = record

	s.logger.Info("Loan decision",
		zap.String("strategy", s.engine.Name()),
		zap.String("outcome", string(d.Outcome)),
		zap.Bool("approved", d.IsApproved()),
		zap.String("reason", d.Reason),
		zap.String("username", username),
	)

	return result, nil
}

// handleInvalid applies the invalid-submission policy to a submission that could not be evaluated
func (s *predictionService) handleInvalid(ctx context.Context, values map[string]string, now time.Time, cause error) (*PredictionResult, error) {
	var verr *models.ValidationError
	if !errors.As(cause, &verr) && !errors.Is(cause, models.ErrComputation) {
		// Anything else is not about the submission itself
		return nil, fmt.Errorf("failed to evaluate application: %w", cause)
	}

	result := &PredictionResult{Decision: models.Failed(cause)}
	s.metrics.ObserveDecision(s.engine.Name(), string(models.Error))
	s.logger.Warn("Submission could not be evaluated", zap.Error(cause), zap.String("policy", s.invalidPolicy))

	if s.invalidPolicy != config.InvalidRecord {
		return result, cause
	}

	record := &models.LedgerRecord{
		Timestamp:     now.Truncate(time.Microsecond),
		Username:      userctx.GetUsername(ctx),
		ApplicantName: strings.TrimSpace(values[models.FieldApplicantName]),
		DateOfBirth:   strings.TrimSpace(values[models.FieldDateOfBirth]),
		Occupation:    strings.TrimSpace(values[models.FieldOccupation]),
		Values:        make(map[string]string, len(models.UnderwritingFields)),
		Prediction:    models.Invalid,
		Reason:        cause.Error(),
		Feedback:      strings.TrimSpace(values[models.FieldFeedback]),
	}
	for _, name := range models.UnderwritingFieldNames() {
		record.Values[name] = strings.TrimSpace(values[name])
	}

	if err := s.append(ctx, record); err != nil {
		return result, err
	}
	result.Record = record

	return result, cause
}

func (s *predictionService) append(ctx context.Context, record *models.LedgerRecord) error {
	err := s.ledgerRepo.Append(ctx, record)
	s.metrics.ObserveLedgerAppend(err)
	if err != nil {
		s.logger.Error("Failed to append ledger record", zap.Error(err))
		return fmt.Errorf("failed to record prediction: %w", err)
	}
	return nil
}
