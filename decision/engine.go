// Package decision maps a loan application to an approval decision.
//
// Two strategies exist: a pre-trained linear classifier (ModelEngine) and a fixed
// rule chain (RuleEngine). One of them is chosen at startup and used for every request.
package decision

import (
	"context"
	"fmt"

	"github.com/blogem/loan-approval/models"
)

// Strategy names accepted by New
const (
	StrategyModel = "model"
	StrategyRule  = "rule"
)

// Engine decides a loan application
type Engine interface {
	// Name returns the strategy name used in logs and metrics
	Name() string
	// Decide evaluates app. Rejections are decisions, not errors; an error means
	// the application could not be evaluated at all.
	Decide(ctx context.Context, app *models.LoanApplication) (models.Decision, error)
}

// Options configures New
type Options struct {
	Strategy  string
	ModelPath string
}

// New builds the engine for the configured strategy
func New(opts Options) (Engine, error) {
	switch opts.Strategy {
	case StrategyModel:
		artifact, err := LoadArtifact(opts.ModelPath)
		if err != nil {
			return nil, err
		}
		return NewModelEngine(artifact)
	case StrategyRule, "":
		return NewRuleEngine(DefaultRules()), nil
	default:
		return nil, fmt.Errorf("unknown decision strategy %q", opts.Strategy)
	}
}
