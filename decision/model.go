package decision

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blogem/loan-approval/features"
	"github.com/blogem/loan-approval/models"
)

// Scaler kinds
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// Artifact is the persisted, pre-fit model: a linear rescaling followed by a
// linear binary classifier.
//
// FeaturePadding reproduces the training-time feature width: the scaler was fit on
// the eleven underwriting features plus FeaturePadding zero-valued filler columns,
// while the classifier was fit on the first len(Coefficients) scaled columns only.
// Keep it as is when serving an existing artifact; a retrained artifact sets it to 0.
type Artifact struct {
	FeaturePadding int              `yaml:"feature_padding"`
	Scaler         ScalerParams     `yaml:"scaler"`
	Classifier     ClassifierParams `yaml:"classifier"`
}

// ScalerParams holds a fitted scaler.
// standard: (x - Mean) / Scale. minmax: x*Scale + Min.
type ScalerParams struct {
	Kind  string    `yaml:"kind"`
	Mean  []float64 `yaml:"mean,omitempty"`
	Min   []float64 `yaml:"min,omitempty"`
	Scale []float64 `yaml:"scale"`
}

// ClassifierParams holds a fitted linear classifier
type ClassifierParams struct {
	Kind         string    `yaml:"kind"`
	Coefficients []float64 `yaml:"coefficients"`
	Intercept    float64   `yaml:"intercept"`
}

// LoadArtifact reads and validates a YAML model artifact
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	return ParseArtifact(data)
}

// ParseArtifact decodes and validates a YAML model artifact
func ParseArtifact(data []byte) (*Artifact, error) {
	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Width returns the number of columns the scaler expects
func (a *Artifact) Width() int {
	return len(models.UnderwritingFields) + a.FeaturePadding
}

// Validate checks that the scaler and classifier widths fit together
func (a *Artifact) Validate() error {
	if a.FeaturePadding < 0 {
		return errors.New("feature_padding must not be negative")
	}

	width := a.Width()
	if len(a.Scaler.Scale) != width {
		return fmt.Errorf("scaler expects %d features, artifact has %d scale entries", width, len(a.Scaler.Scale))
	}

	switch a.Scaler.Kind {
	case ScalerStandard:
		if len(a.Scaler.Mean) != width {
			return fmt.Errorf("standard scaler needs %d mean entries, got %d", width, len(a.Scaler.Mean))
		}
		for i, s := range a.Scaler.Scale {
			if s == 0 {
				return fmt.Errorf("standard scaler has zero scale at column %d", i)
			}
		}
	case ScalerMinMax:
		if len(a.Scaler.Min) != width {
			return fmt.Errorf("minmax scaler needs %d min entries, got %d", width, len(a.Scaler.Min))
		}
	default:
		return fmt.Errorf("unknown scaler kind %q", a.Scaler.Kind)
	}

	if a.Classifier.Kind != "logistic" && a.Classifier.Kind != "linear" {
		return fmt.Errorf("unknown classifier kind %q", a.Classifier.Kind)
	}
	if n := len(a.Classifier.Coefficients); n == 0 || n > width {
		return fmt.Errorf("classifier width %d must be between 1 and %d", n, width)
	}

	return nil
}

// ModelEngine decides with a pre-trained linear classifier
type ModelEngine struct {
	artifact *Artifact
}

// NewModelEngine creates a model engine from a validated artifact
func NewModelEngine(artifact *Artifact) (*ModelEngine, error) {
	if artifact == nil {
		return nil, errors.New("model artifact is required")
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &ModelEngine{artifact: artifact}, nil
}

// Name implements Engine
func (e *ModelEngine) Name() string {
	return StrategyModel
}

// Decide implements Engine. Output 1 of the classifier maps to Approved, 0 to Rejected.
func (e *ModelEngine) Decide(ctx context.Context, app *models.LoanApplication) (models.Decision, error) {
	if err := ctx.Err(); err != nil {
		return models.Decision{}, err
	}

	padded := features.Vector(app, e.artifact.FeaturePadding)
	scaled := e.Transform(padded)
	if e.Predict(scaled[:len(e.artifact.Classifier.Coefficients)]) == 1 {
		return models.Approve(), nil
	}
	return models.Reject("Rejected by the credit model"), nil
}

// Transform applies the fitted rescaling to every column of a padded vector
func (e *ModelEngine) Transform(vector []float64) []float64 {
	s := e.artifact.Scaler
	out := make([]float64, len(vector))
	for i, x := range vector {
		switch s.Kind {
		case ScalerMinMax:
			out[i] = x*s.Scale[i] + s.Min[i]
		default:
			out[i] = (x - s.Mean[i]) / s.Scale[i]
		}
	}
	return out
}

// DecisionFunction returns w·x + b for a scaled, truncated vector
func (e *ModelEngine) DecisionFunction(x []float64) float64 {
	score := e.artifact.Classifier.Intercept
	for i, w := range e.artifact.Classifier.Coefficients {
		score += w * x[i]
	}
	return score
}

// Predict returns the binary class of a scaled, truncated vector
func (e *ModelEngine) Predict(x []float64) int {
	if e.DecisionFunction(x) > 0 {
		return 1
	}
	return 0
}
