package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/loan-approval/models"
)

const testArtifactYAML = `
feature_padding: 3
scaler:
  kind: standard
  mean:  [0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 5, 5]
  scale: [1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1]
classifier:
  kind: logistic
  coefficients: [0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0]
  intercept: -1
`

func modelApplication(creditHistory int) *models.LoanApplication {
	return &models.LoanApplication{
		Gender:            1,
		Married:           1,
		Education:         1,
		PropertyArea:      2,
		ApplicantIncome:   4500,
		CoapplicantIncome: 500.5,
		LoanAmount:        50000,
		LoanAmountTerm:    60,
		CreditHistory:     creditHistory,
	}
}

func TestParseArtifact(t *testing.T) {
	artifact, err := ParseArtifact([]byte(testArtifactYAML))
	require.NoError(t, err)

	assert.Equal(t, 3, artifact.FeaturePadding)
	assert.Equal(t, 14, artifact.Width())
	assert.Len(t, artifact.Classifier.Coefficients, 11)
}

func TestParseArtifact_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"not yaml", "feature_padding: [oops"},
		{"scaler width mismatch", `
feature_padding: 0
scaler: {kind: standard, mean: [0], scale: [1]}
classifier: {kind: logistic, coefficients: [1], intercept: 0}`},
		{"zero scale", `
feature_padding: 0
scaler: {kind: standard, mean: [0,0,0,0,0,0,0,0,0,0,0], scale: [1,1,1,1,1,0,1,1,1,1,1]}
classifier: {kind: logistic, coefficients: [1], intercept: 0}`},
		{"classifier wider than scaler", `
feature_padding: 0
scaler: {kind: minmax, min: [0,0,0,0,0,0,0,0,0,0,0], scale: [1,1,1,1,1,1,1,1,1,1,1]}
classifier: {kind: logistic, coefficients: [1,1,1,1,1,1,1,1,1,1,1,1], intercept: 0}`},
		{"unknown scaler", `
feature_padding: 0
scaler: {kind: robust, scale: [1,1,1,1,1,1,1,1,1,1,1]}
classifier: {kind: logistic, coefficients: [1], intercept: 0}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseArtifact([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestModelEngine_PadsScalesAndTruncates(t *testing.T) {
	artifact, err := ParseArtifact([]byte(testArtifactYAML))
	require.NoError(t, err)
	engine, err := NewModelEngine(artifact)
	require.NoError(t, err)

	scaled := engine.Transform([]float64{1, 1, 0, 1, 0, 4500, 500.5, 50000, 60, 1, 2, 0, 0, 0})
	require.Len(t, scaled, 14)
	// Filler columns are scaled like any other column before being dropped
	assert.Equal(t, []float64{-5, -5, -5}, scaled[11:])

	assert.Equal(t, 1, engine.Predict(scaled[:11]))
	assert.InDelta(t, 1.0, engine.DecisionFunction(scaled[:11]), 1e-12)
}

func TestModelEngine_Decide(t *testing.T) {
	artifact, err := ParseArtifact([]byte(testArtifactYAML))
	require.NoError(t, err)
	engine, err := NewModelEngine(artifact)
	require.NoError(t, err)
	assert.Equal(t, StrategyModel, engine.Name())

	decision, err := engine.Decide(context.Background(), modelApplication(1))
	require.NoError(t, err)
	assert.Equal(t, models.Approved, decision.Outcome)

	decision, err = engine.Decide(context.Background(), modelApplication(0))
	require.NoError(t, err)
	assert.Equal(t, models.Rejected, decision.Outcome)
}

func TestModelEngine_MinMaxScaler(t *testing.T) {
	artifact := &Artifact{
		Scaler: ScalerParams{
			Kind:  ScalerMinMax,
			Min:   []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, -0.5, 0},
			Scale: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		Classifier: ClassifierParams{Kind: "linear", Coefficients: []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
	}
	engine, err := NewModelEngine(artifact)
	require.NoError(t, err)

	decision, err := engine.Decide(context.Background(), modelApplication(1))
	require.NoError(t, err)
	assert.Equal(t, models.Approved, decision.Outcome)

	decision, err = engine.Decide(context.Background(), modelApplication(0))
	require.NoError(t, err)
	assert.Equal(t, models.Rejected, decision.Outcome)
}

func TestModelEngine_ShippedArtifact(t *testing.T) {
	engine, err := New(Options{Strategy: StrategyModel, ModelPath: "../model/loan_model.yaml"})
	require.NoError(t, err)

	decision, err := engine.Decide(context.Background(), modelApplication(1))
	require.NoError(t, err)
	assert.Equal(t, models.Approved, decision.Outcome)

	decision, err = engine.Decide(context.Background(), modelApplication(0))
	require.NoError(t, err)
	assert.Equal(t, models.Rejected, decision.Outcome)
}
