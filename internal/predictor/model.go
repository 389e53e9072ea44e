package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// artifact is the on-disk model format: a regression exported after
// training as an intercept plus one coefficient per feature. The feature
// list is informational; when present its length must match.
type artifact struct {
	ModelType    string    `json:"model_type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Features     []string  `json:"features,omitempty"`
}

// RegressionModel is a Predictor backed by a serialized regression
// artifact. It is loaded once at startup and read-only afterward.
type RegressionModel struct {
	intercept float64
	coef      [NumFeatures]float64
}

var _ Predictor = (*RegressionModel)(nil)

// LoadRegression reads a regression artifact from a JSON file. A missing
// file or a coefficient count that does not match the feature contract is
// a startup failure.
func LoadRegression(path string) (*RegressionModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrBadArtifact, path, err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrBadArtifact, path, err)
	}

	if len(a.Coefficients) != NumFeatures {
		return nil, fmt.Errorf("%w: expected %d coefficients, got %d",
			ErrBadArtifact, NumFeatures, len(a.Coefficients))
	}
	if a.Features != nil && len(a.Features) != NumFeatures {
		return nil, fmt.Errorf("%w: expected %d feature names, got %d",
			ErrBadArtifact, NumFeatures, len(a.Features))
	}

	m := &RegressionModel{intercept: a.Intercept}
	copy(m.coef[:], a.Coefficients)
	return m, nil
}

// Predict computes the model score for a feature vector.
func (m *RegressionModel) Predict(features FeatureVector) (float64, error) {
	score := m.intercept
	for i, f := range features {
		score += m.coef[i] * f
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("predictor: non-finite score for input %v", features)
	}
	return score, nil
}
