// Package predictor defines the opaque scoring capability and loads the
// pre-trained model artifact that backs it.
package predictor

import "errors"

// NumFeatures is the length of the model input vector: year, the seven raw
// crime counts, then the seven crime ratios, in that fixed order. The
// ordering is a contract with the trained artifact and must never change.
const NumFeatures = 15

// FeatureVector is a model input. Callers build it with the fixed field
// ordering above; the predictor treats it as opaque numbers.
type FeatureVector [NumFeatures]float64

// Predictor scores a feature vector. Implementations are pre-trained and
// deterministic: the same input always yields the same score, so failures
// are never retried.
type Predictor interface {
	Predict(features FeatureVector) (float64, error)
}

// ErrBadArtifact indicates the model artifact could not be loaded or does
// not match the expected feature contract. Fatal at startup.
var ErrBadArtifact = errors.New("predictor: bad model artifact")
