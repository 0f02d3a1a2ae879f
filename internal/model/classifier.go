package model

import (
	"fmt"
	"math"
)

// NumFeatures is the width of the classifier input.
const NumFeatures = 5

// FeatureNames lists the classifier inputs in training column order.
var FeatureNames = [NumFeatures]string{
	"usage_hours",
	"temperature_c",
	"vibration_mms",
	"current_a",
	"power_factor",
}

// Features is one classifier input row, ordered as FeatureNames.
type Features [NumFeatures]float64

// Classifier is a trained binary classifier. Implementations must be pure:
// the same input always yields the same output and inference mutates no
// state, so a Classifier is safe for concurrent use.
type Classifier interface {
	// PredictProba returns [P(negative), P(positive)].
	PredictProba(x Features) [2]float64
	// Predict returns the most likely class, 0 or 1.
	Predict(x Features) int
}

// Estimate is the classifier's view of one reading.
type Estimate struct {
	Probability float64 // positive-class probability in [0,1]
	Label       int
}

// Adapter guards access to the loaded classifier. The zero value and an
// Adapter built from a nil Classifier report the model as unavailable.
type Adapter struct {
	clf Classifier
}

// NewAdapter wraps clf. clf may be nil when no artifact was loaded.
func NewAdapter(clf Classifier) *Adapter {
	return &Adapter{clf: clf}
}

// Loaded reports whether a classifier is available for inference.
func (a *Adapter) Loaded() bool {
	return a != nil && a.clf != nil
}

// Estimate runs the classifier on x.
func (a *Adapter) Estimate(x Features) (Estimate, error) {
	if !a.Loaded() {
		return Estimate{}, &ErrModelUnavailable{}
	}
	proba := a.clf.PredictProba(x)
	p := proba[1]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Estimate{}, fmt.Errorf("classifier returned probability %v outside [0,1]", p)
	}
	return Estimate{Probability: p, Label: a.clf.Predict(x)}, nil
}

// EstimateFailureProbability returns the positive-class probability for x.
func (a *Adapter) EstimateFailureProbability(x Features) (float64, error) {
	est, err := a.Estimate(x)
	if err != nil {
		return 0, err
	}
	return est.Probability, nil
}
