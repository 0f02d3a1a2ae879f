package model

const testArtifact = `{
  "format_version": "v1.2.0",
  "kind": "random_forest",
  "description": "two stumps",
  "feature_names": ["usage_hours", "temperature_c", "vibration_mms", "current_a", "power_factor"],
  "trees": [
    {"nodes": [
      {"feature": 1, "threshold": 70, "left": 1, "right": 2},
      {"left": -1, "right": -1, "value": [90, 10]},
      {"left": -1, "right": -1, "value": [20, 80]}
    ]},
    {"nodes": [
      {"feature": 2, "threshold": 4.0, "left": 1, "right": 2},
      {"left": -1, "right": -1, "value": [0.95, 0.05]},
      {"left": -1, "right": -1, "value": [0.1, 0.9]}
    ]}
  ]
}`

// fixedClassifier returns a constant distribution.
type fixedClassifier struct {
	p     float64
	label int
}

func (f fixedClassifier) PredictProba(Features) [2]float64 { return [2]float64{1 - f.p, f.p} }
func (f fixedClassifier) Predict(Features) int { return f.label }
