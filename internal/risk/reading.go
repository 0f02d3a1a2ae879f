package risk

import "github.com/inovspin/inovspin/internal/model"

// Reading is one snapshot of motor sensor values. Values pass through as
// supplied; physical plausibility is not checked.
type Reading struct {
	UsageHours   float64 `json:"usage_hours"`
	TemperatureC float64 `json:"temperature_c"`
	VibrationMMS float64 `json:"vibration_mms"`
	CurrentA     float64 `json:"current_a"`
	PowerFactor  float64 `json:"power_factor"`
}

// Features returns the reading in the column order the classifier was
// trained on.
func (r Reading) Features() model.Features {
	return model.Features{
		r.UsageHours,
		r.TemperatureC,
		r.VibrationMMS,
		r.CurrentA,
		r.PowerFactor,
	}
}
