package risk

import "fmt"

// Critical limits. Inclusive: a reading at the limit is critical.
const (
	CriticalVibrationMMS = 4.5
	CriticalTemperatureC = 85.0
	CriticalCurrentA     = 22.0
	CriticalFloorPct     = 95.0
)

// Alert limits. Vibration and temperature are inclusive; power factor
// alerts strictly below the limit.
const (
	AlertVibrationMMS = 2.8
	AlertTemperatureC = 70.0
	AlertPowerFactor  = 0.85
	AlertFloorPct     = 55.0
)

const (
	criticalRecommendation = "Stop the motor immediately. Inspect bearings, alignment and cooling before restarting."
	criticalCost           = "Estimated savings of R$ 15,000.00 by avoiding a catastrophic failure and unplanned downtime."

	alertCause          = "Performance deviation detected: operating parameters are outside the expected envelope."
	alertRecommendation = "Schedule inspection and lubrication within the next 48 hours."
	alertCost           = "Preventive maintenance (R$ 1,500.00) recommended to avoid corrective costs."

	normalCause          = "All parameters within normal operating limits."
	normalRecommendation = "No action required. Continue standard monitoring."
	normalCost           = "Full availability. No additional costs at this time."

	labelCause = "Classifier predicts imminent failure with no single threshold breached."
)

// CriticalRule fires when any one of vibration, temperature or current
// reaches its critical limit.
type CriticalRule struct{}

func (r *CriticalRule) Name() string { return "critical-threshold" }

func (r *CriticalRule) Evaluate(in *Input) (Verdict, bool) {
	cause, ok := criticalCause(in.Reading)
	if !ok {
		return Verdict{}, false
	}
	return criticalVerdict(cause), true
}

// criticalCause names the breached limit. Vibration takes precedence over
// temperature, and temperature over current.
func criticalCause(r Reading) (string, bool) {
	switch {
	case r.VibrationMMS >= CriticalVibrationMMS:
		return fmt.Sprintf("Vibration of %.2f mm/s exceeds the ISO 10816 critical severity limit (%.1f mm/s).",
			r.VibrationMMS, CriticalVibrationMMS), true
	case r.TemperatureC >= CriticalTemperatureC:
		return fmt.Sprintf("Temperature of %.1f °C exceeds the critical winding limit (%.1f °C).",
			r.TemperatureC, CriticalTemperatureC), true
	case r.CurrentA >= CriticalCurrentA:
		return fmt.Sprintf("Current draw of %.1f A exceeds the critical overload limit (%.1f A).",
			r.CurrentA, CriticalCurrentA), true
	}
	return "", false
}

func criticalVerdict(cause string) Verdict {
	return Verdict{
		Severity:       SeverityCritical,
		Floor:          CriticalFloorPct,
		RootCause:      cause,
		Recommendation: criticalRecommendation,
		CostEstimate:   criticalCost,
	}
}

// LabelRule escalates to CRITICAL on a positive classifier label.
// It is not part of DefaultRules.
type LabelRule struct{}

func (r *LabelRule) Name() string { return "classifier-label" }

func (r *LabelRule) Evaluate(in *Input) (Verdict, bool) {
	if in.Label != 1 {
		return Verdict{}, false
	}
	return criticalVerdict(labelCause), true
}

// AlertRule fires on moderate vibration or temperature, or a poor power
// factor.
type AlertRule struct{}

func (r *AlertRule) Name() string { return "alert-threshold" }

func (r *AlertRule) Evaluate(in *Input) (Verdict, bool) {
	rd := in.Reading
	if rd.VibrationMMS < AlertVibrationMMS &&
		rd.TemperatureC < AlertTemperatureC &&
		rd.PowerFactor >= AlertPowerFactor {
		return Verdict{}, false
	}
	return Verdict{
		Severity:       SeverityAlert,
		Floor:          AlertFloorPct,
		RootCause:      alertCause,
		Recommendation: alertRecommendation,
		CostEstimate:   alertCost,
	}, true
}

// NormalRule always matches.
type NormalRule struct{}

func (r *NormalRule) Name() string { return "normal" }

func (r *NormalRule) Evaluate(*Input) (Verdict, bool) {
	return Verdict{
		Severity:       SeverityNormal,
		RootCause:      normalCause,
		Recommendation: normalRecommendation,
		CostEstimate:   normalCost,
	}, true
}
