package risk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(rd Reading, prob float64) (Decision, string) {
	return Apply(DefaultRules(), &Input{Reading: rd, Probability: prob})
}

func normalReading() Reading {
	return Reading{UsageHours: 500, TemperatureC: 40, VibrationMMS: 1.5, CurrentA: 14, PowerFactor: 0.93}
}

func TestCriticalRule_Triggers(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Reading)
		wantCause string
	}{
		{"vibration at limit", func(r *Reading) { r.VibrationMMS = 4.5 }, "Vibration"},
		{"temperature at limit", func(r *Reading) { r.TemperatureC = 85.0 }, "Temperature"},
		{"current at limit", func(r *Reading) { r.CurrentA = 22.0 }, "Current"},
		{"vibration wins over temperature", func(r *Reading) { r.VibrationMMS = 6; r.TemperatureC = 95 }, "Vibration"},
		{"temperature wins over current", func(r *Reading) { r.TemperatureC = 90; r.CurrentA = 30 }, "Temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := normalReading()
			tt.mutate(&rd)
			d, name := apply(rd, 0.01)
			assert.Equal(t, SeverityCritical, d.Severity)
			assert.Equal(t, "critical-threshold", name)
			assert.True(t, strings.HasPrefix(d.RootCause, tt.wantCause), "root cause %q", d.RootCause)
			assert.Equal(t, criticalRecommendation, d.Recommendation)
			assert.Equal(t, criticalCost, d.CostEstimate)
			assert.GreaterOrEqual(t, d.RiskPct, CriticalFloorPct)
		})
	}
}

func TestCriticalRule_JustBelowLimits(t *testing.T) {
	rd := Reading{VibrationMMS: 4.49, TemperatureC: 84.9, CurrentA: 21.9, PowerFactor: 0.9}
	d, _ := apply(rd, 0.2)
	assert.Equal(t, SeverityAlert, d.Severity)
}

func TestCriticalRule_KeepsHigherProbability(t *testing.T) {
	rd := normalReading()
	rd.VibrationMMS = 7
	d, _ := apply(rd, 0.99)
	assert.InDelta(t, 99.0, d.RiskPct, 1e-9)
}

func TestAlertRule_Triggers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Reading)
	}{
		{"vibration at limit", func(r *Reading) { r.VibrationMMS = 2.8 }},
		{"temperature at limit", func(r *Reading) { r.TemperatureC = 70.0 }},
		{"power factor below limit", func(r *Reading) { r.PowerFactor = 0.849 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := normalReading()
			tt.mutate(&rd)
			d, name := apply(rd, 0.1)
			assert.Equal(t, SeverityAlert, d.Severity)
			assert.Equal(t, "alert-threshold", name)
			assert.Equal(t, alertCause, d.RootCause)
			assert.Equal(t, alertRecommendation, d.Recommendation)
			assert.Equal(t, alertCost, d.CostEstimate)
			assert.GreaterOrEqual(t, d.RiskPct, AlertFloorPct)
		})
	}
}

func TestAlertRule_PowerFactorAtLimitIsNormal(t *testing.T) {
	rd := normalReading()
	rd.PowerFactor = 0.85
	d, _ := apply(rd, 0.1)
	assert.Equal(t, SeverityNormal, d.Severity)
}

func TestNormal_NoFloor(t *testing.T) {
	d, name := apply(normalReading(), 0.05)
	assert.Equal(t, SeverityNormal, d.Severity)
	assert.Equal(t, "normal", name)
	assert.Equal(t, 5.0, Round1(d.RiskPct))
	assert.Equal(t, normalCause, d.RootCause)
	assert.Equal(t, normalRecommendation, d.Recommendation)
	assert.Equal(t, normalCost, d.CostEstimate)
}

func TestScenarios(t *testing.T) {
	t.Run("temperature critical", func(t *testing.T) {
		d, _ := apply(Reading{UsageHours: 5000, TemperatureC: 90, VibrationMMS: 1.0, CurrentA: 10, PowerFactor: 0.9}, 0.3)
		assert.Equal(t, SeverityCritical, d.Severity)
		assert.GreaterOrEqual(t, d.RiskPct, 95.0)
		assert.Contains(t, strings.ToLower(d.RootCause), "temperature")
	})

	t.Run("power factor alert", func(t *testing.T) {
		d, _ := apply(Reading{UsageHours: 1000, TemperatureC: 50, VibrationMMS: 1.0, CurrentA: 12, PowerFactor: 0.80}, 0.1)
		assert.Equal(t, SeverityAlert, d.Severity)
		assert.GreaterOrEqual(t, d.RiskPct, 55.0)
	})
}

func TestApply_RiskBounds(t *testing.T) {
	readings := []Reading{
		normalReading(),
		{VibrationMMS: 3},
		{VibrationMMS: 10},
		{TemperatureC: 120, PowerFactor: 0.5},
	}
	probs := []float64{0, 0.05, 0.5, 0.999, 1}

	for _, rd := range readings {
		for _, p := range probs {
			d, _ := apply(rd, p)
			assert.GreaterOrEqual(t, d.RiskPct, 0.0)
			assert.LessOrEqual(t, d.RiskPct, 100.0)
			switch d.Severity {
			case SeverityCritical:
				assert.GreaterOrEqual(t, d.RiskPct, 95.0)
			case SeverityAlert:
				assert.GreaterOrEqual(t, d.RiskPct, 55.0)
			}
		}
	}
}

func TestApply_Deterministic(t *testing.T) {
	rd := Reading{UsageHours: 9000, TemperatureC: 72.3, VibrationMMS: 2.1, CurrentA: 17, PowerFactor: 0.88}
	first, _ := apply(rd, 0.4321)
	for i := 0; i < 5; i++ {
		again, _ := apply(rd, 0.4321)
		require.Equal(t, first, again)
	}
}

func TestRulesFor_LabelForcesCritical(t *testing.T) {
	in := &Input{Reading: normalReading(), Probability: 0.6, Label: 1}

	d, _ := Apply(DefaultRules(), in)
	assert.Equal(t, SeverityNormal, d.Severity, "label ignored by default")

	d, name := Apply(RulesFor(Options{LabelForcesCritical: true}), in)
	assert.Equal(t, SeverityCritical, d.Severity)
	assert.Equal(t, "classifier-label", name)
	assert.Equal(t, labelCause, d.RootCause)
	assert.Equal(t, CriticalFloorPct, d.RiskPct)
}

func TestRulesFor_ThresholdCauseWinsOverLabel(t *testing.T) {
	rd := normalReading()
	rd.TemperatureC = 88
	d, name := Apply(RulesFor(Options{LabelForcesCritical: true}), &Input{Reading: rd, Probability: 0.9, Label: 1})
	assert.Equal(t, "critical-threshold", name)
	assert.Contains(t, d.RootCause, "Temperature")
}

func TestApply_EmptyRulesIsNormal(t *testing.T) {
	d, name := Apply(nil, &Input{Reading: normalReading(), Probability: 0.2})
	assert.Equal(t, SeverityNormal, d.Severity)
	assert.Equal(t, "normal", name)
}
