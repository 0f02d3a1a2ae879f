package risk

import (
	"encoding/json"
	"math"
)

// Decision is the merged output of one inference.
type Decision struct {
	// RiskPct is the final risk in [0,100], unrounded. Rounding happens
	// only when the decision is rendered.
	RiskPct        float64
	Severity       Severity
	RootCause      string
	Recommendation string
	CostEstimate   string
}

type decisionJSON struct {
	RiskPct        float64  `json:"risk_probability_pct"`
	Severity       Severity `json:"severity"`
	RootCause      string   `json:"root_cause"`
	Recommendation string   `json:"recommendation"`
	CostEstimate   string   `json:"cost_estimate"`
}

// MarshalJSON renders the decision with the risk rounded to one decimal.
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(decisionJSON{
		RiskPct:        Round1(d.RiskPct),
		Severity:       d.Severity,
		RootCause:      d.RootCause,
		Recommendation: d.Recommendation,
		CostEstimate:   d.CostEstimate,
	})
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	var v decisionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Decision(v)
	return nil
}

// Round1 rounds v to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
