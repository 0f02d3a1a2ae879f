package risk

import "math"

// Input is what the overlay sees for one decision: the raw reading and the
// classifier's view of it.
type Input struct {
	Reading     Reading
	Probability float64 // positive-class probability in [0,1]
	Label       int     // classifier's binary label
}

// Verdict is the tier a rule assigns, before the risk is reconciled.
type Verdict struct {
	Severity       Severity
	Floor          float64 // minimum risk percentage for this tier
	RootCause      string
	Recommendation string
	CostEstimate   string
}

// Rule is one entry of the ordered decision list.
// Evaluate returns false when the rule does not apply to the input.
type Rule interface {
	Name() string
	Evaluate(in *Input) (Verdict, bool)
}

// Options tunes the rule list returned by RulesFor.
type Options struct {
	// LabelForcesCritical makes a positive classifier label sufficient
	// for CRITICAL even when no threshold is breached.
	LabelForcesCritical bool
}

// DefaultRules returns the canonical rules in priority order. The last rule
// always matches.
func DefaultRules() []Rule {
	return []Rule{
		&CriticalRule{},
		&AlertRule{},
		&NormalRule{},
	}
}

// RulesFor returns DefaultRules adjusted by opts.
func RulesFor(opts Options) []Rule {
	if !opts.LabelForcesCritical {
		return DefaultRules()
	}
	return []Rule{
		&CriticalRule{},
		&LabelRule{},
		&AlertRule{},
		&NormalRule{},
	}
}

// Apply evaluates rules in order and reconciles the first match with the
// classifier probability. The second return value names the matching rule.
// If no rule matches the reading is reported as NORMAL.
func Apply(rules []Rule, in *Input) (Decision, string) {
	for _, r := range rules {
		v, ok := r.Evaluate(in)
		if !ok {
			continue
		}
		return reconcile(v, in.Probability), r.Name()
	}
	v, _ := (&NormalRule{}).Evaluate(in)
	return reconcile(v, in.Probability), "normal"
}

func reconcile(v Verdict, probability float64) Decision {
	pct := math.Max(probability*100, v.Floor)
	pct = math.Min(math.Max(pct, 0), 100)
	return Decision{
		RiskPct:        pct,
		Severity:       v.Severity,
		RootCause:      v.RootCause,
		Recommendation: v.Recommendation,
		CostEstimate:   v.CostEstimate,
	}
}
