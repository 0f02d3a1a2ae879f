package cmd

import (
	"github.com/fatih/color"
	"github.com/inovspin/inovspin/internal/risk"
)

var severityColors = map[risk.Severity]*color.Color{
	risk.SeverityNormal:   color.New(color.FgGreen, color.Bold),
	risk.SeverityAlert:    color.New(color.FgYellow, color.Bold),
	risk.SeverityCritical: color.New(color.FgRed, color.Bold),
}

// severityLabel renders s in its traffic-light colour. Colour is dropped
// automatically when stdout is not a terminal or NO_COLOR is set.
func severityLabel(s risk.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c.Sprint(s.String())
	}
	return s.String()
}
