package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/inovspin/inovspin/internal/risk"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one reading and record the decision",
	Example: "  inovspin predict --usage-hours 5000 --temperature 90 --vibration 1.0 " +
		"--current 10 --power-factor 0.9",
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.Float64("usage-hours", 0, "Accumulated usage hours")
	f.Float64("temperature", 0, "Temperature in °C")
	f.Float64("vibration", 0, "Vibration velocity in mm/s")
	f.Float64("current", 0, "Current draw in A")
	f.Float64("power-factor", 0, "Power factor, 0 to 1")
	f.Bool("json", false, "Print the decision as JSON")
	for _, name := range []string{"usage-hours", "temperature", "vibration", "current", "power-factor"} {
		_ = predictCmd.MarkFlagRequired(name)
	}
}

func runPredict(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	var rd risk.Reading
	rd.UsageHours, _ = f.GetFloat64("usage-hours")
	rd.TemperatureC, _ = f.GetFloat64("temperature")
	rd.VibrationMMS, _ = f.GetFloat64("vibration")
	rd.CurrentA, _ = f.GetFloat64("current")
	rd.PowerFactor, _ = f.GetFloat64("power-factor")

	svc, cleanup, err := buildService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	d, err := svc.Predict(cmd.Context(), rd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := f.GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	fmt.Fprintf(out, "Status:         %s\n", severityLabel(d.Severity))
	fmt.Fprintf(out, "Failure risk:   %.1f%%\n", risk.Round1(d.RiskPct))
	fmt.Fprintf(out, "Root cause:     %s\n", d.RootCause)
	fmt.Fprintf(out, "Recommendation: %s\n", d.Recommendation)
	fmt.Fprintf(out, "Estimated ROI:  %s\n", d.CostEstimate)
	return nil
}
