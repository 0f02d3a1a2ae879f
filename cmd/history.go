package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/inovspin/inovspin/internal/decision"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent decisions",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", decision.DefaultHistoryLimit, "Number of decisions to show")
	historyCmd.Flags().Bool("json", false, "Print the history as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	svc, cleanup, err := historyService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := svc.History(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"history": entries})
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No decisions recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED AT\tTEMP °C\tVIBRATION mm/s\tRISK %\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%.1f\t%s\n",
			e.RecordedAt.Local().Format(time.DateTime),
			e.TemperatureC, e.VibrationMMS, e.RiskPct, severityLabel(e.Severity))
	}
	return tw.Flush()
}
