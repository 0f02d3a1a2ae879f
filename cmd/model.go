package cmd

import (
	"fmt"
	"strings"

	"github.com/inovspin/inovspin/internal/model"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect classifier artifacts",
}

var modelInspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Validate an artifact and print its summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Model.Path
		if len(args) == 1 {
			path = args[0]
		}

		forest, art, err := model.Load(path)
		if err != nil {
			return err
		}

		s := forest.Summary()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Artifact:   %s\n", path)
		fmt.Fprintf(out, "Format:     %s (%s)\n", art.FormatVersion, art.Kind)
		if art.Description != "" {
			fmt.Fprintf(out, "About:      %s\n", art.Description)
		}
		fmt.Fprintf(out, "Features:   %s\n", strings.Join(art.FeatureNames, ", "))
		fmt.Fprintf(out, "Trees:      %d\n", s.Trees)
		fmt.Fprintf(out, "Nodes:      %d (%d leaves)\n", s.Nodes, s.Leaves)
		fmt.Fprintf(out, "Max depth:  %d\n", s.MaxDepth)
		return nil
	},
}

func init() {
	modelCmd.AddCommand(modelInspectCmd)
}
