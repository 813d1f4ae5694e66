package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/feedback"
)

func newEvaluateCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [file]",
		Short: "Score a campaign configuration",
		Long: `Reads a campaign configuration as JSON from file, or from stdin when no
file is given, and prints the feedback as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return evaluate(in, cmd.OutOrStdout())
		},
	}
}

func evaluate(in io.Reader, out io.Writer) error {
	var cfg domain.CampaignConfig
	if err := json.NewDecoder(in).Decode(&cfg); err != nil {
		return fmt.Errorf("read campaign config: %w", err)
	}
	fb, err := feedback.Evaluate(cfg)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(fb)
}
