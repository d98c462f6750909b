package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newTurnCmd())
}

func newTurnCmd() *cobra.Command {
	var samples int64

	cmd := &cobra.Command{
		Use:   "turn COHERENCE MIRROR_RESIDUAL",
		Short: "Record the telemetry of a finished turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coherence, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse coherence: %w", err)
			}
			mirror, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("parse mirror residual: %w", err)
			}

			cfg, store, closeStore, err := localStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			cmd.SilenceUsage = true
			if _, err := store.RecordTurn(cmd.Context(), coherence, mirror, samples); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s logged turn: coh=%v mir=%v samples=%d -> %s\n",
				green("✔"), coherence, mirror, samples, cfg.TelemetryDBPath())
			return nil
		},
	}

	cmd.Flags().Int64Var(&samples, "samples", 1, "Number of samples in this turn")
	return cmd
}
