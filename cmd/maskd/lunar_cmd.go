package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/lunar"
)

func init() {
	rootCmd.AddCommand(newLunarCmd())
}

func newLunarCmd() *cobra.Command {
	var iso string
	var capsMin, capsMax float64

	cmd := &cobra.Command{
		Use:   "lunar",
		Short: "Print the current lunar phase and nudges",
		RunE: func(cmd *cobra.Command, args []string) error {
			var at time.Time
			if iso != "" {
				parsed, err := time.Parse(time.RFC3339, iso)
				if err != nil {
					return fmt.Errorf("parse --iso: %w", err)
				}
				at = parsed
			}

			caps, err := capsFromFlags(capsMin, capsMax)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(lunar.Snapshot(at, caps), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&iso, "iso", "", "Sample at an RFC3339 time instead of now")
	cmd.Flags().Float64Var(&capsMin, "caps-min", 0, "Lower clamp for nudges")
	cmd.Flags().Float64Var(&capsMax, "caps-max", 0, "Upper clamp for nudges")
	return cmd
}
