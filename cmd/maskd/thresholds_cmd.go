package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoth-om/maskd/internal/lunar"
	"github.com/thoth-om/maskd/internal/mask"
)

func init() {
	rootCmd.AddCommand(newThresholdsCmd())
}

func newThresholdsCmd() *cobra.Command {
	var in, out, iso string
	var capsMin, capsMax float64

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Apply the current lunar nudges to a thresholds file",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serverConfig()
			if err != nil {
				return err
			}

			thresholds, err := mask.LoadThresholds(in)
			if err != nil {
				return fmt.Errorf("load %s: %w", in, err)
			}

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
			if caps == nil {
				caps = &cfg.Lunar.Caps
			}

			cmd.SilenceUsage = true
			adjusted := thresholds
			note := "lunar disabled, thresholds unchanged"
			if cfg.Lunar.Enabled {
				sample := lunar.Snapshot(at, caps)
				adjusted = thresholds.Adjusted(sample.Nudges)
				note = fmt.Sprintf("phase %s", cyan(sample.PhaseName))
			}

			if out != "" {
				if err := adjusted.Save(out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s (%s)\n", green("✔"), out, note)
				return nil
			}

			data, err := yaml.Marshal(adjusted)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "engine/thresholds.yaml", "Thresholds file to adjust")
	cmd.Flags().StringVar(&out, "out", "", "Write the adjusted document here instead of stdout")
	cmd.Flags().StringVar(&iso, "iso", "", "Sample the lunar phase at an RFC3339 time instead of now")
	cmd.Flags().Float64Var(&capsMin, "caps-min", 0, "Lower clamp for nudges")
	cmd.Flags().Float64Var(&capsMax, "caps-max", 0, "Upper clamp for nudges")
	return cmd
}
