package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/overlay"
)

func init() {
	rootCmd.AddCommand(newOverlayCmd())
}

func newOverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Inspect and invoke overlay agents",
	}
	cmd.AddCommand(newOverlayListCmd(), newOverlayRunCmd())
	return cmd
}

func newOverlayListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the agents in the overlay catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeStore, err := localStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			svc, err := overlay.NewService(cfg.Overlay.CatalogPath, cfg.Overlay.Policy, store)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true
			for _, agent := range svc.Agents() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n", cyan(agent.ID), agent.Name, agent.Role)
			}
			return nil
		},
	}
}

func newOverlayRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run AGENT MESSAGE...",
		Short: "Queue an overlay invocation against local state",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, closeStore, err := localStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			svc, err := overlay.NewService(cfg.Overlay.CatalogPath, cfg.Overlay.Policy, store)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true
			receipt, err := svc.Invoke(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("%s %w", red("✖"), err)
			}

			data, err := json.MarshalIndent(receipt, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
