package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/utils"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the telemetry log as JSONL",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, closeStore, err := localStore(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			cmd.SilenceUsage = true
			if out == "" {
				return store.ExportJSONL(cmd.Context(), cmd.OutOrStdout())
			}

			if err := utils.EnsureParent(out); err != nil {
				return err
			}
			fd, err := os.Create(out)
			if err != nil {
				return err
			}
			defer fd.Close()

			if err := store.ExportJSONL(cmd.Context(), fd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s exported telemetry to %s\n", green("✔"), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}
