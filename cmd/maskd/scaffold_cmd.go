package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/scaffold"
)

func init() {
	rootCmd.AddCommand(newScaffoldCmd())
}

func newScaffoldCmd() *cobra.Command {
	var specPath, out string

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Build a mask workspace from a scaffold spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := scaffold.LoadSpec(specPath)
			if err != nil {
				return fmt.Errorf("load %s: %w", specPath, err)
			}

			cmd.SilenceUsage = true
			written, err := scaffold.Build(spec, out)
			if err != nil {
				return err
			}

			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %d file(s) under %s\n", green("✔"), len(written), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", scaffold.DefaultSpecFile, "Scaffold spec file")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Workspace output directory")
	return cmd
}
