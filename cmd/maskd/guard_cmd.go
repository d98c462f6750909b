package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/guard"
)

func init() {
	rootCmd.AddCommand(newGuardCmd())
}

func newGuardCmd() *cobra.Command {
	var root string
	var patterns []string

	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Pin and verify workspace fingerprints",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Fingerprint the pinned files and write " + guard.FingerprintFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			fp, err := guard.Pin(root, patterns)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pinned %d file(s) in %s\n", green("✔"), len(fp.Files), root)
			return nil
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the pinned files against the stored fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := guard.Verify(root)
			var mismatch *guard.MismatchError
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s fingerprint verified\n", green("✔"))
				return nil
			case errors.As(err, &mismatch):
				for _, path := range mismatch.Changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s changed: %s\n", red("✖"), path)
				}
				for _, path := range mismatch.Missing {
					fmt.Fprintf(cmd.OutOrStdout(), "%s missing: %s\n", red("✖"), path)
				}
				return err
			default:
				return err
			}
		},
	}

	cmd.PersistentFlags().StringVar(&root, "root", ".", "Workspace root to guard")
	cmd.PersistentFlags().StringSliceVar(&patterns, "pattern", guard.DefaultPatterns, "Glob patterns to pin")
	cmd.AddCommand(initCmd, verifyCmd)
	return cmd
}
