package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/server"
)

func init() {
	rootCmd.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the maskd daemon",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := serverConfig()
			if err != nil {
				return err
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}

			cmd.SilenceUsage = true
			defer slog.Info("Bye!")
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	cmd.Flags().StringP("datadir", "d", server.DefaultDataDir, "maskd data directory")
	cmd.Flags().String("catalog", "", "Overlay catalog file (defaults to pantheon.yaml in the data dir)")
	return cmd
}
