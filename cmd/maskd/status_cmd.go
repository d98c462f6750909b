package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/server"
	"github.com/thoth-om/maskd/internal/server/handlers/health"
	"github.com/thoth-om/maskd/internal/version"
)

var userAgent = fmt.Sprintf("maskd/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Ping a running maskd daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			client := req.C().
				SetTimeout(3 * time.Second).
				SetUserAgent(userAgent)

			var status health.Status
			resp, err := client.R().
				SetContext(cmd.Context()).
				SetSuccessResult(&status).
				Get("http://" + addr + "/health")
			if err != nil {
				return fmt.Errorf("%s daemon unreachable at %s: %w", red("✖"), addr, err)
			}
			if !resp.IsSuccessState() {
				return fmt.Errorf("%s unexpected response: %s", red("✖"), resp.Status)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s alive at %s (ts %d)\n",
				green("✔"), cyan(status.Service), addr, status.TS)
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", server.DefaultAddr, "Daemon address")
	return cmd
}
