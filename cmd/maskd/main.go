package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/thoth-om/maskd/internal/guard"
	"github.com/thoth-om/maskd/internal/overlay"
)

func main() {
	// Setup logger
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

// Preflight-style failures keep the loader-compatible exit code 2.
func exitCode(err error) int {
	var mismatch *guard.MismatchError
	switch {
	case errors.As(err, &mismatch),
		errors.Is(err, guard.ErrNoFingerprint),
		errors.Is(err, overlay.ErrUnknownAgent):
		return 2
	default:
		return 1
	}
}
