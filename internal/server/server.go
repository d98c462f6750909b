package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/thoth-om/maskd/internal/lunar"
	"github.com/thoth-om/maskd/internal/telemetry"
	"github.com/thoth-om/maskd/internal/utils"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	config   *Config
	services *Services
	server   *http.Server
	lock     *flock.Flock
	started  time.Time
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(config.DataDir); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	services, err := NewServices(config)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	return &Server{
		config:   config,
		services: services,
		started:  started,
		lock:     flock.New(config.LockPath()),
		server: &http.Server{
			Addr:    config.HTTP.Addr,
			Handler: SetupRoutes(config, services, started),
		},
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("maskd server start", "addr", s.config.HTTP.Addr, "data", s.config.DataDir)
	defer slog.Info("maskd server stop")

	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another maskd instance holds %s", s.config.LockPath())
	}
	defer s.lock.Unlock()

	if err := s.services.Overlay.Watch(ctx); err != nil {
		slog.Warn("overlay catalog watch unavailable", "error", err)
	}

	s.logLunarStartup(ctx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.runHTTPServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.Stop(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.services.Shutdown(shutdownCtx)
}

func (s *Server) runHTTPServer() error {
	if s.config.HTTP.CertFile != "" && s.config.HTTP.KeyFile != "" {
		slog.Info("server start tls", "addr", s.config.HTTP.Addr)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server start http", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}

// logLunarStartup records the lunar sample active at boot so the telemetry
// stream shows which nudges applied to the session.
func (s *Server) logLunarStartup(ctx context.Context) {
	if !s.config.Lunar.Enabled || !s.config.Lunar.Log {
		return
	}

	sample := lunar.Snapshot(time.Time{}, &s.config.Lunar.Caps)
	detail := map[string]any{
		"enabled":        true,
		"mode":           s.config.Lunar.Mode,
		"phase_fraction": sample.PhaseFraction,
		"phase_name":     sample.PhaseName,
	}
	for lever, v := range sample.Nudges {
		detail["nudge_"+lever] = v
	}

	err := s.services.Telemetry.Record(ctx, &telemetry.Event{
		Kind:   telemetry.KindLunarNudge,
		Detail: detail,
	})
	if err != nil {
		slog.Error("record lunar sample", "error", err)
	}
}
