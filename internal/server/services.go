package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/thoth-om/maskd/internal/db"
	"github.com/thoth-om/maskd/internal/overlay"
	"github.com/thoth-om/maskd/internal/telemetry"
	"github.com/thoth-om/maskd/internal/utils"
)

// defaultCatalog seeds a fresh data dir with a minimal pantheon.
const defaultCatalog = `agents:
  - id: crown_verifier
    name: Crown Verifier
    role: verify outputs before shipping
  - id: clarity_scribe
    name: Clarity Scribe
    role: rewrite for voice clarity
  - id: harmonizer_prime
    name: Harmonizer Prime
    role: rebalance the field axes
  - id: grounding_anchor
    name: Grounding Anchor
    role: pull plans back to concrete next actions
  - id: seal_keeper
    name: Seal Keeper
    role: close and seal finished threads
`

type Services struct {
	DB        *sqlx.DB
	Telemetry *telemetry.Store
	Overlay   *overlay.Service
}

func NewServices(config *Config) (*Services, error) {
	database, err := db.NewSqliteDB(db.WithPath(config.TelemetryDBPath()))
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}

	telemetrySvc, err := telemetry.NewStore(database)
	if err != nil {
		database.Close()
		return nil, err
	}

	if err := seedCatalog(config.Overlay.CatalogPath); err != nil {
		database.Close()
		return nil, err
	}

	overlaySvc, err := overlay.NewService(config.Overlay.CatalogPath, config.Overlay.Policy, telemetrySvc)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &Services{
		DB:        database,
		Telemetry: telemetrySvc,
		Overlay:   overlaySvc,
	}, nil
}

func (s *Services) Shutdown(_ context.Context) error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("close telemetry db: %w", err)
	}
	return nil
}

func seedCatalog(path string) error {
	if utils.FileExists(path) {
		return nil
	}
	if err := utils.EnsureParent(path); err != nil {
		return fmt.Errorf("ensure catalog dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultCatalog), 0o644); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	slog.Info("seeded default overlay catalog", "path", path)
	return nil
}
