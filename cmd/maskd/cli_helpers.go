package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoth-om/maskd/internal/db"
	"github.com/thoth-om/maskd/internal/lunar"
	"github.com/thoth-om/maskd/internal/server"
	"github.com/thoth-om/maskd/internal/telemetry"
)

// localStore opens the telemetry store of the configured data dir for
// commands that run against local state instead of the daemon API.
func localStore(cmd *cobra.Command) (*server.Config, *telemetry.Store, func(), error) {
	if err := loadConfig(cmd); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := serverConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	database, err := db.NewSqliteDB(db.WithPath(cfg.TelemetryDBPath()))
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := telemetry.NewStore(database)
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	return cfg, store, func() { database.Close() }, nil
}

// capsFromFlags builds the caps override from the --caps-min/--caps-max
// pair. Returns nil when neither flag is set.
func capsFromFlags(capsMin, capsMax float64) (*lunar.Caps, error) {
	if capsMin == 0 && capsMax == 0 {
		return nil, nil
	}
	if capsMin == 0 || capsMax == 0 {
		return nil, errors.New("--caps-min and --caps-max must be set together")
	}
	if capsMin > capsMax {
		return nil, fmt.Errorf("caps: min %v > max %v", capsMin, capsMax)
	}
	return &lunar.Caps{Min: capsMin, Max: capsMax}, nil
}
