package server

import (
	"fmt"
	"path/filepath"

	"github.com/thoth-om/maskd/internal/lunar"
	"github.com/thoth-om/maskd/internal/overlay"
	"github.com/thoth-om/maskd/internal/utils"
	"github.com/thoth-om/maskd/internal/version"
)

const (
	DefaultAddr      = "127.0.0.1:7341"
	DefaultRateLimit = "120-M"
	DefaultDataDir   = "~/.maskd"
)

type Config struct {
	HTTP        HTTPConfig
	ServiceName string
	DataDir     string
	RateLimit   string
	Lunar       LunarConfig
	Overlay     OverlayConfig
}

type HTTPConfig struct {
	Addr     string
	CertFile string
	KeyFile  string
}

type LunarConfig struct {
	Enabled bool
	Mode    string // on_input or per_gate, informational for the mask policy
	Caps    lunar.Caps
	Log     bool
}

type OverlayConfig struct {
	CatalogPath string
	Policy      overlay.Policy
}

// Validate fills defaults and resolves paths.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		c.ServiceName = version.AppName
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.RateLimit == "" {
		c.RateLimit = DefaultRateLimit
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}

	dataDir, err := utils.ResolvePath(c.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	c.DataDir = dataDir

	if c.Lunar.Caps.Min == 0 && c.Lunar.Caps.Max == 0 {
		c.Lunar.Caps = lunar.DefaultCaps
	}
	if c.Lunar.Caps.Min > c.Lunar.Caps.Max {
		return fmt.Errorf("lunar caps: min %v > max %v", c.Lunar.Caps.Min, c.Lunar.Caps.Max)
	}

	if c.Overlay.CatalogPath == "" {
		c.Overlay.CatalogPath = filepath.Join(c.DataDir, "pantheon.yaml")
	}
	return nil
}

// TelemetryDBPath is the sqlite database under the data dir.
func (c *Config) TelemetryDBPath() string {
	return filepath.Join(c.DataDir, "telemetry.db")
}

// LockPath is the single-instance lock file under the data dir.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "maskd.lock")
}
