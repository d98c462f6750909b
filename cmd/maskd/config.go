package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoth-om/maskd/internal/overlay"
	"github.com/thoth-om/maskd/internal/server"
)

// loadConfig wires the config file, environment and flags into viper.
func loadConfig(cmd *cobra.Command) error {
	// local .env is optional
	_ = godotenv.Load()

	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".maskd"))
		viper.AddConfigPath(filepath.Join(home, ".config/maskd"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	if f := cmd.Flags().Lookup("bind"); f != nil {
		viper.BindPFlag("addr", f)
	}
	if f := cmd.Flags().Lookup("datadir"); f != nil {
		viper.BindPFlag("data_dir", f)
	}
	if f := cmd.Flags().Lookup("catalog"); f != nil {
		viper.BindPFlag("overlay.catalog", f)
	}

	viper.SetEnvPrefix("MASKD")
	viper.AutomaticEnv()

	return nil
}

// serverConfig assembles the daemon config from viper.
func serverConfig() (*server.Config, error) {
	var policy overlay.Policy
	if err := viper.UnmarshalKey("overlay.policy", &policy); err != nil {
		return nil, fmt.Errorf("overlay policy: %w", err)
	}

	cfg := &server.Config{
		HTTP: server.HTTPConfig{
			Addr:     viper.GetString("addr"),
			CertFile: viper.GetString("cert_file"),
			KeyFile:  viper.GetString("key_file"),
		},
		ServiceName: viper.GetString("service_name"),
		DataDir:     viper.GetString("data_dir"),
		RateLimit:   viper.GetString("rate_limit"),
		Lunar: server.LunarConfig{
			Enabled: viper.GetBool("lunar.enabled"),
			Mode:    viper.GetString("lunar.mode"),
			Log:     viper.GetBool("lunar.log"),
		},
		Overlay: server.OverlayConfig{
			CatalogPath: viper.GetString("overlay.catalog"),
			Policy:      policy,
		},
	}
	cfg.Lunar.Caps.Min = viper.GetFloat64("lunar.caps.min")
	cfg.Lunar.Caps.Max = viper.GetFloat64("lunar.caps.max")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
