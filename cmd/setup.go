package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, then initializes the state database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing state database", "path", config.State.Path)

	db, err := shared.OpenState(config.State)
	if err != nil {
		return fmt.Errorf("failed to initialize state database: %w", err)
	}
	defer db.Close()

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}
	r.logger.Info("setup complete", "path", config.State.Path, "schema", version)
	return nil
}
