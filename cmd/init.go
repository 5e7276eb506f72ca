package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/KhaledTDev/islamhouse/pkg/config"
	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration and database",
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(ctx, c.String("config"))
		},
	}
}

// initConfig writes the configuration template and creates the
// per-category tables.
func initConfig(ctx context.Context, configPath string) error {
	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)

	store, err := storage.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeStore(store)

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	fmt.Printf("Database initialized at %s\n", cfg.DatabasePath)
	return nil
}
