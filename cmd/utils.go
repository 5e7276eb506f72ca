package cmd

import (
	"fmt"

	"github.com/KhaledTDev/islamhouse/pkg/aggregator"
	"github.com/KhaledTDev/islamhouse/pkg/config"
	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

// openAggregator loads the configuration and wires the storage-backed
// aggregator used by the read-only CLI commands. The caller closes the
// returned store.
func openAggregator(configPath string) (*config.Config, *storage.Store, *aggregator.Aggregator, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	agg := aggregator.New(store, aggregator.WithCategoryTimeout(cfg.CategoryTimeout.Duration))
	return cfg, store, agg, nil
}

func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		fmt.Printf("Warning: failed to close database: %v\n", err)
	}
}
