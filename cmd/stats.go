package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show content statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(ctx, c.String("config"))
		},
	}
}

// showStats displays per-category and total item counts
func showStats(ctx context.Context, configPath string) error {
	_, store, agg, err := openAggregator(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	stats, err := agg.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	fmt.Println(titleStyle.Render("Content statistics"))
	for _, d := range catalog.Categories() {
		fmt.Printf("%-10s %d\n", d.Name, stats.Categories[d.Name])
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Total: %d items", stats.TotalItems)))
	return nil
}
