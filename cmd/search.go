package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search content across all categories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search term (empty lists everything)",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Restrict the search to one category",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return searchContent(ctx, c.String("config"), c.String("query"), c.String("category"), c.Int("page"))
		},
	}
}

// searchContent runs a federated or single-category search and renders
// the resulting page.
func searchContent(ctx context.Context, configPath, query, category string, page int) error {
	_, store, agg, err := openAggregator(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if category != "" {
		result, err := agg.ListCategory(ctx, category, query, page)
		if err != nil {
			return fmt.Errorf("searching %s: %w", category, err)
		}
		renderPage(fmt.Sprintf("Search results: %s", category), result)
		return nil
	}

	result, err := agg.ListAll(ctx, query, page)
	if err != nil {
		return fmt.Errorf("searching all categories: %w", err)
	}
	renderPage("Search results: all categories", result)
	return nil
}
