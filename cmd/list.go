package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ListCommand creates the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List categories, or the items of one category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category to list items from",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if category := c.String("category"); category != "" {
				return listItems(ctx, c.String("config"), category, c.Int("page"))
			}
			return listCategories(ctx, c.String("config"))
		},
	}
}

// listCategories prints every category that has at least one item
func listCategories(ctx context.Context, configPath string) error {
	_, store, agg, err := openAggregator(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	infos, err := agg.Categories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	fmt.Println(titleStyle.Render("Categories"))
	if len(infos) == 0 {
		fmt.Println(noDataStyle.Render("No content available"))
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%s %s\n",
			headerStyle.Render(info.DisplayName),
			metaStyle.Render(fmt.Sprintf("%s, %d items", info.Name, info.Count)))
	}
	return nil
}

// listItems prints one page of a category
func listItems(ctx context.Context, configPath, category string, page int) error {
	_, store, agg, err := openAggregator(configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	result, err := agg.ListCategory(ctx, category, "", page)
	if err != nil {
		return fmt.Errorf("listing %s: %w", category, err)
	}

	renderPage(category, result)
	return nil
}
