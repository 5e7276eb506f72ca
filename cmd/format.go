package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	itemStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

func renderItem(item catalog.ContentItem) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s", headerStyle.Render(item.Title), metaStyle.Render("#"+item.ID)))
	if item.DescriptionShort != "" {
		b.WriteString("\n" + item.DescriptionShort)
	}

	var meta []string
	meta = append(meta, item.Type)
	if item.PreparedBy != "" {
		meta = append(meta, item.PreparedBy)
	}
	if !item.AddDate.IsZero() {
		meta = append(meta, item.AddDate.Format("2006-01-02"))
	}
	if len(item.Attachments) > 0 {
		meta = append(meta, fmt.Sprintf("%d attachments", len(item.Attachments)))
	}
	b.WriteString("\n" + metaStyle.Render(strings.Join(meta, " · ")))

	return itemStyle.Render(b.String())
}

func renderPage(title string, page catalog.Page) {
	fmt.Println(titleStyle.Render(title))

	if len(page.Items) == 0 {
		fmt.Println(noDataStyle.Render("No results found"))
		return
	}

	for _, item := range page.Items {
		fmt.Println(renderItem(item))
	}

	footer := fmt.Sprintf("Page %d of %d (%d items total)", page.CurrentPage, page.TotalPages, page.TotalItems)
	if page.Degraded {
		footer += " [degraded]"
	}
	fmt.Println(metaStyle.Render(footer))
}
