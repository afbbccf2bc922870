package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openshelf/openshelf/pkg/book"
	"github.com/openshelf/openshelf/pkg/detail"
	"github.com/openshelf/openshelf/pkg/session"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	bookTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	favoriteStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
)

// formatBookCard renders one record as a bordered card.
func formatBookCard(b book.Book, favorite bool) string {
	var sb strings.Builder

	title := b.Title
	if b.Subtitle != "" {
		title = fmt.Sprintf("%s: %s", b.Title, b.Subtitle)
	}
	if favorite {
		title = favoriteStyle.Render("★ ") + bookTitleStyle.Render(title)
	} else {
		title = bookTitleStyle.Render(title)
	}
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(b.AuthorLine())

	var meta []string
	if b.FirstPublishYear > 0 {
		meta = append(meta, fmt.Sprintf("first published %d", b.FirstPublishYear))
	}
	if b.EditionCount > 0 {
		meta = append(meta, fmt.Sprintf("%d editions", b.EditionCount))
	}
	if b.EbookCount > 0 {
		meta = append(meta, fmt.Sprintf("%d ebooks", b.EbookCount))
	}
	if b.Rating > 0 {
		meta = append(meta, fmt.Sprintf("rated %.1f", b.Rating))
	}
	if len(meta) > 0 {
		sb.WriteString("\n")
		sb.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
	}
	sb.WriteString("\n")
	sb.WriteString(metaStyle.Render(b.Key))

	return cardStyle.Render(sb.String())
}

// formatDetail renders the full projection of one record.
func formatDetail(d detail.Detail, favorite bool) string {
	var sb strings.Builder

	header := d.Title
	if d.Subtitle != "" {
		header = fmt.Sprintf("%s: %s", d.Title, d.Subtitle)
	}
	if favorite {
		header = favoriteStyle.Render("★ ") + header
	}
	sb.WriteString(titleStyle.Render(header))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("by %s\n", strings.Join(orUnknown(d.Authors), ", ")))

	if len(d.Years) > 0 {
		years := make([]string, len(d.Years))
		for i, y := range d.Years {
			years[i] = fmt.Sprintf("%d", y)
		}
		sb.WriteString(fmt.Sprintf("Published: %s\n", strings.Join(years, ", ")))
	}
	if len(d.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(d.Languages, ", ")))
	}
	if len(d.Subjects) > 0 {
		sb.WriteString(fmt.Sprintf("Subjects: %s\n", strings.Join(d.Subjects, ", ")))
	}
	if d.Editions > 0 {
		sb.WriteString(fmt.Sprintf("Editions: %d\n", d.Editions))
	}
	if d.Rating > 0 {
		sb.WriteString(fmt.Sprintf("Rating: %.1f\n", d.Rating))
	}

	sb.WriteString("\n")
	sb.WriteString(metaStyle.Render(d.Citation))
	sb.WriteString("\n")
	sb.WriteString(urlStyle.Render(d.URL))
	sb.WriteString("\n")

	return sb.String()
}

// formatFacets renders the facet lists below search results.
func formatFacets(f session.Facets) string {
	var sb strings.Builder
	if len(f.Languages) > 0 {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("Languages: %s", strings.Join(f.Languages, ", "))))
		sb.WriteString("\n")
	}
	if len(f.Subjects) > 0 {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("Subjects: %s", strings.Join(f.Subjects, ", "))))
		sb.WriteString("\n")
	}
	if len(f.Publishers) > 0 {
		sb.WriteString(metaStyle.Render(fmt.Sprintf("Publishers: %s", strings.Join(f.Publishers, ", "))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func orUnknown(names []string) []string {
	if len(names) == 0 {
		return []string{"Unknown"}
	}
	return names
}
