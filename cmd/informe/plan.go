package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/informe"
	"github.com/flanksource/informe/api"
	"github.com/flanksource/informe/layout"
	"github.com/samber/lo"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cell         = func(w int) lipgloss.Style { return lipgloss.NewStyle().Width(w) }
)

// renderPlan prints one line per grid row and photo row with the page it
// landed on, grouped by section.
func renderPlan(report api.Report, result *layout.Result) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render(fmt.Sprintf("%s: %d pages", report.Title, result.Pages)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		cell(28).Render("SECTION"), cell(8).Render("ROW"), cell(6).Render("PAGE"), cell(9).Render("Y"), cell(9).Render("HEIGHT"), "NOTE")))
	sb.WriteString("\n")

	rows := lo.GroupBy(result.Rows, func(r layout.RowPlacement) int { return r.SectionIndex })
	photos := lo.GroupBy(result.Photos, func(p layout.PhotoPlacement) int { return p.SectionIndex })

	for i, section := range report.Sections {
		name := section.Title
		if runes := []rune(name); len(runes) > 26 {
			name = string(runes[:23]) + layout.Ellipsis
		}
		if len(rows[i]) == 0 {
			sb.WriteString(cell(28).Render(name) + mutedStyle.Render("(title only)") + "\n")
		}
		for _, row := range rows[i] {
			note := ""
			if row.Clamped {
				note = warnStyle.Render("clamped")
			}
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				cell(28).Render(name),
				cell(8).Render(fmt.Sprintf("%d", row.Index+1)),
				cell(6).Render(fmt.Sprintf("%d", row.Page)),
				cell(9).Render(fmt.Sprintf("%.1f", row.Y)),
				cell(9).Render(fmt.Sprintf("%.1f", row.Height)),
				note))
			sb.WriteString("\n")
			name = ""
		}
		byRow := lo.GroupBy(photos[i], func(p layout.PhotoPlacement) int { return p.Row })
		keys := lo.Keys(byRow)
		sort.Ints(keys)
		for _, r := range keys {
			tiles := byRow[r]
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				cell(28).Render(""),
				cell(8).Render(fmt.Sprintf("photo %d", r+1)),
				cell(6).Render(fmt.Sprintf("%d", tiles[0].Page)),
				cell(9).Render(fmt.Sprintf("%.1f", tiles[0].Tile.Y)),
				cell(9).Render(""),
				mutedStyle.Render(fmt.Sprintf("%d tiles", len(tiles)))))
			sb.WriteString("\n")
		}
	}

	if len(result.Failures) > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d photos skipped:", len(result.Failures))))
		sb.WriteString("\n")
		for _, f := range result.Failures {
			sb.WriteString(fmt.Sprintf("  %s %s: %v\n", f.Section, f.Ref, f.Err))
		}
	}
	return sb.String()
}

func renderSummary(doc *informe.Document, paths []string) string {
	var sb strings.Builder
	sb.WriteString(okStyle.Render(fmt.Sprintf("✓ %d pages, %d photos", doc.Layout.Pages, len(doc.Layout.Photos))))
	if n := len(doc.Layout.Failures); n > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf(", %d skipped", n)))
	}
	for _, p := range paths {
		sb.WriteString("\n  " + p)
	}
	return sb.String()
}
