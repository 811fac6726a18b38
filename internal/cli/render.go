package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/offer-desk/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

// BarWidth is the width of a full ranking bar in cells.
const BarWidth = 30

// RenderRanking renders a ranked list with proportional bars.
func RenderRanking(title string, counts []stats.Count, summary stats.Summary) string {
	var b strings.Builder
	b.WriteString(BoldStyle.Render(title))
	b.WriteString("\n")

	if len(counts) == 0 {
		b.WriteString(SubtleStyle.Render("  Sem dados."))
		return b.String()
	}

	width := 0
	for _, c := range counts {
		width = max(width, lipgloss.Width(c.Name))
	}

	for i, c := range counts {
		cells := int(summary.Share(c.Count) / 100 * BarWidth)
		if cells == 0 && c.Count > 0 {
			cells = 1
		}
		bar := ProgressStyle.Render(strings.Repeat("█", cells))
		fmt.Fprintf(&b, "  %d. %-*s %s %d\n", i+1, width, c.Name, bar, c.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSummaryCards renders the headline numbers of the dashboard.
func RenderSummaryCards(summary stats.Summary) string {
	card := BoxStyle.Padding(0, 2)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render(SubtleStyle.Render("Total de ofertas")+"\n"+BoldStyle.Render(fmt.Sprint(summary.Total))),
		card.Render(SubtleStyle.Render("Rota mais comum")+"\n"+BoldStyle.Render(summary.TopRoute())),
		card.Render(SubtleStyle.Render("Cia mais comum")+"\n"+BoldStyle.Render(summary.TopOperator())),
	)
}

// RenderDashboard renders the cards followed by every ranking.
func RenderDashboard(summary stats.Summary) string {
	return strings.Join([]string{
		FormatTitle("Painel"),
		RenderSummaryCards(summary),
		"",
		RenderRanking("Rotas mais buscadas", summary.TopRoutes, summary),
		"",
		RenderRanking("Companhias", summary.TopOperators, summary),
		"",
		RenderRanking("Origens", summary.TopOrigins, summary),
		"",
		RenderRanking("Destinos", summary.TopDestinations, summary),
	}, "\n")
}
