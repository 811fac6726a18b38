package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/offer-desk/internal/stats"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/Veraticus/offer-desk/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const nameWidth = 18

// DashboardModel shows the offer statistics.
type DashboardModel struct {
	theme  themes.Theme
	view   viewmodel.DashboardView
	bar    progress.Model
	width  int
	height int
}

// NewDashboardModel creates an empty dashboard.
func NewDashboardModel(theme themes.Theme) DashboardModel {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Primary)),
		progress.WithoutPercentage(),
	)
	bar.Width = 24

	return DashboardModel{
		theme: theme,
		view:  viewmodel.NewDashboardView(stats.Summary{}),
		bar:   bar,
		width: 80,
	}
}

// SetSummary replaces the statistics on display.
func (m *DashboardModel) SetSummary(s stats.Summary) {
	m.view = viewmodel.NewDashboardView(s)
}

// Resize updates the dashboard dimensions.
func (m *DashboardModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(10, min(40, width/2-nameWidth-8))
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.Resize(size.Width, size.Height)
	}
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	cards := make([]string, 0, len(m.view.Cards))
	for _, c := range m.view.Cards {
		cards = append(cards, m.theme.RoundedBox.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.Faint.Render(c.Label),
			m.theme.Bold.Render(c.Value),
		)))
	}
	sections := []string{lipgloss.JoinHorizontal(lipgloss.Top, cards...)}

	if m.view.IsEmpty() {
		sections = append(sections, "", m.theme.Faint.Render("Nenhuma oferta cadastrada ainda."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	panels := make([]string, 0, len(m.view.Rankings))
	for _, r := range m.view.Rankings {
		panels = append(panels, m.renderRanking(r))
	}

	// two columns when there is room
	if m.width >= 2*(nameWidth+m.bar.Width+14) {
		for i := 0; i < len(panels); i += 2 {
			row := panels[i:min(i+2, len(panels))]
			sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, row...))
		}
	} else {
		sections = append(sections, panels...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderRanking(r viewmodel.Ranking) string {
	lines := []string{m.theme.Subtitle.Render(r.Title)}
	if len(r.Bars) == 0 {
		lines = append(lines, m.theme.Faint.Render("Sem dados."))
	}
	for i, b := range r.Bars {
		lines = append(lines, fmt.Sprintf("%d. %-*s %s %3d %s",
			i+1,
			nameWidth, truncate(b.Name, nameWidth),
			m.bar.ViewAs(b.Ratio()),
			b.Count,
			m.theme.Faint.Render(fmt.Sprintf("%.0f%%", b.Percent)),
		))
	}
	return m.theme.Box.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
