package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/Veraticus/offer-desk/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistoryMode is the input mode of the history list.
type HistoryMode int

// History list modes.
const (
	HistoryNormal HistoryMode = iota
	HistorySearch
	HistoryConfirmDelete
)

// HistoryListModel lists the saved offers with search and delete.
type HistoryListModel struct {
	theme       themes.Theme
	ref         model.BackendConfig
	records     []model.OfferRecord
	rows        []viewmodel.HistoryRow
	searchInput textinput.Model
	table       table.Model
	mode        HistoryMode
	confirmID   int64
	width       int
	height      int
}

// NewHistoryList creates an empty history list.
func NewHistoryList(theme themes.Theme) HistoryListModel {
	t := table.New(
		table.WithColumns(historyColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	searchInput := textinput.New()
	searchInput.Placeholder = "Buscar por origem, destino ou companhia"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 40

	return HistoryListModel{
		theme:       theme,
		table:       t,
		searchInput: searchInput,
		width:       80,
		height:      24,
	}
}

func historyColumns(width int) []table.Column {
	route := max(14, width/5)
	return []table.Column{
		{Title: "Data", Width: 16},
		{Title: "Rota", Width: route},
		{Title: "Companhia", Width: 12},
		{Title: "Classe", Width: 15},
		{Title: "Datas", Width: max(10, width-route-16-12-15-12)},
	}
}

// SetRecords replaces the offers on display, keeping the search term.
func (m *HistoryListModel) SetRecords(records []model.OfferRecord, ref model.BackendConfig) {
	m.records = records
	m.ref = ref
	m.refresh()
}

// Resize updates the list dimensions.
func (m *HistoryListModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(historyColumns(width))
	// search line, detail block and footer
	m.table.SetHeight(max(3, height-12))
}

// Mode returns the current input mode.
func (m HistoryListModel) Mode() HistoryMode {
	return m.mode
}

// Capturing reports whether key presses are consumed as text input.
func (m HistoryListModel) Capturing() bool {
	return m.mode != HistoryNormal
}

// Rows returns the rows matching the current search.
func (m HistoryListModel) Rows() []viewmodel.HistoryRow {
	return m.rows
}

// Selected returns the highlighted row.
func (m HistoryListModel) Selected() (viewmodel.HistoryRow, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return viewmodel.HistoryRow{}, false
	}
	return m.rows[i], true
}

func (m *HistoryListModel) refresh() {
	m.rows = viewmodel.NewHistoryRows(history.Filter(m.records, m.searchInput.Value()), m.ref)

	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		route := r.Route
		if r.AltRoute != "" {
			route += " / " + r.AltRoute
		}
		rows = append(rows, table.Row{r.Created, route, r.Operator, r.FlightType, r.Dates1})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Update handles messages.
func (m HistoryListModel) Update(msg tea.Msg) (HistoryListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case HistorySearch:
			return m.handleSearchMode(msg)
		case HistoryConfirmDelete:
			return m.handleConfirmMode(msg)
		default:
			return m.handleNormalMode(msg)
		}
	}
	return m, nil
}

func (m HistoryListModel) handleNormalMode(msg tea.KeyMsg) (HistoryListModel, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.mode = HistorySearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case "d", "delete":
		if row, ok := m.Selected(); ok {
			m.mode = HistoryConfirmDelete
			m.confirmID = row.ID
		}
		return m, nil

	case "enter", "o":
		if row, ok := m.Selected(); ok {
			id := row.ID
			return m, func() tea.Msg { return ImageRequestedMsg{ID: id} }
		}
		return m, nil

	case "r":
		return m, func() tea.Msg { return RefreshRequestedMsg{} }
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HistoryListModel) handleSearchMode(msg tea.KeyMsg) (HistoryListModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = HistoryNormal
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.mode = HistoryNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refresh()
	return m, cmd
}

func (m HistoryListModel) handleConfirmMode(msg tea.KeyMsg) (HistoryListModel, tea.Cmd) {
	id := m.confirmID
	m.mode = HistoryNormal
	m.confirmID = 0

	switch msg.String() {
	case "y", "s":
		return m, func() tea.Msg { return DeleteRequestedMsg{ID: id} }
	}
	return m, nil
}

// View renders the list and the detail of the highlighted offer.
func (m HistoryListModel) View() string {
	status := fmt.Sprintf("%d de %d ofertas", len(m.rows), len(m.records))
	if term := m.searchInput.Value(); term != "" && m.mode != HistorySearch {
		status += fmt.Sprintf(" | Busca: %q", term)
	}

	sections := []string{m.theme.Subtitle.Render(status)}
	if m.mode == HistorySearch {
		sections = append(sections, m.searchInput.View())
	}

	if len(m.rows) == 0 {
		sections = append(sections, "", m.theme.Faint.Render("Nenhuma oferta encontrada."))
	} else {
		sections = append(sections, m.table.View(), m.renderDetail())
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryListModel) renderDetail() string {
	row, ok := m.Selected()
	if !ok {
		return ""
	}

	lines := []string{
		m.theme.Bold.Render(fmt.Sprintf("#%d  %s", row.ID, row.Route)),
		"Datas:   " + row.Dates1,
		"Preços:  " + row.Prices1,
	}
	if row.HasAlternate() {
		lines = append(lines,
			m.theme.Bold.Render("Opção 2  "+row.AltRoute),
			"Datas:   "+row.Dates2,
			"Preços:  "+row.Prices2,
		)
	}
	return m.theme.RoundedBox.Width(max(20, m.width-4)).Render(strings.Join(lines, "\n"))
}

func (m HistoryListModel) renderFooter() string {
	switch m.mode {
	case HistorySearch:
		return m.theme.Faint.Render("[Enter] Confirmar busca  [Esc] Limpar")
	case HistoryConfirmDelete:
		return m.theme.StatusWarning.Render(fmt.Sprintf("Excluir a oferta #%d? [s/N]", m.confirmID))
	default:
		return m.theme.Faint.Render(strings.Join([]string{
			"[↑↓] Navegar",
			"[/] Buscar",
			"[Enter] Imagem",
			"[d] Excluir",
			"[r] Recarregar",
		}, "  "))
	}
}
