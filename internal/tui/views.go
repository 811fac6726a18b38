package tui

import (
	"strings"

	"github.com/Veraticus/offer-desk/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view.State {
	case viewmodel.StateLoading:
		return m.renderLoading()
	case viewmodel.StateError:
		return m.renderError()
	}

	body := m.renderBody()
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		body,
		m.renderStatusBar(),
		m.help.View(m.keymap),
	)
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("✈ Ofertas"),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Carregando…"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderError renders a fatal load error.
func (m Model) renderError() string {
	content := m.theme.RoundedBox.
		BorderForeground(m.theme.Error).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.theme.StatusError.Render("✗ "+m.view.Error),
			"",
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Pressione q para sair."),
		))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderTabs renders the tab header.
func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(viewmodel.Tabs))
	for _, t := range viewmodel.Tabs {
		if t == m.view.Active {
			tabs = append(tabs, m.theme.TabActive.Render(t.Title()))
			continue
		}
		tabs = append(tabs, m.theme.Tab.Render(t.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

// renderBody renders the active tab, or the calendar while it is open.
func (m Model) renderBody() string {
	var content string
	switch {
	case m.calendar != nil:
		content = m.calendar.View()
	case m.view.Active == viewmodel.TabHistory:
		content = m.historyList.View()
	case m.view.Active == viewmodel.TabDraft:
		content = m.form.View()
	default:
		content = m.dashboard.View()
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(content)
}

// renderStatusBar renders the status message and the autosave state.
func (m Model) renderStatusBar() string {
	var left string
	if m.view.StatusMessage != "" {
		style := m.theme.StatusInfo
		switch m.statusKind {
		case statusSuccess:
			style = m.theme.StatusSuccess
		case statusPending:
			style = m.theme.StatusPending
		case statusError:
			style = m.theme.StatusError
		}
		left = style.Render(m.view.StatusMessage)
	}

	var right string
	switch m.view.Save {
	case viewmodel.SaveFailed:
		right = m.theme.StatusError.Render(m.view.Save.Label())
	case viewmodel.SavePending:
		right = m.theme.StatusPending.Render(m.view.Save.Label())
	default:
		right = lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.view.Save.Label())
	}

	spacing := max(1, m.width-2-lipgloss.Width(left)-lipgloss.Width(right))
	return " " + left + strings.Repeat(" ", spacing) + right
}
