package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/offer-desk/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// loadOffers reloads the saved offers and the reference data.
func (m Model) loadOffers() tea.Cmd {
	if m.history == nil {
		return func() tea.Msg {
			return offersLoadedMsg{err: fmt.Errorf("%w: offer history", common.ErrMissingConfig)}
		}
	}
	history, timeout := m.history, m.config.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return offersLoadedMsg{err: history.Load(ctx)}
	}
}

// mountDraft restores the cached draft unless that already happened.
func (m Model) mountDraft() tea.Cmd {
	if m.draft == nil {
		return func() tea.Msg {
			return draftMountedMsg{err: fmt.Errorf("%w: draft controller", common.ErrMissingConfig)}
		}
	}
	ctrl, timeout := m.draft, m.config.Timeout
	return func() tea.Msg {
		if ctrl.Mounted() {
			return draftMountedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return draftMountedMsg{err: ctrl.Mount(ctx)}
	}
}

// deleteOffer removes a saved offer.
func (m Model) deleteOffer(id int64) tea.Cmd {
	history, timeout := m.history, m.config.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{id: id, err: history.Delete(ctx, id)}
	}
}

// submitDraft sends the draft to the backend.
func (m Model) submitDraft() tea.Cmd {
	ctrl, timeout := m.draft, m.config.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
}

// discardDraft resets the draft and forgets the cached copy.
func (m Model) discardDraft() tea.Cmd {
	ctrl, timeout := m.draft, m.config.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return discardDoneMsg{err: ctrl.Discard(ctx)}
	}
}
