// Package viewmodel turns domain data into display-ready values for the TUI.
package viewmodel

// AppState represents the overall application state.
type AppState int

const (
	// StateLoading indicates data is still being fetched.
	StateLoading AppState = iota
	// StateReady indicates the application is ready for input.
	StateReady
	// StateError indicates loading failed.
	StateError
)

// Tab identifies a top-level screen.
type Tab int

const (
	TabDashboard Tab = iota
	TabHistory
	TabDraft
)

// Tabs lists the screens in display order.
var Tabs = []Tab{TabDashboard, TabHistory, TabDraft}

// Title returns the tab caption.
func (t Tab) Title() string {
	switch t {
	case TabDashboard:
		return "Painel"
	case TabHistory:
		return "Histórico"
	case TabDraft:
		return "Nova oferta"
	default:
		return ""
	}
}

// Next returns the tab after t, wrapping around.
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// Prev returns the tab before t, wrapping around.
func (t Tab) Prev() Tab {
	return Tabs[(int(t)+len(Tabs)-1)%len(Tabs)]
}

// SaveState is the autosave indicator of the draft form.
type SaveState int

const (
	SaveIdle SaveState = iota
	SavePending
	SaveDone
	SaveFailed
)

// Label returns the indicator text.
func (s SaveState) Label() string {
	switch s {
	case SavePending:
		return "salvando…"
	case SaveDone:
		return "rascunho salvo"
	case SaveFailed:
		return "falha ao salvar rascunho"
	default:
		return ""
	}
}

// AppView summarizes the application for the status bar.
type AppView struct {
	Error         string
	StatusMessage string
	State         AppState
	Active        Tab
	Save          SaveState
}

// IsReady returns true if the application is ready for user interaction.
func (av AppView) IsReady() bool {
	return av.State == StateReady
}

// HasError returns true if the application has a global error.
func (av AppView) HasError() bool {
	return av.Error != ""
}
