package tui

// Data loading messages.
type offersLoadedMsg struct {
	err error
}

type draftMountedMsg struct {
	err error
}

// Async operation messages.
type deleteDoneMsg struct {
	err error
	id  int64
}

type submitDoneMsg struct {
	err error
}

type discardDoneMsg struct {
	err error
}

// draftSavedMsg reports a finished autosave.
type draftSavedMsg struct {
	err error
}

// statusKind selects the style of the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusPending
	statusError
)
