package components

import (
	"time"

	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
)

// CalendarAppliedMsg carries the days picked on the calendar. Visible lists
// every month page the operator looked at; Unpicked holds days that were
// selected when the calendar opened and no longer are.
type CalendarAppliedMsg struct {
	Picked   []time.Time
	Unpicked []time.Time
	Visible  []dates.Range
	Option   model.Option
}

// CalendarCancelledMsg closes the calendar without changes.
type CalendarCancelledMsg struct{}

// DeleteRequestedMsg asks to delete a saved offer after confirmation.
type DeleteRequestedMsg struct {
	ID int64
}

// ImageRequestedMsg asks for the image address of a saved offer.
type ImageRequestedMsg struct {
	ID int64
}

// RefreshRequestedMsg asks to reload the saved offers.
type RefreshRequestedMsg struct{}

// FieldChangedMsg sets a scalar field of the draft.
type FieldChangedMsg struct {
	Field draft.Field
	Value string
}

// OpenCalendarMsg opens the date picker of a route group.
type OpenCalendarMsg struct {
	Option model.Option
}

// DatesImportedMsg carries pasted date lines for a route group.
type DatesImportedMsg struct {
	Text   string
	Option model.Option
}

// ClearDatesMsg removes every date of a route group.
type ClearDatesMsg struct {
	Option model.Option
}

// ToggleSeatsMsg flips the seat display of a route group.
type ToggleSeatsMsg struct {
	Option model.Option
}

// PriceChangedMsg sets the columns of a price row.
type PriceChangedMsg struct {
	Values map[model.PriceField]string
	ID     string
	Option model.Option
}

// AddPriceMsg appends a blank price row.
type AddPriceMsg struct {
	Option model.Option
}

// RemovePriceMsg drops a price row.
type RemovePriceMsg struct {
	ID     string
	Option model.Option
}

// ToggleAlternateMsg shows or hides the second route group.
type ToggleAlternateMsg struct{}

// SubmitRequestedMsg asks to submit the draft.
type SubmitRequestedMsg struct{}

// InputErrorMsg reports input the form could not use.
type InputErrorMsg struct {
	Err error
}
