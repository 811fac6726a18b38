package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// ISODateLayout is the calendar date layout used for DateEntry values.
const ISODateLayout = "2006-01-02"

// EntrySource indicates how a date entry was added to a selection.
type EntrySource string

const (
	// SourceCalendar marks entries picked on the calendar.
	SourceCalendar EntrySource = "calendar"
	// SourceImport marks entries parsed from pasted text.
	SourceImport EntrySource = "import"
	// SourceManual marks entries added one at a time from the command line.
	SourceManual EntrySource = "manual"
)

// DateEntry is one departure date with its seat count.
type DateEntry struct {
	Date   string      `json:"date"`
	Source EntrySource `json:"source,omitempty"`
	Seats  int         `json:"seats"`
}

// Time parses the entry date. The boolean is false for malformed dates.
func (e DateEntry) Time() (time.Time, bool) {
	t, err := time.Parse(ISODateLayout, e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateSelection is the structured state of a date picker.
type DateSelection struct {
	List      []DateEntry `json:"list"`
	ShowSeats bool        `json:"showSeats"`
}

// NewDateSelection returns an empty selection that shows seat counts.
func NewDateSelection() DateSelection {
	return DateSelection{List: []DateEntry{}, ShowSeats: true}
}

// UnmarshalJSON accepts both the object form and the older bare-array form,
// which predates the showSeats preference.
func (s *DateSelection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = NewDateSelection()
		return nil
	}

	if data[0] == '[' {
		var list []DateEntry
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = DateSelection{List: list, ShowSeats: true}
		return nil
	}

	type plain DateSelection
	decoded := plain(NewDateSelection())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.List == nil {
		decoded.List = []DateEntry{}
	}
	*s = DateSelection(decoded)
	return nil
}

// Clone returns a deep copy of the selection.
func (s DateSelection) Clone() DateSelection {
	list := make([]DateEntry, len(s.List))
	copy(list, s.List)
	return DateSelection{List: list, ShowSeats: s.ShowSeats}
}
