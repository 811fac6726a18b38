// Package dates manages the departure dates of an offer: calendar picks,
// pasted date lists and per-date seat counts.
package dates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/offer-desk/internal/model"
)

// DefaultSeats is the seat count given to new dates unless configured otherwise.
const DefaultSeats = 1

// ChangeFunc receives the rendered summary and the structured state after
// every mutation.
type ChangeFunc func(summary string, state model.DateSelection)

// Selection owns the dates of one route group.
type Selection struct {
	onChange     ChangeFunc
	state        model.DateSelection
	defaultSeats int
}

// Option configures a Selection.
type Option func(*Selection)

// WithDefaultSeats sets the seat count used for new dates.
func WithDefaultSeats(n int) Option {
	return func(s *Selection) {
		s.defaultSeats = coerceSeats(n)
	}
}

// WithOnChange registers the owner's change hook.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Selection) {
		s.onChange = fn
	}
}

// New creates a Selection seeded with a previously saved state.
func New(initial model.DateSelection, opts ...Option) *Selection {
	s := &Selection{
		state:        initial.Clone(),
		defaultSeats: DefaultSeats,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sort()
	return s
}

// State returns a copy of the current state, sorted by date.
func (s *Selection) State() model.DateSelection {
	return s.state.Clone()
}

// Summary renders the current state.
func (s *Selection) Summary() string {
	return RenderSummary(s.state)
}

// DefaultSeats returns the seat count given to new dates.
func (s *Selection) DefaultSeats() int {
	return s.defaultSeats
}

// SetDefaultSeats changes the seat count for dates added from now on.
// Values below one become one.
func (s *Selection) SetDefaultSeats(n int) {
	s.defaultSeats = coerceSeats(n)
}

// Len returns the number of selected dates.
func (s *Selection) Len() int {
	return len(s.state.List)
}

// Has reports whether the date is selected.
func (s *Selection) Has(date string) bool {
	return s.indexOf(date) >= 0
}

// Entry returns the entry for a date.
func (s *Selection) Entry(date string) (model.DateEntry, bool) {
	i := s.indexOf(date)
	if i < 0 {
		return model.DateEntry{}, false
	}
	return s.state.List[i], true
}

// Label is the short text shown on the picker trigger.
func (s *Selection) Label() string {
	switch n := len(s.state.List); n {
	case 0:
		return "Selecionar datas..."
	case 1:
		return "1 data selecionada"
	default:
		return fmt.Sprintf("%d datas selecionadas", n)
	}
}

// ApplyCalendarSelection reconciles the selection with the dates picked on a
// calendar showing the visible range. Picked dates that are new get the
// default seat count and existing ones keep theirs. Calendar entries inside
// the visible range that are no longer picked are dropped; imported and
// manual entries are never removed by the calendar.
func (s *Selection) ApplyCalendarSelection(picked []time.Time, visible Range) model.DateSelection {
	pickedSet := make(map[string]bool, len(picked))
	order := make([]string, 0, len(picked))
	for _, p := range picked {
		if p.IsZero() {
			continue
		}
		iso := p.Format(model.ISODateLayout)
		if !pickedSet[iso] {
			pickedSet[iso] = true
			order = append(order, iso)
		}
	}

	next := make([]model.DateEntry, 0, len(s.state.List)+len(order))
	for _, entry := range s.state.List {
		if pickedSet[entry.Date] {
			next = append(next, entry)
			delete(pickedSet, entry.Date)
			continue
		}
		if entry.Source == model.SourceCalendar && visible.ContainsISO(entry.Date) {
			continue
		}
		next = append(next, entry)
	}

	for _, iso := range order {
		if !pickedSet[iso] {
			continue
		}
		next = append(next, model.DateEntry{Date: iso, Seats: s.defaultSeats, Source: model.SourceCalendar})
	}

	s.state.List = next
	return s.commit()
}

// AddDate adds or updates a single date entered by hand.
func (s *Selection) AddDate(date time.Time, seats int) model.DateSelection {
	if date.IsZero() {
		return s.State()
	}
	iso := date.Format(model.ISODateLayout)
	if i := s.indexOf(iso); i >= 0 {
		s.state.List[i].Seats = coerceSeats(seats)
	} else {
		s.state.List = append(s.state.List, model.DateEntry{Date: iso, Seats: coerceSeats(seats), Source: model.SourceManual})
	}
	return s.commit()
}

// UpdateSeats sets the seat count of a date. Counts below one become one.
// Unknown dates are ignored.
func (s *Selection) UpdateSeats(date string, seats int) model.DateSelection {
	if i := s.indexOf(date); i >= 0 {
		s.state.List[i].Seats = coerceSeats(seats)
	}
	return s.commit()
}

// UpdateSeatsText is UpdateSeats for raw input; non-numeric text becomes one.
func (s *Selection) UpdateSeatsText(date, raw string) model.DateSelection {
	return s.UpdateSeats(date, ParseSeats(raw))
}

// RemoveDate drops a date from the selection.
func (s *Selection) RemoveDate(date string) model.DateSelection {
	if i := s.indexOf(date); i >= 0 {
		s.state.List = append(s.state.List[:i], s.state.List[i+1:]...)
	}
	return s.commit()
}

// ClearAll removes every date. The seat display preference is kept.
func (s *Selection) ClearAll() model.DateSelection {
	s.state.List = []model.DateEntry{}
	return s.commit()
}

// ToggleShowSeats flips whether seat counts appear in the summary.
func (s *Selection) ToggleShowSeats() model.DateSelection {
	s.state.ShowSeats = !s.state.ShowSeats
	return s.commit()
}

func (s *Selection) commit() model.DateSelection {
	s.sort()
	state := s.State()
	if s.onChange != nil {
		s.onChange(RenderSummary(state), state)
	}
	return state
}

func (s *Selection) sort() {
	if s.state.List == nil {
		s.state.List = []model.DateEntry{}
	}
	sort.SliceStable(s.state.List, func(i, j int) bool {
		return s.state.List[i].Date < s.state.List[j].Date
	})
}

func (s *Selection) indexOf(date string) int {
	for i, entry := range s.state.List {
		if entry.Date == date {
			return i
		}
	}
	return -1
}

// ParseSeats converts seat input to a count, falling back to one.
func ParseSeats(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return coerceSeats(n)
}

func coerceSeats(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
