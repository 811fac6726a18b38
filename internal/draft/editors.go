package draft

import (
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/model"
)

// DateSelection returns the date state of a route group.
func (c *Controller) DateSelection(opt model.Option) (model.DateSelection, error) {
	i, err := c.slot(opt)
	if err != nil {
		return model.DateSelection{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dates[i].State(), nil
}

// DateLabel is the picker caption for a route group.
func (c *Controller) DateLabel(opt model.Option) string {
	i, err := c.slot(opt)
	if err != nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dates[i].Label()
}

// DefaultSeats returns the seat count new dates of a route group receive.
func (c *Controller) DefaultSeats(opt model.Option) int {
	i, err := c.slot(opt)
	if err != nil {
		return dates.DefaultSeats
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dates[i].DefaultSeats()
}

// SetDefaultSeats changes the seat count for dates added from now on.
func (c *Controller) SetDefaultSeats(opt model.Option, n int) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.SetDefaultSeats(n)
	})
}

// ApplyCalendar reconciles a route group with the dates picked on a calendar
// page covering visible.
func (c *Controller) ApplyCalendar(opt model.Option, picked []time.Time, visible dates.Range) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.ApplyCalendarSelection(picked, visible)
	})
}

// AddDate adds one date by hand.
func (c *Controller) AddDate(opt model.Option, date time.Time, seats int) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.AddDate(date, seats)
	})
}

// ImportDates parses pasted "DD/MM/YYYY seats" lines into a route group.
// It returns common.ErrNoValidDates when no line could be read.
func (c *Controller) ImportDates(opt model.Option, raw string) (int, error) {
	var count int
	err := c.withDates(opt, func(s *dates.Selection) {
		count, _ = s.ImportFromText(raw)
	})
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, common.NewUserError("Nenhuma data válida encontrada.", common.ErrNoValidDates)
	}
	return count, nil
}

// UpdateSeats sets the seat count of one date.
func (c *Controller) UpdateSeats(opt model.Option, date string, seats int) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.UpdateSeats(date, seats)
	})
}

// UpdateSeatsText is UpdateSeats for raw input.
func (c *Controller) UpdateSeatsText(opt model.Option, date, raw string) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.UpdateSeatsText(date, raw)
	})
}

// RemoveDate drops one date.
func (c *Controller) RemoveDate(opt model.Option, date string) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.RemoveDate(date)
	})
}

// ClearDates removes every date of a route group.
func (c *Controller) ClearDates(opt model.Option) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.ClearAll()
	})
}

// ToggleShowSeats flips the seat display of a route group.
func (c *Controller) ToggleShowSeats(opt model.Option) error {
	return c.withDates(opt, func(s *dates.Selection) {
		s.ToggleShowSeats()
	})
}

// PriceRows returns the rows of a route group, including the unsaved blank
// row a fresh group starts with.
func (c *Controller) PriceRows(opt model.Option) ([]model.PriceRow, error) {
	i, err := c.slot(opt)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prices[i].List(), nil
}

// AddPriceRow appends a blank row and returns it.
func (c *Controller) AddPriceRow(opt model.Option) (model.PriceRow, error) {
	i, err := c.slot(opt)
	if err != nil {
		return model.PriceRow{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.prices[i].AddRow()
	if opt == model.OptionAlternate {
		c.alternate = true
	}
	return rows[len(rows)-1], nil
}

// RemovePriceRow drops a row by id.
func (c *Controller) RemovePriceRow(opt model.Option, id string) error {
	i, err := c.slot(opt)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[i].RemoveRow(id)
	return nil
}

// UpdatePrice sets one column of a price row.
func (c *Controller) UpdatePrice(opt model.Option, id string, field model.PriceField, value string) error {
	i, err := c.slot(opt)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[i].UpdateField(id, field, value)
	return nil
}

func (c *Controller) withDates(opt model.Option, fn func(s *dates.Selection)) error {
	i, err := c.slot(opt)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.dates[i])
	return nil
}
