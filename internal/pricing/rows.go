// Package pricing manages the price rows of an offer.
package pricing

import (
	"strconv"
	"sync/atomic"

	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/google/uuid"
)

// IDGenerator hands out row identifiers. Identifiers are never reused.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

// NextID returns a new random UUID.
func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

// SequenceGenerator issues "prefix-1", "prefix-2", ... in order.
type SequenceGenerator struct {
	prefix string
	next   atomic.Int64
}

// NewSequenceGenerator returns a monotonic generator.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NextID returns the next identifier in the sequence.
func (g *SequenceGenerator) NextID() string {
	return g.prefix + "-" + strconv.FormatInt(g.next.Add(1), 10)
}

// ChangeFunc receives the rows after every mutation.
type ChangeFunc func(rows []model.PriceRow)

// Rows is an ordered, never-empty list of price rows.
type Rows struct {
	ids      IDGenerator
	onChange ChangeFunc
	seedID   string
	rows     []model.PriceRow
}

// Option configures Rows.
type Option func(*Rows)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(r *Rows) {
		r.ids = ids
	}
}

// WithOnChange registers the owner's change hook.
func WithOnChange(fn ChangeFunc) Option {
	return func(r *Rows) {
		r.onChange = fn
	}
}

// WithSeedID fixes the id of the blank row an empty list starts with, so
// the same unsaved row keeps its id every time the list is rebuilt.
func WithSeedID(id string) Option {
	return func(r *Rows) {
		r.seedID = id
	}
}

// New creates Rows from saved rows. An empty list starts with one blank row,
// which is not reported to the owner until something changes.
func New(initial []model.PriceRow, opts ...Option) *Rows {
	r := &Rows{ids: UUIDGenerator{}}
	for _, opt := range opts {
		opt(r)
	}

	r.rows = append([]model.PriceRow{}, initial...)
	if len(r.rows) == 0 {
		seed := r.blank()
		if r.seedID != "" {
			seed.ID = model.FlexString(r.seedID)
		}
		r.rows = []model.PriceRow{seed}
	}
	return r
}

// List returns a copy of the rows.
func (r *Rows) List() []model.PriceRow {
	return append([]model.PriceRow{}, r.rows...)
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	return len(r.rows)
}

// Get returns the row with the given id.
func (r *Rows) Get(id string) (model.PriceRow, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.rows[i], true
	}
	return model.PriceRow{}, false
}

// AddRow appends a blank row.
func (r *Rows) AddRow() []model.PriceRow {
	r.rows = append(r.rows, r.blank())
	return r.commit()
}

// RemoveRow deletes a row by id. Removing the last row leaves one fresh
// blank row instead. Unknown ids change nothing and notify no one.
func (r *Rows) RemoveRow(id string) []model.PriceRow {
	i := r.indexOf(id)
	if i < 0 {
		return r.List()
	}

	if len(r.rows) == 1 {
		r.rows = []model.PriceRow{r.blank()}
	} else {
		r.rows = append(r.rows[:i:i], r.rows[i+1:]...)
	}
	return r.commit()
}

// UpdateField sets one column of a row. Unknown ids and fields change
// nothing and notify no one.
func (r *Rows) UpdateField(id string, field model.PriceField, value string) []model.PriceRow {
	i := r.indexOf(id)
	if i < 0 {
		return r.List()
	}

	row := &r.rows[i]
	switch field {
	case model.FieldMiles:
		row.Miles = model.FlexString(value)
	case model.FieldProgram:
		row.ProgramID = model.FlexString(value)
	case model.FieldCurrency:
		row.CurrencyID = model.FlexString(value)
	case model.FieldTax:
		row.Tax = model.FlexString(value)
	default:
		return r.List()
	}
	return r.commit()
}

func (r *Rows) blank() model.PriceRow {
	return model.PriceRow{ID: model.FlexString(r.ids.NextID())}
}

func (r *Rows) indexOf(id string) int {
	for i, row := range r.rows {
		if row.ID.String() == id {
			return i
		}
	}
	return -1
}

func (r *Rows) commit() []model.PriceRow {
	rows := r.List()
	if r.onChange != nil {
		r.onChange(rows)
	}
	return rows
}
