// Package draft owns the offer form: two route groups of dates and prices
// merged into one draft that is autosaved to a key/value store and submitted
// to the backend.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/Veraticus/offer-desk/internal/service"
	"github.com/go-playground/validator/v10"
)

// Defaults for Config.
const (
	DefaultCacheKey = "flightpro_register_cache"
	DefaultDebounce = 500 * time.Millisecond
)

// Backend is what the controller needs from the REST backend.
type Backend interface {
	GetConfig(ctx context.Context) (model.BackendConfig, error)
	CreateOffer(ctx context.Context, draft model.OfferDraft) error
}

// Config holds the controller settings. Zero values take the defaults.
type Config struct {
	Today        func() time.Time
	AfterFunc    AfterFunc
	IDs          pricing.IDGenerator
	OnWrite      func(err error) // called after every autosave
	CacheKey     string
	Debounce     time.Duration
	DefaultSeats int
}

func (c Config) withDefaults() Config {
	if c.CacheKey == "" {
		c.CacheKey = DefaultCacheKey
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Today == nil {
		c.Today = time.Now
	}
	if c.AfterFunc == nil {
		c.AfterFunc = realAfterFunc
	}
	if c.IDs == nil {
		c.IDs = pricing.UUIDGenerator{}
	}
	if c.DefaultSeats < 1 {
		c.DefaultSeats = dates.DefaultSeats
	}
	return c
}

// Controller owns one offer draft.
type Controller struct {
	store     service.KeyValueStore
	backend   Backend
	validate  *validator.Validate
	debouncer *Debouncer
	dates     [2]*dates.Selection
	prices    [2]*pricing.Rows
	reference model.BackendConfig
	cfg       Config
	draft     model.OfferDraft
	mu        sync.Mutex
	mounted   bool
	alternate bool
	dirty     bool
}

// New creates a controller holding a default draft. Nothing is autosaved
// until Mount has run.
func New(store service.KeyValueStore, backend Backend, cfg Config) *Controller {
	c := &Controller{
		store:    store,
		backend:  backend,
		validate: newValidator(),
		cfg:      cfg.withDefaults(),
	}
	c.debouncer = NewDebouncer(c.cfg.Debounce, c.cfg.AfterFunc, c.autosave)
	c.draft = c.defaultDraft()
	c.rebuild()
	return c
}

// Mount loads the reference data and restores the cached draft. A cached
// draft is decoded over the defaults so fields it lacks keep their default.
// A corrupt cache entry is logged and ignored.
func (c *Controller) Mount(ctx context.Context) error {
	ref, err := c.backend.GetConfig(ctx)
	if err != nil {
		return common.NewUserError("Erro ao carregar configurações.", fmt.Errorf("failed to load config: %w", err))
	}

	raw, err := c.store.Get(ctx, c.cfg.CacheKey)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to read draft cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.reference = ref
	c.draft = c.defaultDraft()
	c.alternate = false

	switch {
	case raw != nil:
		restored, decodeErr := decodeDraft(raw, c.defaultDraft())
		if decodeErr != nil {
			common.LogWarn("Ignoring corrupt draft cache", common.Fields{
				"key":   c.cfg.CacheKey,
				"error": decodeErr.Error(),
			})
			break
		}
		c.draft = restored
		c.alternate = restored.HasAlternate()
	case len(ref.Templates) > 0:
		c.draft.SelectedBG = ref.Templates[0]
	}

	c.rebuild()
	c.mounted = true
	return nil
}

func decodeDraft(raw []byte, base model.OfferDraft) (model.OfferDraft, error) {
	if err := json.Unmarshal(raw, &base); err != nil {
		return model.OfferDraft{}, fmt.Errorf("%w: %w", common.ErrCorruptCache, err)
	}
	if base.Prices1 == nil {
		base.Prices1 = []model.PriceRow{}
	}
	if base.Prices2 == nil {
		base.Prices2 = []model.PriceRow{}
	}
	return base, nil
}

// Mounted reports whether Mount has completed.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Reference returns the programs, currencies and templates loaded by Mount.
func (c *Controller) Reference() model.BackendConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reference
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() model.OfferDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// AlternateOpen reports whether the second route group is shown.
func (c *Controller) AlternateOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alternate
}

// ToggleAlternate shows or hides the second route group. Hiding it keeps its data.
func (c *Controller) ToggleAlternate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alternate = !c.alternate
	return c.alternate
}

// SetField updates one scalar field of the draft.
func (c *Controller) SetField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setField(&c.draft, field, value); err != nil {
		return err
	}
	if field == FieldOrigin2 || field == FieldDestination2 {
		if value != "" {
			c.alternate = true
		}
	}
	c.changed()
	return nil
}

// Pending reports whether an autosave is scheduled.
func (c *Controller) Pending() bool {
	return c.debouncer.Pending()
}

// Flush writes a scheduled autosave immediately.
func (c *Controller) Flush(ctx context.Context) error {
	if !c.debouncer.Cancel() {
		return nil
	}
	return c.writeCache(ctx)
}

// Close flushes a scheduled autosave and stops the timer. Later changes are
// kept in memory only.
func (c *Controller) Close(ctx context.Context) error {
	err := c.Flush(ctx)
	c.debouncer.Stop()
	return err
}

// Submit validates the draft and creates the offer. On success the pending
// autosave is cancelled, the cache entry deleted and the form reset. On
// failure the draft and the cache are left as they were.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	snapshot := c.draft.Clone()
	c.mu.Unlock()

	if err := validateDraft(c.validate, snapshot); err != nil {
		return err
	}

	if err := c.backend.CreateOffer(ctx, snapshot); err != nil {
		return common.NewUserError("Erro ao salvar oferta.", err)
	}

	c.mu.Lock()
	c.debouncer.Cancel()
	if err := c.store.Delete(ctx, c.cfg.CacheKey); err != nil {
		common.LogError(err, "Failed to clear draft cache", common.Fields{"key": c.cfg.CacheKey})
	}
	c.reset()
	c.mu.Unlock()

	common.LogInfo("Offer created", common.Fields{
		"origin":      snapshot.Origin,
		"destination": snapshot.Destination,
	})
	return nil
}

// Discard deletes the cache entry and resets the form to its defaults. It
// does not need a mounted controller.
func (c *Controller) Discard(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.debouncer.Cancel()
	if err := c.store.Delete(ctx, c.cfg.CacheKey); err != nil {
		return fmt.Errorf("failed to clear draft cache: %w", err)
	}
	c.reset()
	return nil
}

func (c *Controller) reset() {
	c.draft = c.defaultDraft()
	if len(c.reference.Templates) > 0 {
		c.draft.SelectedBG = c.reference.Templates[0]
	}
	c.alternate = false
	c.dirty = false
	c.rebuild()
}

func (c *Controller) defaultDraft() model.OfferDraft {
	return model.NewOfferDraft(c.cfg.Today())
}

// rebuild recreates the sub-models from the draft. Callers hold c.mu.
func (c *Controller) rebuild() {
	for i, opt := range []model.Option{model.OptionPrimary, model.OptionAlternate} {
		defaultSeats := c.cfg.DefaultSeats
		if c.dates[i] != nil {
			defaultSeats = c.dates[i].DefaultSeats()
		}
		c.dates[i] = dates.New(c.draft.Dates(opt),
			dates.WithDefaultSeats(defaultSeats),
			dates.WithOnChange(c.datesChanged(opt)))
		c.prices[i] = pricing.New(c.draft.Prices(opt),
			pricing.WithIDGenerator(c.cfg.IDs),
			pricing.WithSeedID(seedRowID(opt)),
			pricing.WithOnChange(c.pricesChanged(opt)))
	}
}

// seedRowID names the blank row of a group that has no saved rows. The
// row lives outside the draft until edited, so its id must not depend on
// when the sub-model was built.
func seedRowID(opt model.Option) string {
	return strconv.Itoa(int(opt))
}

// datesChanged merges a date selection into the draft. Sub-models are only
// mutated by controller methods, so the hook runs with c.mu held.
func (c *Controller) datesChanged(opt model.Option) dates.ChangeFunc {
	return func(summary string, state model.DateSelection) {
		if opt == model.OptionAlternate {
			c.draft.Dates2, c.draft.Dates2Raw = summary, state
		} else {
			c.draft.Dates1, c.draft.Dates1Raw = summary, state
		}
		c.changed()
	}
}

func (c *Controller) pricesChanged(opt model.Option) pricing.ChangeFunc {
	return func(rows []model.PriceRow) {
		if opt == model.OptionAlternate {
			c.draft.Prices2 = rows
		} else {
			c.draft.Prices1 = rows
		}
		c.changed()
	}
}

// changed marks the draft dirty and restarts the autosave countdown.
func (c *Controller) changed() {
	c.dirty = true
	if c.mounted {
		c.debouncer.Trigger()
	}
}

func (c *Controller) autosave() {
	err := c.writeCache(context.Background())
	if err != nil {
		common.LogError(err, "Draft autosave failed", common.Fields{"key": c.cfg.CacheKey})
	}
	if c.cfg.OnWrite != nil {
		c.cfg.OnWrite(err)
	}
}

// writeCache stores the draft. The lock is held across the write so a
// concurrent Submit or Discard cannot interleave with it.
func (c *Controller) writeCache(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted || !c.dirty {
		return nil
	}

	data, err := json.Marshal(c.draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := c.store.Set(ctx, c.cfg.CacheKey, data); err != nil {
		return fmt.Errorf("failed to write draft cache: %w", err)
	}
	c.dirty = false

	common.LogDebug("Draft saved", common.Fields{"key": c.cfg.CacheKey, "bytes": len(data)})
	return nil
}

func (c *Controller) slot(opt model.Option) (int, error) {
	switch opt {
	case model.OptionPrimary:
		return 0, nil
	case model.OptionAlternate:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %d", common.ErrUnknownOption, opt)
	}
}
