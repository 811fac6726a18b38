package draft

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/Veraticus/offer-desk/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

// manualTimers is an AfterFunc whose timers only fire when told to.
type manualTimers struct {
	timers []*manualTimer
	mu     sync.Mutex
}

type manualTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (m *manualTimers) AfterFunc(_ time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{f: f}
	m.timers = append(m.timers, t)
	return t
}

// FireAll runs every live timer and returns how many fired.
func (m *manualTimers) FireAll() int {
	m.mu.Lock()
	var live []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			live = append(live, t)
		}
	}
	m.mu.Unlock()

	for _, t := range live {
		t.f()
	}
	return len(live)
}

// FireStale runs timers that were already stopped, as a late runtime
// callback would.
func (m *manualTimers) FireStale() {
	m.mu.Lock()
	var stale []*manualTimer
	for _, t := range m.timers {
		if t.stopped {
			stale = append(stale, t)
		}
	}
	m.mu.Unlock()

	for _, t := range stale {
		t.f()
	}
}

type fakeBackend struct {
	configErr error
	createErr error
	config    model.BackendConfig
	created   []model.OfferDraft
	mu        sync.Mutex
}

func (f *fakeBackend) GetConfig(_ context.Context) (model.BackendConfig, error) {
	return f.config, f.configErr
}

func (f *fakeBackend) CreateOffer(_ context.Context, d model.OfferDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, d)
	return nil
}

// countingStore wraps a memory store and counts writes.
type countingStore struct {
	*storage.MemoryStorage
	sets int
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	s.sets++
	return s.MemoryStorage.Set(ctx, key, value)
}

type harness struct {
	ctrl    *Controller
	store   *countingStore
	backend *fakeBackend
	timers  *manualTimers
}

func newHarness(t *testing.T, cached string) *harness {
	t.Helper()
	h := &harness{
		store:   &countingStore{MemoryStorage: storage.NewMemoryStorage()},
		backend: &fakeBackend{config: model.BackendConfig{Templates: []string{"azul_ceu.png", "noite.png"}}},
		timers:  &manualTimers{},
	}
	if cached != "" {
		require.NoError(t, h.store.MemoryStorage.Set(context.Background(), DefaultCacheKey, []byte(cached)))
	}
	h.ctrl = New(h.store, h.backend, Config{
		Today:     func() time.Time { return testToday },
		AfterFunc: h.timers.AfterFunc,
		IDs:       pricing.NewSequenceGenerator("row"),
	})
	require.NoError(t, h.ctrl.Mount(context.Background()))
	return h
}

func (h *harness) cached(t *testing.T) (model.OfferDraft, bool) {
	t.Helper()
	raw, err := h.store.Get(context.Background(), DefaultCacheKey)
	if errors.Is(err, common.ErrNotFound) {
		return model.OfferDraft{}, false
	}
	require.NoError(t, err)
	var d model.OfferDraft
	require.NoError(t, json.Unmarshal(raw, &d))
	return d, true
}

func TestMount_NoCacheUsesFirstTemplate(t *testing.T) {
	h := newHarness(t, "")

	d := h.ctrl.Draft()
	assert.Equal(t, "azul_ceu.png", d.SelectedBG)
	assert.Equal(t, model.FlightTypeBusiness, d.FlightType)
	assert.Equal(t, "2026-05-10", d.SearchDate)
	assert.True(t, d.Dates1Raw.ShowSeats)
	assert.False(t, h.ctrl.AlternateOpen())
	assert.False(t, h.ctrl.Pending(), "mounting must not schedule a write")
}

func TestMount_PartialCacheKeepsDefaults(t *testing.T) {
	h := newHarness(t, `{"origin":"GRU"}`)

	d := h.ctrl.Draft()
	assert.Equal(t, "GRU", d.Origin)
	assert.Equal(t, model.FlightTypeBusiness, d.FlightType)
	assert.Equal(t, "2026-05-10", d.SearchDate)
	assert.Empty(t, d.SelectedBG, "a cached draft keeps its own template choice")
	assert.Equal(t, []model.DateEntry{}, d.Dates1Raw.List)
	assert.True(t, d.Dates2Raw.ShowSeats)
	assert.Equal(t, []model.PriceRow{}, d.Prices1)
	assert.False(t, h.ctrl.AlternateOpen())
}

func TestMount_LegacyDatesAndNumericIDs(t *testing.T) {
	h := newHarness(t, `{
		"origin":"GRU",
		"dates_1_raw":[{"date":"2026-05-20","seats":1},{"date":"2026-05-15","seats":2}],
		"prices_1":[{"id":1715000000000,"miles":120000,"prog_id":3,"tax":"55.30","curr_id":1}]
	}`)

	sel, err := h.ctrl.DateSelection(model.OptionPrimary)
	require.NoError(t, err)
	assert.True(t, sel.ShowSeats)
	require.Len(t, sel.List, 2)
	assert.Equal(t, "2026-05-15", sel.List[0].Date)

	rows, err := h.ctrl.PriceRows(model.OptionPrimary)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.FlexString("1715000000000"), rows[0].ID)
	assert.Equal(t, model.FlexString("120000"), rows[0].Miles)
}

func TestMount_OpensAlternate(t *testing.T) {
	tests := []struct {
		name   string
		cached string
		want   bool
	}{
		{name: "origin_2", cached: `{"origin_2":"MIA"}`, want: true},
		{name: "destination_2", cached: `{"destination_2":"GRU"}`, want: true},
		{name: "prices_2", cached: `{"prices_2":[{"id":"a"}]}`, want: true},
		{name: "empty prices_2", cached: `{"prices_2":[]}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.cached)
			assert.Equal(t, tt.want, h.ctrl.AlternateOpen())
		})
	}
}

func TestMount_CorruptCacheIgnored(t *testing.T) {
	h := newHarness(t, `{"origin":`)

	d := h.ctrl.Draft()
	assert.Empty(t, d.Origin)
	assert.Equal(t, model.FlightTypeBusiness, d.FlightType)

	_, err := decodeDraft([]byte(`{"origin":`), model.OfferDraft{})
	assert.ErrorIs(t, err, common.ErrCorruptCache)
}

func TestMount_ConfigFailure(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctrl := New(store, &fakeBackend{configErr: common.ErrBackend}, Config{})

	err := ctrl.Mount(context.Background())
	require.ErrorIs(t, err, common.ErrBackend)
	assert.False(t, ctrl.Mounted())

	// Nothing is autosaved before a successful mount.
	require.NoError(t, ctrl.SetField(FieldOrigin, "GRU"))
	assert.False(t, ctrl.Pending())
}

func TestAutosave_DebouncesBursts(t *testing.T) {
	var writes []error
	h := newHarness(t, "")
	h.ctrl.cfg.OnWrite = func(err error) { writes = append(writes, err) }

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "g"))
	require.NoError(t, h.ctrl.SetField(FieldOrigin, "gr"))
	require.NoError(t, h.ctrl.SetField(FieldOrigin, "gru"))
	assert.True(t, h.ctrl.Pending())
	assert.Equal(t, 0, h.store.sets)

	assert.Equal(t, 1, h.timers.FireAll())
	assert.Equal(t, 1, h.store.sets)
	assert.Equal(t, []error{nil}, writes)

	d, ok := h.cached(t)
	require.True(t, ok)
	assert.Equal(t, "GRU", d.Origin)

	// Superseded timers calling back late write nothing.
	h.timers.FireStale()
	assert.Equal(t, 1, h.store.sets)
}

func TestAutosave_DateChangesMergeIntoDraft(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	_, err := h.ctrl.ImportDates(model.OptionPrimary, "15/05/2026\t2\n20/05/2026")
	require.NoError(t, err)
	require.NoError(t, h.ctrl.ToggleShowSeats(model.OptionPrimary))
	require.NoError(t, h.ctrl.Flush(ctx))

	d, ok := h.cached(t)
	require.True(t, ok)
	assert.Equal(t, "MAI: 15, 20", d.Dates1)
	assert.False(t, d.Dates1Raw.ShowSeats)
	require.Len(t, d.Dates1Raw.List, 2)
	assert.Equal(t, 2, d.Dates1Raw.List[0].Seats)
	assert.False(t, h.ctrl.Pending())
}

func TestAutosave_PriceChangesMergeIntoDraft(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	rows, err := h.ctrl.PriceRows(model.OptionPrimary)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.FlexString("1"), rows[0].ID)

	require.NoError(t, h.ctrl.UpdatePrice(model.OptionPrimary, "1", model.FieldMiles, "120000"))
	added, err := h.ctrl.AddPriceRow(model.OptionAlternate)
	require.NoError(t, err)
	assert.True(t, h.ctrl.AlternateOpen())
	require.NoError(t, h.ctrl.UpdatePrice(model.OptionAlternate, added.ID.String(), model.FieldTax, "55.30"))
	require.NoError(t, h.ctrl.Flush(ctx))

	d, ok := h.cached(t)
	require.True(t, ok)
	require.Len(t, d.Prices1, 1)
	assert.Equal(t, model.FlexString("120000"), d.Prices1[0].Miles)
	require.Len(t, d.Prices2, 2)
	assert.Equal(t, model.FlexString("55.30"), d.Prices2[1].Tax)
}

func TestPriceRows_BlankRowIDSurvivesRemount(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	first, err := h.ctrl.PriceRows(model.OptionPrimary)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.NoError(t, h.ctrl.Close(ctx))

	next := New(h.store, h.backend, Config{
		Today:     func() time.Time { return testToday },
		AfterFunc: h.timers.AfterFunc,
		IDs:       pricing.NewSequenceGenerator("other"),
	})
	require.NoError(t, next.Mount(ctx))
	again, err := next.PriceRows(model.OptionPrimary)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, first[0].ID, again[0].ID)

	require.NoError(t, next.UpdatePrice(model.OptionPrimary, first[0].ID.String(), model.FieldMiles, "120000"))
	require.NoError(t, next.Flush(ctx))

	d, ok := h.cached(t)
	require.True(t, ok)
	require.Len(t, d.Prices1, 1)
	assert.Equal(t, first[0].ID, d.Prices1[0].ID)
	assert.Equal(t, model.FlexString("120000"), d.Prices1[0].Miles)
	assert.Empty(t, d.Prices2)
}

func TestPriceRows_UnknownIDChangesNothing(t *testing.T) {
	h := newHarness(t, `{"prices_1":[{"id":"a","miles":"1000"}]}`)

	require.NoError(t, h.ctrl.UpdatePrice(model.OptionPrimary, "missing", model.FieldMiles, "5"))
	require.NoError(t, h.ctrl.RemovePriceRow(model.OptionPrimary, "missing"))
	assert.False(t, h.ctrl.Pending())

	rows, err := h.ctrl.PriceRows(model.OptionPrimary)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.FlexString("1000"), rows[0].Miles)
}

func TestEditors_UnknownOption(t *testing.T) {
	h := newHarness(t, "")

	err := h.ctrl.ClearDates(model.Option(3))
	assert.ErrorIs(t, err, common.ErrUnknownOption)
	_, err = h.ctrl.AddPriceRow(model.Option(0))
	assert.ErrorIs(t, err, common.ErrUnknownOption)
}

func TestImportDates_NoValidRows(t *testing.T) {
	h := newHarness(t, "")

	n, err := h.ctrl.ImportDates(model.OptionPrimary, "nothing here\n31-12-2026")
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, common.ErrNoValidDates)
	assert.False(t, h.ctrl.Pending())
}

func TestApplyCalendar(t *testing.T) {
	h := newHarness(t, "")
	may := dates.MonthRange(2026, time.May)

	require.NoError(t, h.ctrl.SetDefaultSeats(model.OptionPrimary, 3))
	require.NoError(t, h.ctrl.ApplyCalendar(model.OptionPrimary, []time.Time{
		time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
	}, may))

	d := h.ctrl.Draft()
	assert.Equal(t, "MAI: 15(3), 20(3)", d.Dates1)
	assert.Equal(t, "2 datas selecionadas", h.ctrl.DateLabel(model.OptionPrimary))
}

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "gru"))
	require.NoError(t, h.ctrl.SetField(FieldDestination, "MIA"))
	require.NoError(t, h.ctrl.Flush(ctx))
	require.NoError(t, h.ctrl.SetField(FieldOperator, "Latam"))
	require.True(t, h.ctrl.Pending())

	require.NoError(t, h.ctrl.Submit(ctx))

	require.Len(t, h.backend.created, 1)
	assert.Equal(t, "GRU", h.backend.created[0].Origin)
	assert.Equal(t, "Latam", h.backend.created[0].Operator)

	_, ok := h.cached(t)
	assert.False(t, ok, "cache entry must be gone")
	assert.False(t, h.ctrl.Pending())

	// A timer that was already due writes nothing.
	h.timers.FireStale()
	_, ok = h.cached(t)
	assert.False(t, ok)

	// The form is back to defaults, and so is a fresh mount.
	assert.Empty(t, h.ctrl.Draft().Origin)
	reloaded := New(h.store, h.backend, Config{Today: func() time.Time { return testToday }})
	require.NoError(t, reloaded.Mount(ctx))
	assert.Equal(t, h.ctrl.Draft(), reloaded.Draft())
}

func TestSubmit_ValidationFailure(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "GRUU"))
	require.NoError(t, h.ctrl.Flush(ctx))

	err := h.ctrl.Submit(ctx)
	require.ErrorIs(t, err, common.ErrInvalidDraft)
	msg := common.UserMessage(err)
	assert.Contains(t, msg, "Origem deve ter no máximo 3 caracteres")
	assert.Contains(t, msg, "Destino é obrigatório")
	assert.Empty(t, h.backend.created)

	d, ok := h.cached(t)
	require.True(t, ok)
	assert.Equal(t, "GRUU", d.Origin)
}

func TestSubmit_InvalidFlightType(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "GRU"))
	require.NoError(t, h.ctrl.SetField(FieldDestination, "MIA"))
	require.NoError(t, h.ctrl.SetField(FieldFlightType, "Ônibus"))

	err := h.ctrl.Submit(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidDraft)
	assert.Contains(t, common.UserMessage(err), "Classe")
}

func TestSubmit_BackendFailureLeavesState(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	h.backend.createErr = common.ErrBackend

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "GRU"))
	require.NoError(t, h.ctrl.SetField(FieldDestination, "MIA"))
	require.NoError(t, h.ctrl.Flush(ctx))
	require.NoError(t, h.ctrl.SetField(FieldOperator, "Azul"))

	err := h.ctrl.Submit(ctx)
	require.ErrorIs(t, err, common.ErrBackend)
	assert.Equal(t, "Erro ao salvar oferta.", common.UserMessage(err))

	assert.Equal(t, "Azul", h.ctrl.Draft().Operator)
	assert.True(t, h.ctrl.Pending(), "pending autosave survives a failed submit")

	h.timers.FireAll()
	d, ok := h.cached(t)
	require.True(t, ok)
	assert.Equal(t, "Azul", d.Operator)
}

func TestDiscard(t *testing.T) {
	h := newHarness(t, `{"origin":"GRU","origin_2":"MIA"}`)
	ctx := context.Background()

	require.NoError(t, h.ctrl.SetField(FieldOperator, "Gol"))
	require.NoError(t, h.ctrl.Discard(ctx))

	_, ok := h.cached(t)
	assert.False(t, ok)
	d := h.ctrl.Draft()
	assert.Empty(t, d.Origin)
	assert.Equal(t, "azul_ceu.png", d.SelectedBG)
	assert.False(t, h.ctrl.AlternateOpen())
	assert.Equal(t, 0, h.timers.FireAll())
}

func TestDiscard_WithoutMount(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, DefaultCacheKey, []byte(`{"origin":"GRU"}`)))
	backend := &fakeBackend{configErr: errors.New("offline")}

	ctrl := New(store, backend, Config{AfterFunc: (&manualTimers{}).AfterFunc})
	require.NoError(t, ctrl.Discard(ctx))

	_, err := store.Get(ctx, DefaultCacheKey)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, ctrl.Draft().Origin)
}

func TestClose_FlushesAndStops(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "GRU"))
	require.NoError(t, h.ctrl.Close(ctx))

	d, ok := h.cached(t)
	require.True(t, ok)
	assert.Equal(t, "GRU", d.Origin)

	require.NoError(t, h.ctrl.SetField(FieldOrigin, "GIG"))
	assert.False(t, h.ctrl.Pending())
	h.timers.FireStale()
	d, _ = h.cached(t)
	assert.Equal(t, "GRU", d.Origin)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{in: "origin", want: FieldOrigin},
		{in: "Template", want: FieldTemplate},
		{in: "flight-type", want: FieldFlightType},
		{in: "airline", want: FieldOperator},
		{in: "prices_1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnknownField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
