package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/Veraticus/offer-desk/internal/storage"
	tuitesting "github.com/Veraticus/offer-desk/internal/tui/testing"
	"github.com/Veraticus/offer-desk/internal/tui/viewmodel"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	today = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	reference = model.BackendConfig{
		Templates:  []string{"azul_ceu.png"},
		Programs:   []model.Program{{ID: 3, Name: "Smiles"}},
		Currencies: []model.Currency{{ID: 1, Code: "USD"}},
	}
)

type fakeBackend struct {
	listErr error
	records []model.OfferRecord
	created []model.OfferDraft
	deleted []int64
	mu      sync.Mutex
}

func (f *fakeBackend) GetConfig(context.Context) (model.BackendConfig, error) {
	return reference, nil
}

func (f *fakeBackend) ListOffers(context.Context) ([]model.OfferRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.OfferRecord{}, f.records...), nil
}

func (f *fakeBackend) CreateOffer(_ context.Context, d model.OfferDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	f.records = append(f.records, model.OfferRecord{
		ID:          int64(len(f.records) + 100),
		Origin:      d.Origin,
		Destination: d.Destination,
		CreatedAt:   "2026-05-10T12:00:00",
	})
	return nil
}

func (f *fakeBackend) DeleteOffer(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	kept := f.records[:0]
	for _, r := range f.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeBackend) ImageURL(id int64) string {
	return fmt.Sprintf("http://backend/api/searches/%d/image", id)
}

// manualTimer never fires; autosaves stay pending.
type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func newBackend() *fakeBackend {
	return &fakeBackend{records: []model.OfferRecord{
		{ID: 1, Origin: "GRU", Destination: "MIA", Operator: "Latam", CreatedAt: "2026-05-01T10:00:00"},
		{ID: 2, Origin: "GIG", Destination: "LIS", Operator: "TAP", CreatedAt: "2026-05-02T10:00:00"},
	}}
}

func resolve(cmd tea.Cmd) []tea.Msg {
	return tuitesting.NewTestRenderer().Run(cmd)
}

func pump(m Model, msgs ...tea.Msg) Model {
	return tuitesting.NewTestRenderer().Send(m, msgs...).(Model)
}

func start(t *testing.T, backend *fakeBackend, extra ...Option) (Model, *draft.Controller) {
	t.Helper()
	ctrl := draft.New(storage.NewMemoryStorage(), backend, draft.Config{
		Today:     func() time.Time { return today },
		IDs:       pricing.NewSequenceGenerator("row"),
		AfterFunc: func(time.Duration, func()) draft.Timer { return manualTimer{} },
	})

	cfg := defaultConfig()
	for _, opt := range []Option{
		WithHistory(history.NewView(backend)),
		WithDraft(ctrl),
		WithImages(backend),
		WithToday(func() time.Time { return today }),
		WithSize(140, 50),
	} {
		opt(&cfg)
	}
	for _, opt := range extra {
		opt(&cfg)
	}

	m := newModel(cfg)
	m = pump(m, resolve(m.Init())...)
	return m, ctrl
}

func TestModel_LoadsDashboard(t *testing.T) {
	m, _ := start(t, newBackend())

	require.True(t, m.view.IsReady())
	view := tuitesting.StripANSI(m.View())
	assert.True(t, tuitesting.ContainsInOrder(view, "Painel", "Histórico", "Nova oferta", "Total de ofertas", "Rotas mais buscadas"))
}

func TestModel_LoadFailure(t *testing.T) {
	backend := newBackend()
	backend.listErr = errors.New("boom")
	m, _ := start(t, backend)

	assert.Equal(t, viewmodel.StateError, m.view.State)
	assert.Contains(t, tuitesting.StripANSI(m.View()), "Erro ao carregar dados.")

	next, cmd := m.Update(tuitesting.Key("q"))
	assert.True(t, next.(Model).quitting)
	assert.Equal(t, []tea.Msg{tea.QuitMsg{}}, resolve(cmd))
}

func TestModel_TabSwitching(t *testing.T) {
	m, _ := start(t, newBackend())

	m = pump(m, tuitesting.Key("tab"))
	assert.Equal(t, viewmodel.TabHistory, m.view.Active)

	m = pump(m, tuitesting.Key("3"))
	assert.Equal(t, viewmodel.TabDraft, m.view.Active)

	m = pump(m, tuitesting.Key("1"))
	assert.Equal(t, viewmodel.TabDashboard, m.view.Active)

	m = pump(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, viewmodel.TabDraft, m.view.Active)
}

func TestModel_EditFieldKeepsKeysLocal(t *testing.T) {
	m, ctrl := start(t, newBackend())

	renderer := tuitesting.NewTestRenderer()
	msgs := append(tuitesting.Keys("3", "enter"), tuitesting.Typed("gq")...)
	m = renderer.Send(m, msgs...).(Model)
	assert.False(t, m.quitting)
	assert.Contains(t, renderer.StripANSI(), "gq")
	assert.Equal(t, viewmodel.TabDraft, m.view.Active)

	m = pump(m, tuitesting.Key("enter"))
	assert.Equal(t, "GQ", ctrl.Draft().Origin)
	assert.Equal(t, viewmodel.SavePending, m.view.Save)
	assert.Contains(t, tuitesting.StripANSI(m.View()), "salvando…")
}

func TestModel_CalendarPick(t *testing.T) {
	m, ctrl := start(t, newBackend())

	m = pump(m, tuitesting.Key("3"))
	for i := 0; i < 6; i++ {
		m = pump(m, tuitesting.Key("down"))
	}
	m = pump(m, tuitesting.Key("enter"))
	require.NotNil(t, m.calendar)
	assert.Contains(t, tuitesting.StripANSI(m.View()), "Maio 2026")

	m = pump(m, tuitesting.Keys("right", "space", "enter")...)
	assert.Nil(t, m.calendar)
	assert.Equal(t, "Datas atualizadas.", m.view.StatusMessage)

	d := ctrl.Draft()
	require.Len(t, d.Dates1Raw.List, 1)
	assert.Equal(t, "2026-05-11", d.Dates1Raw.List[0].Date)
	assert.Equal(t, model.SourceCalendar, d.Dates1Raw.List[0].Source)
}

func TestModel_CalendarUnpickRemovesImportedDate(t *testing.T) {
	m, ctrl := start(t, newBackend())
	_, err := ctrl.ImportDates(model.OptionPrimary, "12/05/2026\t2")
	require.NoError(t, err)

	m.view.Active = viewmodel.TabDraft
	m = m.openCalendar(model.OptionPrimary)
	require.NotNil(t, m.calendar)
	assert.Equal(t, time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC), m.calendar.Cursor())

	m = pump(m, tuitesting.Key("space"), tuitesting.Key("enter"))
	assert.Empty(t, ctrl.Draft().Dates1Raw.List)
}

func TestModel_CalendarOpensOnToday(t *testing.T) {
	clock := tuitesting.NewClock(today)
	m, _ := start(t, newBackend(), WithToday(clock.Now))

	clock.Advance(30 * 24 * time.Hour)
	m = m.openCalendar(model.OptionAlternate)
	require.NotNil(t, m.calendar)
	assert.Equal(t, time.Date(2026, 6, 9, 0, 0, 0, 0, time.UTC), m.calendar.Cursor())
	assert.Equal(t, model.OptionAlternate, m.calendar.Option())
}

func TestModel_Submit(t *testing.T) {
	backend := newBackend()
	m, ctrl := start(t, backend)
	require.NoError(t, ctrl.SetField(draft.FieldOrigin, "gru"))
	require.NoError(t, ctrl.SetField(draft.FieldDestination, "lis"))

	m = pump(m, tuitesting.Key("ctrl+s"))

	require.Len(t, backend.created, 1)
	assert.Equal(t, "GRU", backend.created[0].Origin)
	assert.Equal(t, "Oferta salva com sucesso!", m.view.StatusMessage)
	assert.Empty(t, ctrl.Draft().Origin)
	assert.Len(t, m.historyList.Rows(), 3)
}

func TestModel_SubmitInvalid(t *testing.T) {
	backend := newBackend()
	m, _ := start(t, backend)

	m = pump(m, tuitesting.Key("ctrl+s"))

	assert.Empty(t, backend.created)
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.view.StatusMessage, "Origem")
}

func TestModel_DeleteFromHistory(t *testing.T) {
	backend := newBackend()
	m, _ := start(t, backend)

	m = pump(m, tuitesting.Keys("2", "d", "s")...)

	assert.Equal(t, []int64{2}, backend.deleted)
	assert.Equal(t, "Oferta #2 excluída.", m.view.StatusMessage)
	assert.Len(t, m.historyList.Rows(), 1)
}

func TestModel_ImageLink(t *testing.T) {
	m, _ := start(t, newBackend())

	m = pump(m, tuitesting.Key("2"), tuitesting.Key("enter"))
	assert.Equal(t, "Imagem: http://backend/api/searches/2/image", m.view.StatusMessage)
}

func TestModel_DiscardNeedsTwoPresses(t *testing.T) {
	m, ctrl := start(t, newBackend())
	require.NoError(t, ctrl.SetField(draft.FieldOrigin, "gru"))

	m = pump(m, tuitesting.Key("ctrl+x"))
	assert.Equal(t, "GRU", ctrl.Draft().Origin)
	assert.Contains(t, m.view.StatusMessage, "Ctrl+X")

	m = pump(m, tuitesting.Key("ctrl+x"))
	assert.Empty(t, ctrl.Draft().Origin)
	assert.Equal(t, "Rascunho descartado.", m.view.StatusMessage)
}

func TestModel_DraftSaved(t *testing.T) {
	m, _ := start(t, newBackend())

	m = pump(m, draftSavedMsg{err: errors.New("disk full")})
	assert.Equal(t, viewmodel.SaveFailed, m.view.Save)

	m = pump(m, draftSavedMsg{})
	assert.Equal(t, viewmodel.SaveDone, m.view.Save)
}

func TestModel_ForceQuitWhileTyping(t *testing.T) {
	m, _ := start(t, newBackend())
	m = pump(m, tuitesting.Key("2"), tuitesting.Key("/"))
	require.True(t, m.capturing())

	next, cmd := m.Update(tuitesting.Key("ctrl+c"))
	assert.True(t, next.(Model).quitting)
	assert.Equal(t, []tea.Msg{tea.QuitMsg{}}, resolve(cmd))
}

func TestRun_RequiresDependencies(t *testing.T) {
	err := Run(context.Background())
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
