package tui

import (
	"fmt"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/stats"
	"github.com/Veraticus/offer-desk/internal/tui/components"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/Veraticus/offer-desk/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// priceFieldOrder is the order PriceChangedMsg columns are applied in.
var priceFieldOrder = []model.PriceField{model.FieldMiles, model.FieldProgram, model.FieldTax, model.FieldCurrency}

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	history     *history.View
	draft       *draft.Controller
	calendar    *components.CalendarModel
	config      Config
	keymap      KeyMap
	help        help.Model
	dashboard   components.DashboardModel
	historyList components.HistoryListModel
	form        components.DraftFormModel
	view        viewmodel.AppView
	statusKind  statusKind
	width       int
	height      int
	offersReady bool
	draftReady  bool
	discarding  bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	m := Model{
		config:      cfg,
		theme:       cfg.Theme,
		history:     cfg.History,
		draft:       cfg.Draft,
		keymap:      DefaultKeyMap(),
		help:        help.New(),
		dashboard:   components.NewDashboardModel(cfg.Theme),
		historyList: components.NewHistoryList(cfg.Theme),
		form:        components.NewDraftForm(cfg.Theme),
		view:        viewmodel.AppView{State: viewmodel.StateLoading, Active: viewmodel.TabDashboard},
		width:       cfg.Width,
		height:      cfg.Height,
	}
	m.resize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadOffers(), m.mountDraft())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case offersLoadedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.offersReady = true
		m.refreshOffers()
		m.markReady()
		return m, nil

	case draftMountedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.draftReady = true
		m.refreshForm()
		m.markReady()
		return m, nil

	case draftSavedMsg:
		switch {
		case msg.err != nil:
			m.view.Save = viewmodel.SaveFailed
		case m.draft != nil && m.draft.Pending():
			m.view.Save = viewmodel.SavePending
		default:
			m.view.Save = viewmodel.SaveDone
		}
		return m, nil

	case deleteDoneMsg:
		m.refreshOffers()
		if msg.err != nil {
			return m.setStatus(statusError, common.UserMessage(msg.err)), nil
		}
		return m.setStatus(statusSuccess, fmt.Sprintf("Oferta #%d excluída.", msg.id)), nil

	case submitDoneMsg:
		if msg.err != nil {
			return m.setStatus(statusError, common.UserMessage(msg.err)), nil
		}
		m.view.Save = viewmodel.SaveIdle
		m.refreshForm()
		m = m.setStatus(statusSuccess, "Oferta salva com sucesso!")
		return m, m.loadOffers()

	case discardDoneMsg:
		if msg.err != nil {
			return m.setStatus(statusError, common.UserMessage(msg.err)), nil
		}
		m.view.Save = viewmodel.SaveIdle
		m.refreshForm()
		return m.setStatus(statusInfo, "Rascunho descartado."), nil

	case components.CalendarAppliedMsg:
		m.calendar = nil
		return m.edit(func() error { return m.applyCalendar(msg) }, "Datas atualizadas."), nil

	case components.CalendarCancelledMsg:
		m.calendar = nil
		return m, nil

	case components.OpenCalendarMsg:
		return m.openCalendar(msg.Option), nil

	case components.FieldChangedMsg:
		return m.edit(func() error { return m.draft.SetField(msg.Field, msg.Value) }, ""), nil

	case components.DatesImportedMsg:
		var n int
		m = m.edit(func() error {
			var err error
			n, err = m.draft.ImportDates(msg.Option, msg.Text)
			return err
		}, "")
		return m.importDone(n), nil

	case components.ClearDatesMsg:
		return m.edit(func() error { return m.draft.ClearDates(msg.Option) }, "Datas removidas."), nil

	case components.ToggleSeatsMsg:
		return m.edit(func() error { return m.draft.ToggleShowSeats(msg.Option) }, ""), nil

	case components.PriceChangedMsg:
		return m.edit(func() error {
			for _, f := range priceFieldOrder {
				if err := m.draft.UpdatePrice(msg.Option, msg.ID, f, msg.Values[f]); err != nil {
					return err
				}
			}
			return nil
		}, ""), nil

	case components.AddPriceMsg:
		return m.edit(func() error {
			_, err := m.draft.AddPriceRow(msg.Option)
			return err
		}, ""), nil

	case components.RemovePriceMsg:
		return m.edit(func() error { return m.draft.RemovePriceRow(msg.Option, msg.ID) }, ""), nil

	case components.ToggleAlternateMsg:
		m.draft.ToggleAlternate()
		m.refreshForm()
		return m, nil

	case components.SubmitRequestedMsg:
		return m.submit()

	case components.InputErrorMsg:
		return m.setStatus(statusError, common.UserMessage(msg.Err)), nil

	case components.DeleteRequestedMsg:
		m = m.setStatus(statusPending, fmt.Sprintf("Excluindo oferta #%d…", msg.ID))
		return m, m.deleteOffer(msg.ID)

	case components.ImageRequestedMsg:
		if m.config.Images == nil {
			return m, nil
		}
		return m.setStatus(statusInfo, "Imagem: "+m.config.Images.ImageURL(msg.ID)), nil

	case components.RefreshRequestedMsg:
		m = m.setStatus(statusPending, "Carregando…")
		return m, m.loadOffers()
	}

	return m.updateActive(msg)
}

// handleKey routes a key press. While a component captures text only
// Ctrl+C is handled globally.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.capturing() {
		return m.updateActive(msg)
	}

	wasDiscarding := m.discarding
	m.discarding = false

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case !m.view.IsReady():
		return m, nil
	case key.Matches(msg, m.keymap.NextTab):
		m.view.Active = m.view.Active.Next()
		return m, nil
	case key.Matches(msg, m.keymap.PrevTab):
		m.view.Active = m.view.Active.Prev()
		return m, nil
	case key.Matches(msg, m.keymap.Dashboard):
		m.view.Active = viewmodel.TabDashboard
		return m, nil
	case key.Matches(msg, m.keymap.History):
		m.view.Active = viewmodel.TabHistory
		return m, nil
	case key.Matches(msg, m.keymap.Draft):
		m.view.Active = viewmodel.TabDraft
		return m, nil
	case key.Matches(msg, m.keymap.Refresh):
		m = m.setStatus(statusPending, "Carregando…")
		return m, m.loadOffers()
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	case key.Matches(msg, m.keymap.Discard):
		if !wasDiscarding {
			m.discarding = true
			return m.setStatus(statusInfo, "Pressione Ctrl+X novamente para descartar o rascunho."), nil
		}
		return m, m.discardDraft()
	}

	return m.updateActive(msg)
}

// updateActive forwards a message to the component on screen.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.view.IsReady() {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.calendar != nil:
		var cal components.CalendarModel
		cal, cmd = m.calendar.Update(msg)
		m.calendar = &cal
	case m.view.Active == viewmodel.TabHistory:
		m.historyList, cmd = m.historyList.Update(msg)
	case m.view.Active == viewmodel.TabDraft:
		m.form, cmd = m.form.Update(msg)
	default:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

func (m Model) capturing() bool {
	switch {
	case m.calendar != nil:
		return true
	case m.view.Active == viewmodel.TabHistory:
		return m.historyList.Capturing()
	case m.view.Active == viewmodel.TabDraft:
		return m.form.Capturing()
	default:
		return false
	}
}

func (m *Model) resize() {
	bodyHeight := max(5, m.height-6)
	m.dashboard.Resize(m.width-2, bodyHeight)
	m.historyList.Resize(m.width-2, bodyHeight)
	m.form.Resize(m.width-2, bodyHeight)
	m.help.Width = m.width
}

func (m *Model) markReady() {
	if m.offersReady && m.draftReady && m.view.State == viewmodel.StateLoading {
		m.view.State = viewmodel.StateReady
	}
}

func (m Model) fail(err error) Model {
	m.view.State = viewmodel.StateError
	m.view.Error = common.UserMessage(err)
	return m
}

func (m Model) setStatus(kind statusKind, text string) Model {
	m.statusKind = kind
	m.view.StatusMessage = text
	return m
}

// refreshOffers copies the loaded offers into the dashboard and the list.
func (m *Model) refreshOffers() {
	if m.history == nil {
		return
	}
	records := m.history.All()
	m.dashboard.SetSummary(stats.Summarize(records))
	m.historyList.SetRecords(records, m.history.Reference())
}

func (m *Model) refreshForm() {
	if m.draft == nil {
		return
	}
	m.form.SetView(viewmodel.NewDraftView(m.draft), m.draft.Reference())
}

// edit runs one draft change and refreshes the form. Errors go to the
// status line; success shows done when set.
func (m Model) edit(fn func() error, done string) Model {
	if m.draft == nil {
		return m
	}
	err := fn()
	m.refreshForm()
	if err != nil {
		return m.setStatus(statusError, common.UserMessage(err))
	}
	if m.draft.Pending() {
		m.view.Save = viewmodel.SavePending
	}
	if done != "" {
		return m.setStatus(statusSuccess, done)
	}
	return m
}

func (m Model) importDone(n int) Model {
	if n == 0 {
		return m
	}
	return m.setStatus(statusSuccess, fmt.Sprintf("%d data(s) importada(s).", n))
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.draft == nil || !m.view.IsReady() {
		return m, nil
	}
	m.view.Active = viewmodel.TabDraft
	m = m.setStatus(statusPending, "Salvando oferta…")
	return m, m.submitDraft()
}

func (m Model) openCalendar(opt model.Option) Model {
	sel, err := m.draft.DateSelection(opt)
	if err != nil {
		return m.setStatus(statusError, common.UserMessage(err))
	}

	var picked []time.Time
	for _, entry := range sel.List {
		if t, ok := entry.Time(); ok {
			picked = append(picked, t)
		}
	}
	cal := components.NewCalendarModel(opt, picked, m.config.Today(), m.theme)
	m.calendar = &cal
	return m
}

// applyCalendar removes the days the operator unpicked, then applies the
// picks of every month page that was on screen.
func (m Model) applyCalendar(msg components.CalendarAppliedMsg) error {
	for _, t := range msg.Unpicked {
		if err := m.draft.RemoveDate(msg.Option, t.Format(model.ISODateLayout)); err != nil {
			return err
		}
	}
	for _, r := range msg.Visible {
		var inRange []time.Time
		for _, t := range msg.Picked {
			if r.Contains(t) {
				inRange = append(inRange, t)
			}
		}
		if err := m.draft.ApplyCalendar(msg.Option, inRange, r); err != nil {
			return err
		}
	}
	return nil
}
