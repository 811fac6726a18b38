package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/Veraticus/offer-desk/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type itemKind int

const (
	itemField itemKind = iota
	itemDates
	itemImport
	itemPrice
	itemAddPrice
	itemToggleAlternate
	itemSubmit
)

// formItem is one focusable line of the form.
type formItem struct {
	row     viewmodel.FieldRow
	price   viewmodel.PriceLine
	kind    itemKind
	option  model.Option
	section string // heading rendered above the item
}

// DraftFormModel edits the offer draft.
type DraftFormModel struct {
	theme      themes.Theme
	ref        model.BackendConfig
	view       viewmodel.DraftView
	items      []formItem
	input      textinput.Model
	importArea textarea.Model
	editing    *formItem
	importing  *formItem
	cursor     int
	width      int
	height     int
}

// NewDraftForm creates an empty form.
func NewDraftForm(theme themes.Theme) DraftFormModel {
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 80

	area := textarea.New()
	area.Placeholder = "15/06/2026 2\n2026-06-20\n..."
	area.ShowLineNumbers = false
	area.SetHeight(6)

	return DraftFormModel{
		theme:      theme,
		input:      input,
		importArea: area,
		width:      80,
		height:     24,
	}
}

// SetView replaces the form contents, keeping the cursor in range.
func (m *DraftFormModel) SetView(v viewmodel.DraftView, ref model.BackendConfig) {
	m.view = v
	m.ref = ref
	m.items = buildItems(v)
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func buildItems(v viewmodel.DraftView) []formItem {
	var items []formItem
	altFields := make([]viewmodel.FieldRow, 0, 2)
	for _, f := range v.Fields {
		if f.Field == draft.FieldOrigin2 || f.Field == draft.FieldDestination2 {
			altFields = append(altFields, f)
			continue
		}
		items = append(items, formItem{kind: itemField, row: f})
	}

	for _, opt := range v.Options {
		section := opt.Title
		if opt.Option == model.OptionAlternate {
			for _, f := range altFields {
				items = append(items, formItem{kind: itemField, row: f, option: opt.Option, section: section})
				section = ""
			}
		}
		items = append(items,
			formItem{kind: itemDates, option: opt.Option, section: section},
			formItem{kind: itemImport, option: opt.Option},
		)
		for _, p := range opt.Prices {
			items = append(items, formItem{kind: itemPrice, option: opt.Option, price: p})
		}
		items = append(items, formItem{kind: itemAddPrice, option: opt.Option})
	}

	return append(items,
		formItem{kind: itemToggleAlternate, section: " "},
		formItem{kind: itemSubmit},
	)
}

// Resize updates the form dimensions.
func (m *DraftFormModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(20, width-30)
	m.importArea.SetWidth(max(20, width-4))
}

// Capturing reports whether key presses are consumed as text input.
func (m DraftFormModel) Capturing() bool {
	return m.editing != nil || m.importing != nil
}

// Cursor returns the index of the focused line.
func (m DraftFormModel) Cursor() int {
	return m.cursor
}

// Update handles messages.
func (m DraftFormModel) Update(msg tea.Msg) (DraftFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.importing != nil:
			return m.handleImport(msg)
		case m.editing != nil:
			return m.handleEdit(msg)
		default:
			return m.handleNavigate(msg)
		}
	}
	return m, nil
}

func (m DraftFormModel) handleNavigate(msg tea.KeyMsg) (DraftFormModel, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	item := m.items[m.cursor]

	switch msg.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
		return m, nil
	case "down", "j":
		m.cursor = min(m.cursor+1, len(m.items)-1)
		return m, nil
	case "home", "g":
		m.cursor = 0
		return m, nil
	case "end", "G":
		m.cursor = len(m.items) - 1
		return m, nil

	case "left", "h":
		if item.kind == itemField && len(item.row.Choices) > 0 {
			return m, changeField(item.row.Field, viewmodel.Cycle(item.row.Choices, item.row.Value, -1))
		}
	case "right", "l", " ":
		if item.kind == itemField && len(item.row.Choices) > 0 {
			return m, changeField(item.row.Field, viewmodel.Cycle(item.row.Choices, item.row.Value, 1))
		}

	case "a":
		if item.kind == itemPrice || item.kind == itemAddPrice {
			return m, emit(AddPriceMsg{Option: item.option})
		}
	case "x", "delete":
		if item.kind == itemPrice {
			return m, emit(RemovePriceMsg{Option: item.option, ID: item.price.ID})
		}
	case "s":
		if item.kind == itemDates {
			return m, emit(ToggleSeatsMsg{Option: item.option})
		}
	case "c":
		if item.kind == itemDates {
			return m, emit(ClearDatesMsg{Option: item.option})
		}

	case "enter":
		return m.activate(item)
	}
	return m, nil
}

func (m DraftFormModel) activate(item formItem) (DraftFormModel, tea.Cmd) {
	switch item.kind {
	case itemField:
		if len(item.row.Choices) > 0 {
			return m, changeField(item.row.Field, viewmodel.Cycle(item.row.Choices, item.row.Value, 1))
		}
		return m.startEdit(item, item.row.Value)
	case itemPrice:
		return m.startEdit(item, pricing.FormatInput(item.price.Row, m.ref))
	case itemDates:
		return m, emit(OpenCalendarMsg{Option: item.option})
	case itemImport:
		m.importing = &item
		m.importArea.Reset()
		return m, m.importArea.Focus()
	case itemAddPrice:
		return m, emit(AddPriceMsg{Option: item.option})
	case itemToggleAlternate:
		return m, emit(ToggleAlternateMsg{})
	case itemSubmit:
		return m, emit(SubmitRequestedMsg{})
	}
	return m, nil
}

func (m DraftFormModel) startEdit(item formItem, value string) (DraftFormModel, tea.Cmd) {
	m.editing = &item
	m.input.SetValue(value)
	m.input.CursorEnd()
	if item.kind == itemPrice {
		m.input.Placeholder = "milhas programa taxa moeda"
	} else {
		m.input.Placeholder = ""
	}
	return m, m.input.Focus()
}

func (m DraftFormModel) handleEdit(msg tea.KeyMsg) (DraftFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = nil
		m.input.Blur()
		return m, nil

	case "enter":
		item := *m.editing
		value := m.input.Value()
		m.editing = nil
		m.input.Blur()

		if item.kind == itemField {
			return m, changeField(item.row.Field, value)
		}
		values, err := pricing.ParseInput(value, m.ref)
		if err != nil {
			return m, emit(InputErrorMsg{Err: err})
		}
		return m, emit(PriceChangedMsg{Option: item.option, ID: item.price.ID, Values: values})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DraftFormModel) handleImport(msg tea.KeyMsg) (DraftFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.importing = nil
		m.importArea.Blur()
		return m, nil

	case "ctrl+d":
		opt := m.importing.option
		text := m.importArea.Value()
		m.importing = nil
		m.importArea.Blur()
		return m, emit(DatesImportedMsg{Option: opt, Text: text})
	}

	var cmd tea.Cmd
	m.importArea, cmd = m.importArea.Update(msg)
	return m, cmd
}

func changeField(f draft.Field, value string) tea.Cmd {
	return emit(FieldChangedMsg{Field: f, Value: value})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the form.
func (m DraftFormModel) View() string {
	var lines []string
	cursorLine := 0

	for i, item := range m.items {
		switch title := strings.TrimSpace(item.section); {
		case title != "":
			lines = append(lines, "", m.theme.Subtitle.Render(title))
		case item.section != "":
			lines = append(lines, "")
		}
		if i == m.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderItem(i, item))
	}

	if m.importing != nil {
		lines = append(lines, "",
			m.theme.Subtitle.Render("Colar datas (uma por linha: data [assentos])"),
			m.importArea.View(),
			m.theme.Faint.Render("[Ctrl+D] Importar  [Esc] Cancelar"))
		cursorLine = len(lines) - 1
	} else {
		lines = append(lines, "", m.renderFooter())
	}

	return strings.Join(window(lines, cursorLine, m.height), "\n")
}

func (m DraftFormModel) renderItem(i int, item formItem) string {
	focused := i == m.cursor
	marker := "  "
	if focused {
		marker = "› "
	}

	var text string
	switch item.kind {
	case itemField:
		value := item.row.Value
		if m.editing != nil && focused {
			value = m.input.View()
		} else if value == "" {
			value = m.theme.Faint.Render("-")
		} else if len(item.row.Choices) > 0 {
			value = "‹ " + value + " ›"
		}
		text = fmt.Sprintf("%-18s %s", item.row.Label, value)

	case itemDates:
		opt := m.optionView(item.option)
		summary := opt.DateSummary
		if summary == "" {
			summary = m.theme.Faint.Render("nenhuma data")
		}
		text = fmt.Sprintf("%-18s %s", "Datas", opt.DateLabel)
		lines := []string{text}
		for _, l := range strings.Split(summary, "\n") {
			lines = append(lines, "    "+strings.Repeat(" ", 19)+l)
		}
		text = strings.Join(lines, "\n")

	case itemImport:
		text = m.theme.Faint.Render("Colar lista de datas…")

	case itemPrice:
		value := item.price.Text
		if m.editing != nil && focused {
			value = m.input.View()
		} else if item.price.Blank {
			value = m.theme.Faint.Render(value)
		}
		text = fmt.Sprintf("%-18s %s", "Preço", value)

	case itemAddPrice:
		text = m.theme.Faint.Render("+ Adicionar preço")

	case itemToggleAlternate:
		if m.view.AlternateOpen {
			text = "− Remover opção 2"
		} else {
			text = "+ Adicionar opção 2"
		}

	case itemSubmit:
		text = m.theme.StatusSuccess.Render("Salvar oferta")
	}

	if focused && m.editing == nil {
		return m.theme.Highlighted.Render(marker + text)
	}
	return marker + text
}

func (m DraftFormModel) optionView(opt model.Option) viewmodel.OptionView {
	for _, o := range m.view.Options {
		if o.Option == opt {
			return o
		}
	}
	return viewmodel.OptionView{Option: opt}
}

func (m DraftFormModel) renderFooter() string {
	if m.editing != nil {
		return m.theme.Faint.Render("[Enter] Confirmar  [Esc] Cancelar")
	}
	hints := []string{"[↑↓] Navegar", "[Enter] Editar"}
	if len(m.items) > 0 {
		switch m.items[m.cursor].kind {
		case itemField:
			if len(m.items[m.cursor].row.Choices) > 0 {
				hints = append(hints, "[←→] Alternar")
			}
		case itemDates:
			hints = append(hints, "[s] Assentos", "[c] Limpar")
		case itemPrice:
			hints = append(hints, "[a] Novo", "[x] Remover")
		}
	}
	return m.theme.Faint.Render(strings.Join(hints, "  "))
}

// window keeps the line at focus visible within height lines.
func window(lines []string, focus, height int) []string {
	if height <= 0 {
		return lines
	}
	var flat []string
	focusFlat := 0
	for i, l := range lines {
		if i == focus {
			focusFlat = len(flat)
		}
		flat = append(flat, strings.Split(l, "\n")...)
	}
	if len(flat) <= height {
		return flat
	}
	start := max(0, min(focusFlat-height/2, len(flat)-height))
	return flat[start : start+height]
}
