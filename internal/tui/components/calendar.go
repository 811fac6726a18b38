package components

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var weekdayNames = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// CalendarModel is a month grid for picking departure days.
type CalendarModel struct {
	theme   themes.Theme
	cursor  time.Time
	today   time.Time
	initial map[string]time.Time
	picked  map[string]time.Time
	visited map[string]dates.Range
	option  model.Option
}

// NewCalendarModel opens the calendar on the first picked day, or on today
// when nothing is picked yet.
func NewCalendarModel(opt model.Option, picked []time.Time, today time.Time, theme themes.Theme) CalendarModel {
	m := CalendarModel{
		theme:   theme,
		option:  opt,
		today:   day(today),
		cursor:  day(today),
		initial: make(map[string]time.Time, len(picked)),
		picked:  make(map[string]time.Time, len(picked)),
		visited: make(map[string]dates.Range),
	}

	for _, t := range picked {
		d := day(t)
		m.initial[d.Format(model.ISODateLayout)] = d
		m.picked[d.Format(model.ISODateLayout)] = d
	}
	if len(picked) > 0 {
		m.cursor = m.Selected()[0]
	}
	m.visit()
	return m
}

// Option returns the route group the calendar edits.
func (m CalendarModel) Option() model.Option {
	return m.option
}

// Cursor returns the highlighted day.
func (m CalendarModel) Cursor() time.Time {
	return m.cursor
}

// Month returns the range of the month on screen.
func (m CalendarModel) Month() dates.Range {
	return dates.MonthRange(m.cursor.Year(), m.cursor.Month())
}

// Selected returns the picked days in ascending order.
func (m CalendarModel) Selected() []time.Time {
	out := make([]time.Time, 0, len(m.picked))
	for _, t := range m.picked {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Update handles messages.
func (m CalendarModel) Update(msg tea.Msg) (CalendarModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "left", "h":
		m.move(0, -1)
	case "right", "l":
		m.move(0, 1)
	case "up", "k":
		m.move(0, -7)
	case "down", "j":
		m.move(0, 7)
	case "[", "pgup":
		m.move(-1, 0)
	case "]", "pgdown":
		m.move(1, 0)
	case "t":
		m.cursor = m.today
		m.visit()
	case " ", "x":
		m.toggle(m.cursor)
	case "enter":
		return m, m.apply()
	case "esc":
		return m, func() tea.Msg { return CalendarCancelledMsg{} }
	}
	return m, nil
}

func (m *CalendarModel) move(months, days int) {
	if months != 0 {
		first := time.Date(m.cursor.Year(), m.cursor.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
		last := first.AddDate(0, 1, -1).Day()
		m.cursor = first.AddDate(0, 0, min(m.cursor.Day(), last)-1)
	}
	m.cursor = m.cursor.AddDate(0, 0, days)
	m.visit()
}

func (m *CalendarModel) visit() {
	m.visited[m.cursor.Format("2006-01")] = m.Month()
}

func (m *CalendarModel) toggle(t time.Time) {
	key := t.Format(model.ISODateLayout)
	if _, ok := m.picked[key]; ok {
		delete(m.picked, key)
		return
	}
	m.picked[key] = t
}

func (m CalendarModel) apply() tea.Cmd {
	keys := make([]string, 0, len(m.visited))
	for k := range m.visited {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	visible := make([]dates.Range, 0, len(keys))
	for _, k := range keys {
		visible = append(visible, m.visited[k])
	}

	var unpicked []time.Time
	for key, t := range m.initial {
		if _, ok := m.picked[key]; !ok {
			unpicked = append(unpicked, t)
		}
	}
	sort.Slice(unpicked, func(i, j int) bool { return unpicked[i].Before(unpicked[j]) })

	msg := CalendarAppliedMsg{
		Option:   m.option,
		Picked:   m.Selected(),
		Unpicked: unpicked,
		Visible:  visible,
	}
	return func() tea.Msg { return msg }
}

// View renders the month grid.
func (m CalendarModel) View() string {
	header := m.theme.Title.Render(fmt.Sprintf("%s %d", monthNames[m.cursor.Month()-1], m.cursor.Year()))

	var names []string
	for _, n := range weekdayNames {
		names = append(names, m.theme.DayMuted.Render(n))
	}
	lines := []string{header, lipgloss.JoinHorizontal(lipgloss.Top, names...)}

	first := time.Date(m.cursor.Year(), m.cursor.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	for week := 0; week < 6; week++ {
		var cells []string
		for wd := 0; wd < 7; wd++ {
			d := start.AddDate(0, 0, week*7+wd)
			cells = append(cells, m.renderDay(d))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	lines = append(lines, "",
		m.theme.Faint.Render(fmt.Sprintf("%d dia(s) marcados", len(m.picked))),
		m.theme.Faint.Render("[←→↑↓] Mover  [Espaço] Marcar  [[/]] Mês  [t] Hoje  [Enter] Aplicar  [Esc] Cancelar"))
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m CalendarModel) renderDay(d time.Time) string {
	label := fmt.Sprintf("%d", d.Day())
	_, picked := m.picked[d.Format(model.ISODateLayout)]

	switch {
	case d.Equal(m.cursor):
		if picked {
			return m.theme.DayCursor.Render("*" + label)
		}
		return m.theme.DayCursor.Render(label)
	case picked:
		return m.theme.DayPicked.Render(label)
	case d.Month() != m.cursor.Month():
		return m.theme.DayMuted.Render(label)
	case d.Equal(m.today):
		return m.theme.DayToday.Render(label)
	default:
		return m.theme.DayNormal.Render(label)
	}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
