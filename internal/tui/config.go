package tui

import (
	"sync"
	"time"

	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// ImageLinker builds the address of an offer image.
type ImageLinker interface {
	ImageURL(id int64) string
}

// Config holds TUI configuration.
type Config struct {
	Theme   themes.Theme
	History *history.View
	Draft   *draft.Controller
	Images  ImageLinker
	Saves   *SaveNotifier
	Today   func() time.Time
	Timeout time.Duration
	Width   int
	Height  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:   themes.Default,
		Today:   time.Now,
		Timeout: 30 * time.Second,
		Width:   100,
		Height:  30,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithHistory sets the saved offer list.
func WithHistory(v *history.View) Option {
	return func(c *Config) {
		c.History = v
	}
}

// WithDraft sets the draft controller.
func WithDraft(ctrl *draft.Controller) Option {
	return func(c *Config) {
		c.Draft = ctrl
	}
}

// WithImages sets the image address builder.
func WithImages(images ImageLinker) Option {
	return func(c *Config) {
		c.Images = images
	}
}

// WithSaveNotifier forwards autosave results to the running program.
func WithSaveNotifier(n *SaveNotifier) Option {
	return func(c *Config) {
		c.Saves = n
	}
}

// WithToday sets the clock the calendar opens on.
func WithToday(today func() time.Time) Option {
	return func(c *Config) {
		c.Today = today
	}
}

// WithTimeout bounds every backend call made from the TUI.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// SaveNotifier relays draft autosave results into the TUI. Pass Notify as
// the controller's OnWrite hook; results before the program starts are
// dropped.
type SaveNotifier struct {
	program *tea.Program
	mu      sync.Mutex
}

// Notify reports one autosave.
func (n *SaveNotifier) Notify(err error) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		go p.Send(draftSavedMsg{err: err})
	}
}

func (n *SaveNotifier) attach(p *tea.Program) {
	n.mu.Lock()
	n.program = p
	n.mu.Unlock()
}
