package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/offer-desk/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen interface and blocks until the operator quits
// or ctx is cancelled. A pending draft autosave is flushed on the way out.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.History == nil {
		return fmt.Errorf("%w: offer history is required", common.ErrMissingConfig)
	}
	if cfg.Draft == nil {
		return fmt.Errorf("%w: draft controller is required", common.ErrMissingConfig)
	}

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if cfg.Saves != nil {
		cfg.Saves.attach(p)
		defer cfg.Saves.attach(nil)
	}

	_, runErr := p.Run()

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Timeout)
	defer cancel()
	if err := cfg.Draft.Flush(flushCtx); err != nil {
		common.LogError(err, "Failed to save draft on exit", nil)
	}

	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}
