// Package testing provides test utilities for TUI components.
package testing

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestRenderer drives a Bubble Tea model without a real terminal. Commands
// returned by Update are run and their messages fed back, so a chain of
// commands settles within one Send.
type TestRenderer struct {
	// Output contains the last rendered view
	Output string

	// Messages contains all messages delivered to the model
	Messages []tea.Msg

	// UpdateCount tracks how many times Update was called
	UpdateCount int

	// Timeout is how long a command may block before its message is dropped.
	// Cursor blinks and ticks never finish in time.
	Timeout time.Duration

	// MaxSteps bounds the messages handled by one Send.
	MaxSteps int
}

// NewTestRenderer creates a new test renderer.
func NewTestRenderer() *TestRenderer {
	return &TestRenderer{
		Timeout:  100 * time.Millisecond,
		MaxSteps: 100,
	}
}

// Render renders a component and captures its output.
func (r *TestRenderer) Render(model tea.Model) string {
	r.Output = model.View()
	return r.Output
}

// Update sends one message to the model and captures the result.
func (r *TestRenderer) Update(model tea.Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	r.Messages = append(r.Messages, msg)
	r.UpdateCount++

	newModel, cmd := model.Update(msg)
	r.Output = newModel.View()
	return newModel, cmd
}

// Send delivers msgs and every message their commands produce.
func (r *TestRenderer) Send(model tea.Model, msgs ...tea.Msg) tea.Model {
	queue := append([]tea.Msg{}, msgs...)
	for i := 0; i < len(queue) && i < r.MaxSteps; i++ {
		var cmd tea.Cmd
		model, cmd = r.Update(model, queue[i])
		queue = append(queue, r.Run(cmd)...)
	}
	return model
}

// Run executes cmd and returns its messages, flattening batches.
func (r *TestRenderer) Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, r.Run(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(r.Timeout):
		return nil
	}
}

// StripANSI removes ANSI escape codes from the output for content-only testing.
func (r *TestRenderer) StripANSI() string {
	return StripANSI(r.Output)
}

// Lines returns the output split by newlines.
func (r *TestRenderer) Lines() []string {
	return strings.Split(r.Output, "\n")
}

// Reset clears all captured data.
func (r *TestRenderer) Reset() {
	r.Output = ""
	r.Messages = nil
	r.UpdateCount = 0
}
