package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrInterrupted is the cancellation cause after SIGINT or SIGTERM.
var ErrInterrupted = errors.New("interrupted by signal")

// Interrupts reports how a run watched by WatchInterrupts ended.
type Interrupts struct {
	out       io.Writer
	cancel    context.CancelCauseFunc
	once      sync.Once
	fired     atomic.Bool
	draftKept bool
}

// WatchInterrupts returns a context canceled with ErrInterrupted on the
// first SIGINT or SIGTERM. The farewell printed to out mentions the draft
// when draftKept is set. A nil out means stderr.
func WatchInterrupts(parent context.Context, out io.Writer, draftKept bool) (context.Context, *Interrupts) {
	if out == nil {
		out = os.Stderr
	}
	ctx, cancel := context.WithCancelCause(parent)
	in := &Interrupts{out: out, cancel: cancel, draftKept: draftKept}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			in.fire(sig)
		case <-ctx.Done():
		}
	}()

	return ctx, in
}

// Fired reports whether a signal ended the run.
func (in *Interrupts) Fired() bool {
	return in.fired.Load()
}

func (in *Interrupts) fire(sig os.Signal) {
	in.once.Do(func() {
		in.fired.Store(true)
		slog.Debug("Received signal", "signal", sig.String())

		msg := "\n" + FormatWarning("Interrompido.") + "\n"
		if in.draftKept {
			msg += FormatInfo("O rascunho foi salvo e será restaurado na próxima vez.") + "\n"
		}
		if _, err := fmt.Fprint(in.out, msg); err != nil {
			slog.Warn("Failed to write interrupt message", "error", err)
		}
	})
	in.cancel(ErrInterrupted)
}
