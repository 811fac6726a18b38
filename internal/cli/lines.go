package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a read is abandoned because its context
// ended.
var ErrInputCancelled = errors.New("input canceled")

type readResult struct {
	err  error
	text string
}

// LineReader reads lines on behalf of context-aware callers. At most one
// read is in flight; a line that arrives after its caller gave up is handed
// to the next caller. It serves one caller at a time.
type LineReader struct {
	src      *bufio.Reader
	inflight chan readResult
	mu       sync.Mutex
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("cli: nil reader")
	}
	return &LineReader{src: bufio.NewReader(r)}
}

// ReadLine returns the next line without surrounding blanks. A final line
// without a newline is returned before io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	ch := r.pending()
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-ch:
		r.mu.Lock()
		r.inflight = nil
		r.mu.Unlock()

		if res.err != nil && (!errors.Is(res.err, io.EOF) || res.text == "") {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

// ReadAll collects the remaining lines until end of input.
func (r *LineReader) ReadAll(ctx context.Context) ([]string, error) {
	var lines []string
	for {
		line, err := r.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

func (r *LineReader) pending() chan readResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inflight == nil {
		ch := make(chan readResult, 1)
		go func() {
			text, err := r.src.ReadString('\n')
			ch <- readResult{text: text, err: err}
		}()
		r.inflight = ch
	}
	return r.inflight
}
