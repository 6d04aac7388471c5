package log

import (
	"log/slog"
	"strings"
	"sync"
)

// DefaultCaptureSize is the number of lines kept by [NewCapture] when no
// positive size is given.
const DefaultCaptureSize = 50

// Capture is an [io.Writer] that keeps the most recent log lines written to
// it. It is used to return the warnings of a single operation to a caller
// that cannot see stderr.
type Capture struct {
	lines []string
	next  int
	size  int
	mu    sync.Mutex
}

// NewCapture creates a [Capture] that keeps up to size lines.
func NewCapture(size int) *Capture {
	if size <= 0 {
		size = DefaultCaptureSize
	}

	return &Capture{lines: make([]string, 0, size), size: size}
}

// Write implements [io.Writer]. Each non-empty line of p is stored as one
// entry, evicting the oldest entry once the capture is full.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for line := range strings.SplitSeq(string(p), "\n") {
		if line == "" {
			continue
		}

		if len(c.lines) < c.size {
			c.lines = append(c.lines, line)

			continue
		}

		c.lines[c.next] = line
		c.next = (c.next + 1) % c.size
	}

	return len(p), nil
}

// Lines returns the captured lines, oldest first.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.lines))
	out = append(out, c.lines[c.next:]...)
	out = append(out, c.lines[:c.next]...)

	return out
}

// Logger returns a logger that writes records at or above level to c in
// logfmt.
func (c *Capture) Logger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(c, &slog.HandlerOptions{Level: level}))
}
