package game

import (
	"fmt"
	"log/slog"
	"sync"
)

// LogRing keeps the most recent messages for the on-screen log.
// It is safe for concurrent use.
type LogRing struct {
	mu    sync.Mutex
	lines []string
	size  int
}

// NewLogRing creates a ring holding up to size messages.
func NewLogRing(size int) *LogRing {
	if size < 1 {
		size = 1
	}
	return &LogRing{size: size}
}

// Add appends msg, dropping the oldest message when full.
func (r *LogRing) Add(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
	if len(r.lines) > r.size {
		r.lines = append(r.lines[:0], r.lines[len(r.lines)-r.size:]...)
	}
}

// Lines returns a copy of the messages, oldest first.
func (r *LogRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// logf writes a message to the on-screen log and to slog.
// It does not take g.mu, so it is safe from training goroutines.
func (g *Game) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	g.logs.Add(msg)
	slog.Info(msg, "session", g.session)
}
