package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vburojevic/slotw/internal/domain"
)

// Feed hands events from the poll goroutine to the view. Sends block while
// the view is behind and are dropped once the feed is closed.
type Feed struct {
	events   chan domain.LogEvent
	warnings chan string
	done     chan struct{}
	once     sync.Once
}

// NewFeed creates a feed with the given event buffer
func NewFeed(buffer int) *Feed {
	return &Feed{
		events:   make(chan domain.LogEvent, buffer),
		warnings: make(chan string, 4),
		done:     make(chan struct{}),
	}
}

// HandleEvent implements tailer.Sink
func (f *Feed) HandleEvent(ev domain.LogEvent) {
	select {
	case f.events <- ev:
	case <-f.done:
	}
}

// Warn queues a warning for the status line. It never blocks.
func (f *Feed) Warn(msg string) {
	select {
	case f.warnings <- msg:
	default:
	}
}

// Close releases any blocked sender
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}

// Run shows the model until the user quits or ctx is cancelled
func Run(ctx context.Context, m Model) error {
	defer m.feed.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil && err != nil {
		// Cancellation is a normal way to stop.
		return nil
	}
	return err
}
