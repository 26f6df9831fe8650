package output

import (
	"io"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/slotw/internal/domain"
)

// Emitter writes records in the selected format ("text" or "ndjson") and
// serves as the display sink for a watch session.
type Emitter struct {
	mu        sync.Mutex
	ndjson    bool
	sessionID string
	clock     clock.Clock
	text      *TextWriter
	json      *NDJSONWriter
	err       error
}

// NewEmitter creates an emitter. A nil clock uses the wall clock.
func NewEmitter(w io.Writer, format, sessionID string, clk clock.Clock) *Emitter {
	if clk == nil {
		clk = clock.New()
	}
	return &Emitter{
		ndjson:    format == "ndjson",
		sessionID: sessionID,
		clock:     clk,
		text:      NewTextWriter(w),
		json:      NewNDJSONWriter(w),
	}
}

// HandleEvent writes one event. Write failures are kept for Err.
func (e *Emitter) HandleEvent(ev domain.LogEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	var err error
	if e.ndjson {
		err = e.json.WriteEvent(e.sessionID, now, ev)
	} else {
		err = e.text.WriteEvent(now, ev)
	}
	if err != nil && e.err == nil {
		e.err = err
	}
}

// Stats writes totals
func (e *Emitter) Stats(title string, s domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ndjson {
		return e.json.WriteStats(NewStatsOutput(e.sessionID, s))
	}
	return e.text.WriteStats(title, s)
}

// Warning writes a warning line
func (e *Emitter) Warning(msg string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ndjson {
		return e.json.WriteWarning(msg)
	}
	return e.text.WriteWarning(msg)
}

// WriteNDJSON runs fn against the NDJSON writer under the emitter lock.
// It is a no-op in text mode.
func (e *Emitter) WriteNDJSON(fn func(w *NDJSONWriter) error) error {
	if !e.ndjson {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.json)
}

// IsNDJSON reports whether records are written as NDJSON
func (e *Emitter) IsNDJSON() bool { return e.ndjson }

// SessionID returns the session identifier stamped on records
func (e *Emitter) SessionID() string { return e.sessionID }

// Err returns the first event write failure
func (e *Emitter) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
