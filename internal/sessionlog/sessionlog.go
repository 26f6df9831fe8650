// Package sessionlog keeps the raw per-session transcript of classified
// lines next to the summary archive.
package sessionlog

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vburojevic/slotw/internal/domain"
)

// DefaultMaxMB caps how much one session writes to its log
const DefaultMaxMB = 50

// noRollMB keeps lumberjack from ever rolling: a session has exactly one
// log file, and the cap is enforced by Writer.
const noRollMB = 1 << 30

// ErrLimitReached is reported when the session log hits its size cap
var ErrLimitReached = errors.New("session log size limit reached")

// Writer appends one display line per event. The file is opened lazily on
// the first event. The first write failure, or reaching the size cap, is
// reported through OnError and disables the writer for the rest of the
// session.
type Writer struct {
	mu       sync.Mutex
	path     string
	out      io.WriteCloser
	opened   bool
	disabled bool
	lines    int
	written  int64
	limit    int64
	onError  func(error)
	logger   *zap.Logger
}

// New creates a writer for path. maxMB <= 0 uses DefaultMaxMB.
func New(path string, maxMB int, onError func(error), logger *zap.Logger) *Writer {
	if maxMB <= 0 {
		maxMB = DefaultMaxMB
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		path: path,
		out: &lumberjack.Logger{
			Filename: path,
			MaxSize:  noRollMB,
		},
		limit:   int64(maxMB) << 20,
		onError: onError,
		logger:  logger,
	}
}

// Path returns the session log location
func (w *Writer) Path() string {
	return w.path
}

// HandleEvent appends the event's display text
func (w *Writer) HandleEvent(ev domain.LogEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.disabled {
		return
	}
	text := ev.DisplayText() + "\n"
	if w.written+int64(len(text)) > w.limit {
		w.disable(fmt.Errorf("%w (%d MB)", ErrLimitReached, w.limit>>20))
		return
	}
	n, err := io.WriteString(w.out, text)
	w.written += int64(n)
	if err != nil {
		w.disable(err)
		return
	}
	if !w.opened {
		w.opened = true
		w.logger.Debug("session log opened", zap.String("path", w.path))
	}
	w.lines++
}

func (w *Writer) disable(err error) {
	w.disabled = true
	w.logger.Warn("session log disabled", zap.String("path", w.path), zap.Error(err))
	if w.onError != nil {
		w.onError(err)
	}
}

// Lines returns how many lines were written
func (w *Writer) Lines() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lines
}

// Disabled reports whether a write failure switched the writer off
func (w *Writer) Disabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disabled
}

// Close releases the file, if it was ever opened
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Close()
}
