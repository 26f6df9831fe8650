// Package tailer follows a live, rotating chat log and emits classified
// slot events for newly appended lines.
package tailer

import (
	"bytes"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/vburojevic/slotw/internal/classify"
	"github.com/vburojevic/slotw/internal/domain"
)

// Phase is the tailer's lifecycle state
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
	PhasePaused
	// PhaseRotatedPendingReopen means a rotation was seen but the new file
	// could not be opened yet; it is read from the start once it opens.
	PhaseRotatedPendingReopen
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpen:
		return "open"
	case PhasePaused:
		return "paused"
	case PhaseRotatedPendingReopen:
		return "rotated"
	default:
		return "unknown"
	}
}

// State is the tailer's position bookkeeping.
// Offset <= LastSize except between a rotation and the reset to 0.
type State struct {
	Path     string `json:"path"`
	Offset   int64  `json:"offset"`
	LastSize int64  `json:"last_size"`
	Phase    Phase  `json:"phase"`
}

// Stats counts tailer activity
type Stats struct {
	Ticks        int   `json:"ticks"`
	BytesRead    int64 `json:"bytes_read"`
	Lines        int   `json:"lines"`
	Events       int   `json:"events"`
	Rotations    int   `json:"rotations"`
	OpenFailures int   `json:"open_failures"`
}

// Sink receives classified events in arrival order
type Sink interface {
	HandleEvent(ev domain.LogEvent)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ev domain.LogEvent)

// HandleEvent calls f(ev)
func (f SinkFunc) HandleEvent(ev domain.LogEvent) { f(ev) }

// MultiSink fans each event out to every sink in order
type MultiSink []Sink

// HandleEvent forwards ev to each sink
func (m MultiSink) HandleEvent(ev domain.LogEvent) {
	for _, s := range m {
		if s != nil {
			s.HandleEvent(ev)
		}
	}
}

// Options configures a Tailer
type Options struct {
	Path       string
	ChatPrefix string
	Encoding   string
	Sink       Sink
	Source     FileSource  // defaults to OSFileSource
	Logger     *zap.Logger // defaults to a no-op logger
}

// Tailer reads newly appended text from a log file on each Tick.
// It is not safe for concurrent use; Poller serializes access.
type Tailer struct {
	src        FileSource
	sink       Sink
	classifier *classify.Classifier
	enc        encoding.Encoding
	logger     *zap.Logger

	file       File
	state      State
	positioned bool // Offset refers to real content of the current file
	lastErr    string
	stats      Stats
}

// New creates a closed tailer. Nothing is opened until the first Tick.
func New(opts Options) *Tailer {
	src := opts.Source
	if src == nil {
		src = OSFileSource{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sink := opts.Sink
	if sink == nil {
		sink = MultiSink(nil)
	}
	enc, known := ResolveEncoding(opts.Encoding)
	if !known && opts.Encoding != "" {
		logger.Warn("unknown encoding, falling back to utf-8", zap.String("encoding", opts.Encoding))
	}

	return &Tailer{
		src:        src,
		sink:       sink,
		classifier: classify.New(opts.ChatPrefix),
		enc:        enc,
		logger:     logger,
		state:      State{Path: opts.Path, Phase: PhaseClosed},
	}
}

// State returns a copy of the position bookkeeping
func (t *Tailer) State() State {
	return t.state
}

// Stats returns activity counters
func (t *Tailer) Stats() Stats {
	return t.stats
}

// Paused reports whether reads are suspended
func (t *Tailer) Paused() bool {
	return t.state.Phase == PhasePaused
}

// Tick performs one poll. Failures are absorbed and retried on the next tick.
func (t *Tailer) Tick() {
	t.stats.Ticks++

	switch t.state.Phase {
	case PhasePaused:
		return
	case PhaseClosed:
		if !t.open() {
			return
		}
		if !t.positioned {
			// Existing content is history; start at the end.
			if !t.seekEnd() {
				return
			}
		}
		t.state.Phase = PhaseOpen
	case PhaseRotatedPendingReopen:
		if !t.open() {
			return
		}
		t.resetToStart()
	}

	t.poll()
}

func (t *Tailer) poll() {
	size, err := t.src.Size(t.state.Path)
	if err != nil {
		// The path vanished under an open handle: a rotation is underway.
		t.note("stat", err)
		t.closeFile()
		t.state.Phase = PhaseRotatedPendingReopen
		return
	}

	if size < t.state.LastSize {
		t.stats.Rotations++
		t.logger.Info("log rotation detected",
			zap.String("path", t.state.Path),
			zap.Int64("previous_size", t.state.LastSize),
			zap.Int64("size", size))
		t.closeFile()
		t.state.Phase = PhaseRotatedPendingReopen
		if !t.open() {
			return
		}
		t.resetToStart()
	}

	if _, err := t.file.Seek(t.state.Offset, io.SeekStart); err != nil {
		t.dropHandle("seek", err)
		return
	}
	data, err := io.ReadAll(t.file)
	if err != nil {
		// Retry the same range on the next tick.
		t.dropHandle("read", err)
		return
	}
	// An unterminated line stays in the file until its newline arrives.
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return
	}
	data = data[:end+1]

	t.state.Offset += int64(len(data))
	t.state.LastSize = max(size, t.state.Offset)
	t.stats.BytesRead += int64(len(data))
	t.lastErr = ""

	t.emit(data)
}

func (t *Tailer) emit(data []byte) {
	text := decodeText(t.enc, data)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t.stats.Lines++
		ev, ok := t.classifier.Classify(line)
		if !ok {
			continue
		}
		t.stats.Events++
		t.sink.HandleEvent(ev)
	}
}

// Pause suspends reads. The file and position are left alone.
func (t *Tailer) Pause() {
	t.state.Phase = PhasePaused
}

// Resume jumps to the current end of file. Anything written while paused is
// skipped, never replayed.
func (t *Tailer) Resume() {
	if t.file == nil && !t.open() {
		t.state.Phase = PhaseClosed
		t.positioned = false
		return
	}
	if !t.seekEnd() {
		t.positioned = false
		return
	}
	t.state.Phase = PhaseOpen
}

// Close releases the file handle
func (t *Tailer) Close() {
	t.closeFile()
	t.state.Phase = PhaseClosed
	t.positioned = false
}

func (t *Tailer) open() bool {
	f, err := t.src.Open(t.state.Path)
	if err != nil {
		t.stats.OpenFailures++
		t.note("open", err)
		return false
	}
	t.file = f
	t.lastErr = ""
	t.logger.Debug("opened log", zap.String("path", t.state.Path))
	return true
}

func (t *Tailer) seekEnd() bool {
	end, err := t.file.Seek(0, io.SeekEnd)
	if err != nil {
		t.dropHandle("seek", err)
		return false
	}
	t.state.Offset = end
	t.state.LastSize = end
	t.positioned = true
	return true
}

func (t *Tailer) resetToStart() {
	t.state.Offset = 0
	t.state.LastSize = 0
	t.state.Phase = PhaseOpen
	t.positioned = true
}

// dropHandle closes the file but keeps the position so the next open resumes
// where reading stopped.
func (t *Tailer) dropHandle(op string, err error) {
	t.note(op, err)
	t.closeFile()
	t.state.Phase = PhaseClosed
}

func (t *Tailer) closeFile() {
	if t.file == nil {
		return
	}
	if err := t.file.Close(); err != nil {
		t.logger.Debug("close log", zap.Error(err))
	}
	t.file = nil
}

// note logs a failure once per distinct error instead of every tick
func (t *Tailer) note(op string, err error) {
	msg := op + ": " + err.Error()
	if msg == t.lastErr {
		return
	}
	t.lastErr = msg
	t.logger.Debug("tail "+op+" failed", zap.String("path", t.state.Path), zap.Error(err))
}
