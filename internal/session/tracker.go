// Package session runs one watch session: it wires the tailer to the
// aggregator and the display, keeps the raw transcript, and archives the
// summary when the session stops.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vburojevic/slotw/internal/aggregate"
	"github.com/vburojevic/slotw/internal/domain"
	"github.com/vburojevic/slotw/internal/metrics"
	"github.com/vburojevic/slotw/internal/sessionlog"
	"github.com/vburojevic/slotw/internal/summary"
	"github.com/vburojevic/slotw/internal/tailer"
)

// ErrNoSlotName is returned when logs are saved but no slot name is set
var ErrNoSlotName = errors.New("slot name is required when saving logs")

// Options configure a Tracker
type Options struct {
	ID         string // session identifier stamped on output
	Path       string
	Encoding   string
	ChatPrefix string
	Interval   time.Duration

	Slot     string
	LogDir   string
	SaveLogs bool
	MaxLogMB int

	MetricsTextfile string

	// Display receives every event after the counters are updated
	Display tailer.Sink
	// OnWarning reports non-fatal problems the user should see
	OnWarning func(msg string)

	Clock  clock.Clock
	Logger *zap.Logger
	Source tailer.FileSource
}

// Result describes a finished session
type Result struct {
	ID          string
	Slot        string
	Snapshot    domain.Snapshot
	Events      int
	Duration    time.Duration
	SummaryPath string // empty when nothing was archived
	LogPath     string
	LogDisabled bool // the session log stopped early (write failure or size cap)
	Tail        tailer.Stats
}

// Tracker owns the pipeline for one session
type Tracker struct {
	opts     Options
	clock    clock.Clock
	logger   *zap.Logger
	started  time.Time
	agg      *aggregate.Aggregator
	recorder *metrics.Recorder
	rawLog   *sessionlog.Writer
	tail     *tailer.Tailer
	poller   *tailer.Poller
}

// NewTracker validates opts and assembles the pipeline. Nothing is read
// until Run.
func NewTracker(opts Options) (*Tracker, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("log file path is required")
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", opts.Interval)
	}
	opts.Slot = strings.TrimSpace(opts.Slot)
	if opts.SaveLogs {
		if opts.Slot == "" {
			return nil, ErrNoSlotName
		}
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Tracker{
		opts:     opts,
		clock:    clk,
		logger:   logger.With(zap.String("session", opts.ID)),
		started:  clk.Now(),
		agg:      aggregate.New(),
		recorder: metrics.NewRecorder(prometheus.Labels{"slot": opts.Slot}),
	}

	sinks := tailer.MultiSink{t.agg}
	if opts.SaveLogs {
		path := filepath.Join(opts.LogDir, summary.LogFileName(opts.Slot, t.started))
		t.rawLog = sessionlog.New(path, opts.MaxLogMB, t.rawLogFailed, t.logger)
		sinks = append(sinks, t.rawLog)
	}
	sinks = append(sinks, t.recorder)
	if opts.Display != nil {
		sinks = append(sinks, opts.Display)
	}

	t.tail = tailer.New(tailer.Options{
		Path:       opts.Path,
		ChatPrefix: opts.ChatPrefix,
		Encoding:   opts.Encoding,
		Sink:       sinks,
		Source:     opts.Source,
		Logger:     t.logger,
	})
	t.poller = tailer.NewPoller(t.tail, clk, opts.Interval)
	t.poller.AfterTick = t.recorder.ObserveTailer
	return t, nil
}

func (t *Tracker) rawLogFailed(err error) {
	if t.opts.OnWarning != nil {
		t.opts.OnWarning(fmt.Sprintf("cannot write session log, recording disabled: %v", err))
	}
}

// ID returns the session identifier
func (t *Tracker) ID() string { return t.opts.ID }

// StartedAt returns when the session was created
func (t *Tracker) StartedAt() time.Time { return t.started }

// Poller exposes pause, resume and status for interactive front ends
func (t *Tracker) Poller() *tailer.Poller { return t.poller }

// Snapshot returns the running totals
func (t *Tracker) Snapshot() domain.Snapshot { return t.agg.Snapshot() }

// Events returns how many events were classified so far
func (t *Tracker) Events() int { return t.agg.Events() }

// SummaryPath is where the summary will be archived
func (t *Tracker) SummaryPath() string {
	return filepath.Join(t.opts.LogDir, summary.InfoFileName(t.opts.Slot, t.started))
}

// Run tails until ctx is cancelled, then archives the session
func (t *Tracker) Run(ctx context.Context) (*Result, error) {
	t.logger.Info("session started",
		zap.String("path", t.opts.Path),
		zap.String("slot", t.opts.Slot),
		zap.Duration("interval", t.opts.Interval))

	if err := t.poller.Run(ctx); err != nil {
		return nil, err
	}
	return t.finish()
}

func (t *Tracker) finish() (*Result, error) {
	res := &Result{
		ID:       t.opts.ID,
		Slot:     t.opts.Slot,
		Snapshot: t.agg.Snapshot(),
		Events:   t.agg.Events(),
		Duration: t.clock.Since(t.started),
		Tail:     t.tail.Stats(),
	}

	var errs []error
	if t.rawLog != nil {
		if err := t.rawLog.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session log: %w", err))
		}
		if t.rawLog.Lines() > 0 {
			res.LogPath = t.rawLog.Path()
		}
		res.LogDisabled = t.rawLog.Disabled()
	}

	// Sessions that saw nothing leave nothing behind.
	if t.opts.SaveLogs && t.agg.HasEvents() {
		path := t.SummaryPath()
		if err := summary.WriteFile(path, res.Snapshot); err != nil {
			errs = append(errs, fmt.Errorf("write summary %s: %w", path, err))
		} else {
			res.SummaryPath = path
		}
	}

	if t.opts.MetricsTextfile != "" {
		if err := t.recorder.WriteTextfile(t.opts.MetricsTextfile); err != nil {
			errs = append(errs, err)
		}
	}

	t.logger.Info("session stopped",
		zap.Int("events", res.Events),
		zap.Int("spins", res.Snapshot.SpinCount),
		zap.String("summary", res.SummaryPath),
		zap.Duration("duration", res.Duration))

	return res, errors.Join(errs...)
}
