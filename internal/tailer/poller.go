package tailer

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultInterval is the poll period used when none is configured
const DefaultInterval = time.Second

// Poller owns a Tailer and ticks it on a fixed period from one goroutine.
// Other goroutines reach the tailer only through Do.
type Poller struct {
	tailer   *Tailer
	clock    clock.Clock
	interval time.Duration

	cmds    chan func(*Tailer)
	stopped chan struct{}

	// AfterTick, when set, runs on the poll goroutine after every tick
	AfterTick func(State, Stats)
}

// NewPoller creates a poller. A nil clock uses the wall clock.
func NewPoller(t *Tailer, clk clock.Clock, interval time.Duration) *Poller {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		tailer:   t,
		clock:    clk,
		interval: interval,
		cmds:     make(chan func(*Tailer)),
		stopped:  make(chan struct{}),
	}
}

// Interval returns the poll period
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run ticks once right away, then on every period until ctx is done.
// The tailer is closed before Run returns.
func (p *Poller) Run(ctx context.Context) error {
	defer func() {
		p.tailer.Close()
		close(p.stopped)
	}()

	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()

	p.tick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-p.cmds:
			fn(p.tailer)
		case <-ticker.C:
			p.tick()
			// A tick that overran its period is skipped, not queued.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (p *Poller) tick() {
	p.tailer.Tick()
	if p.AfterTick != nil {
		p.AfterTick(p.tailer.State(), p.tailer.Stats())
	}
}

// Do runs fn on the poll goroutine and waits for it. It reports false when
// the poller has stopped. Do blocks until Run is started.
func (p *Poller) Do(fn func(*Tailer)) bool {
	done := make(chan struct{})
	wrapped := func(t *Tailer) {
		defer close(done)
		fn(t)
	}
	select {
	case p.cmds <- wrapped:
	case <-p.stopped:
		return false
	}
	select {
	case <-done:
		return true
	case <-p.stopped:
		return false
	}
}

// Pause suspends reads
func (p *Poller) Pause() bool {
	return p.Do(func(t *Tailer) { t.Pause() })
}

// Resume continues from the current end of file
func (p *Poller) Resume() bool {
	return p.Do(func(t *Tailer) { t.Resume() })
}

// Toggle flips between paused and running and returns the new paused state
func (p *Poller) Toggle() (paused bool, ok bool) {
	ok = p.Do(func(t *Tailer) {
		if t.Paused() {
			t.Resume()
		} else {
			t.Pause()
		}
		paused = t.Paused()
	})
	return paused, ok
}

// Status returns the tailer's state and counters
func (p *Poller) Status() (State, Stats, bool) {
	var (
		st    State
		stats Stats
	)
	ok := p.Do(func(t *Tailer) {
		st = t.State()
		stats = t.Stats()
	})
	return st, stats, ok
}

// Done is closed once Run has returned
func (p *Poller) Done() <-chan struct{} {
	return p.stopped
}
