package tailer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/slotw/internal/domain"
)

func startPoller(t *testing.T, p *Poller) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	// Status round-trips through the loop, so Run is ticking once it returns.
	_, _, ok := p.Status()
	require.True(t, ok)

	return func() {
		cancelCtx()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("poller did not stop")
		}
	}
}

func TestPollerTicksOnInterval(t *testing.T) {
	fs := newMemFS()
	fs.write(testPath, "history\n")
	rec := &recorder{}
	clk := clock.NewMock()
	p := NewPoller(newTestTailer(fs, rec), clk, time.Second)

	var ticks atomic.Int64
	p.AfterTick = func(State, Stats) { ticks.Add(1) }

	stop := startPoller(t, p)
	defer stop()

	st, _, _ := p.Status()
	assert.Equal(t, PhaseOpen, st.Phase, "first tick runs immediately")
	assert.Equal(t, int64(1), ticks.Load())

	fs.append(testPath, line("1,000円支払いました"))
	clk.Add(time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)

	fs.append(testPath, line("[Man10Slot]外れました"))
	clk.Add(time.Second)
	require.Eventually(t, func() bool { return len(rec.all()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"1,000円支払いました", "[Man10Slot]外れました"}, rec.contents())
}

func TestPollerPauseResume(t *testing.T) {
	fs := newMemFS()
	fs.write(testPath, "")
	rec := &recorder{}
	clk := clock.NewMock()
	p := NewPoller(newTestTailer(fs, rec), clk, 500*time.Millisecond)

	stop := startPoller(t, p)
	defer stop()

	require.True(t, p.Pause())
	fs.append(testPath, line("100円支払いました"))

	_, before, _ := p.Status()
	clk.Add(500 * time.Millisecond)
	require.Eventually(t, func() bool {
		_, stats, _ := p.Status()
		return stats.Ticks > before.Ticks
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, rec.all())

	paused, ok := p.Toggle()
	require.True(t, ok)
	assert.False(t, paused)

	fs.append(testPath, line("200円支払いました"))
	clk.Add(500 * time.Millisecond)
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"200円支払いました"}, rec.contents())

	paused, ok = p.Toggle()
	require.True(t, ok)
	assert.True(t, paused)
	require.True(t, p.Resume())
}

func TestPollerStopClosesTailer(t *testing.T) {
	fs := newMemFS()
	fs.write(testPath, "x\n")
	p := NewPoller(newTestTailer(fs, nil), clock.NewMock(), 0)
	assert.Equal(t, DefaultInterval, p.Interval())

	stop := startPoller(t, p)
	stop()

	select {
	case <-p.Done():
	default:
		t.Fatal("Done not closed after Run returned")
	}
	assert.False(t, p.Pause())
	_, _, ok := p.Status()
	assert.False(t, ok)

	opened, closed := fs.handles()
	assert.Equal(t, opened, closed)
}

// blockingSink holds the first event until released
type blockingSink struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSink) HandleEvent(domain.LogEvent) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
}

func TestPollerSkipsOverrunTicks(t *testing.T) {
	fs := newMemFS()
	fs.write(testPath, "")
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	clk := clock.NewMock()
	p := NewPoller(newTestTailer(fs, sink), clk, time.Second)

	stop := startPoller(t, p)
	defer stop()

	fs.append(testPath, line("[Man10Slot]外れました"))
	clk.Add(time.Second)
	select {
	case <-sink.entered:
	case <-time.After(time.Second):
		close(sink.release)
		t.Fatal("tick did not reach the sink")
	}

	// Three periods pass while the second tick is stuck in the sink.
	for i := 0; i < 3; i++ {
		clk.Add(time.Second)
	}
	close(sink.release)

	_, stats, ok := p.Status()
	require.True(t, ok)
	assert.Equal(t, 2, stats.Ticks, "missed periods are dropped, not replayed")

	clk.Add(time.Second)
	require.Eventually(t, func() bool {
		_, stats, _ := p.Status()
		return stats.Ticks == 3
	}, time.Second, 5*time.Millisecond)
	_, stats, _ = p.Status()
	assert.Equal(t, 3, stats.Ticks)
}
