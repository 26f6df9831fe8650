package tui

import (
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/slotw/internal/domain"
	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/tailer"
)

func init() {
	output.DisableColors()
}

type fakeControl struct {
	mu      sync.Mutex
	paused  bool
	toggles int
	phase   tailer.Phase
	stopped bool
}

func (c *fakeControl) Toggle() (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false, false
	}
	c.toggles++
	c.paused = !c.paused
	return c.paused, true
}

func (c *fakeControl) Status() (tailer.State, tailer.Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tailer.State{Phase: c.phase}, tailer.Stats{}, !c.stopped
}

func newModel(t *testing.T, snap domain.Snapshot) (Model, *fakeControl) {
	t.Helper()
	ctrl := &fakeControl{phase: tailer.PhaseOpen}
	m := New("man10", "/logs/latest.log", NewFeed(8), ctrl, func() domain.Snapshot { return snap })
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), ctrl
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeSize(t *testing.T) {
	m := New("man10", "", NewFeed(1), &fakeControl{}, nil)
	assert.Equal(t, "Initializing...", m.View())
}

func TestViewShowsStatsAndEvents(t *testing.T) {
	snap := domain.Snapshot{TotalSpent: 12000, TotalGained: 2500, SpinCount: 12}
	snap.AddRole("BIG", 3)
	snap.AddRole("REG", 1)
	m, _ := newModel(t, snap)

	m, _ = send(m, EventMsg(domain.LogEvent{Kind: domain.KindPayment, Amount: 1000, Timestamp: "[21:05:10]", Content: "1,000円支払いました"}))
	view := m.View()

	assert.Contains(t, view, "slotw: man10")
	assert.Contains(t, view, "-12,000")
	assert.Contains(t, view, "+2,500")
	assert.Contains(t, view, "-9,500")
	assert.Contains(t, view, "BIG 3回 (75.00%)")
	assert.Contains(t, view, "[21:05:10]")
	assert.Contains(t, view, "1,000円支払いました")
	assert.Equal(t, []string{"[21:05:10] 1,000円支払いました"}, m.Lines())
}

func TestLinesAreBounded(t *testing.T) {
	m, _ := newModel(t, domain.Snapshot{})
	for i := 0; i < MaxLines+20; i++ {
		m, _ = send(m, EventMsg(domain.LogEvent{Kind: domain.KindLoss, Content: fmt.Sprintf("line %d", i)}))
	}

	lines := m.Lines()
	require.Len(t, lines, MaxLines)
	assert.Equal(t, "line 20", lines[0])
	assert.Equal(t, fmt.Sprintf("line %d", MaxLines+19), lines[MaxLines-1])
}

func TestPauseKeyTogglesController(t *testing.T) {
	m, ctrl := newModel(t, domain.Snapshot{})

	m, cmd := send(m, key("p"))
	require.NotNil(t, cmd)
	m, _ = send(m, findMsg(t, cmd))
	assert.True(t, m.Paused())
	assert.Contains(t, m.View(), "PAUSED")

	m, cmd = send(m, key(" "))
	m, _ = send(m, findMsg(t, cmd))
	assert.False(t, m.Paused())
	assert.Equal(t, 2, ctrl.toggles)
}

func TestToggleAfterStopIsIgnored(t *testing.T) {
	m, ctrl := newModel(t, domain.Snapshot{})
	ctrl.stopped = true

	m, cmd := send(m, key("p"))
	m, _ = send(m, findMsg(t, cmd))
	assert.False(t, m.Paused())
}

func TestStatusTracksPhase(t *testing.T) {
	m, _ := newModel(t, domain.Snapshot{})
	m, _ = send(m, statusMsg{phase: tailer.PhaseRotatedPendingReopen, ok: true})
	assert.Contains(t, m.View(), "tail: rotated")

	m, _ = send(m, statusMsg{phase: tailer.PhasePaused, ok: true})
	assert.True(t, m.Paused())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		m, _ := newModel(t, domain.Snapshot{})
		_, cmd := send(m, k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestFilterAndClear(t *testing.T) {
	m, _ := newModel(t, domain.Snapshot{})
	m, _ = send(m, EventMsg(domain.LogEvent{Kind: domain.KindGain, Content: "2,500円受け取りました"}))
	m, _ = send(m, EventMsg(domain.LogEvent{Kind: domain.KindLoss, Content: "[Man10Slot]外れました"}))

	m, _ = send(m, key("/"))
	for _, r := range "man10" {
		m, _ = send(m, key(string(r)))
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	assert.Contains(t, view, `filter: "man10"`)
	assert.NotContains(t, view, "受け取りました")
	assert.Contains(t, view, "外れました")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, m.View(), "受け取りました")

	m, _ = send(m, key("c"))
	assert.Empty(t, m.Lines())
}

func TestWarningShown(t *testing.T) {
	m, _ := newModel(t, domain.Snapshot{})
	m, _ = send(m, WarnMsg("cannot write session log"))
	assert.Contains(t, m.View(), "cannot write session log")
}

func TestFeedDeliversAndCloses(t *testing.T) {
	f := NewFeed(1)
	f.HandleEvent(domain.LogEvent{Kind: domain.KindLoss, Content: "x"})
	msg := waitForEvent(f)()
	assert.Equal(t, EventMsg(domain.LogEvent{Kind: domain.KindLoss, Content: "x"}), msg)

	f.Warn("w")
	assert.Equal(t, WarnMsg("w"), waitForWarning(f)())

	f.Close()
	f.Close()
	// Buffer is free again, then a full buffer must not block after Close.
	f.HandleEvent(domain.LogEvent{})
	f.HandleEvent(domain.LogEvent{})
}

// findMsg runs cmd, unpacking batches, and returns the first pausedMsg
func findMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	var queue []tea.Cmd
	queue = append(queue, cmd)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case pausedMsg:
			return msg
		}
	}
	t.Fatal("no pause result produced")
	return nil
}
