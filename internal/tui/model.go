package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/slotw/internal/domain"
	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/summary"
	"github.com/vburojevic/slotw/internal/tailer"
)

// MaxLines is how many event lines the view keeps
const MaxLines = 500

// topRoles is how many roles the stats panel lists
const topRoles = 5

var highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)

// Controller is the part of a running session the view drives
type Controller interface {
	Toggle() (paused, ok bool)
	Status() (tailer.State, tailer.Stats, bool)
}

// Model represents the TUI state
type Model struct {
	lines       []domain.LogEvent
	content     string
	viewport    viewport.Model
	textinput   textinput.Model
	feed        *Feed
	control     Controller
	snapshot    func() domain.Snapshot
	width       int
	height      int
	ready       bool
	searching   bool
	searchQuery string
	paused      bool
	follow      bool
	phase       tailer.Phase
	warning     string
	slot        string
	path        string
}

// EventMsg carries one classified event
type EventMsg domain.LogEvent

// WarnMsg carries a warning to show in the status line
type WarnMsg string

// pausedMsg reports the result of a pause toggle
type pausedMsg struct {
	paused bool
	ok     bool
}

// statusMsg carries the tailer phase
type statusMsg struct {
	phase tailer.Phase
	ok    bool
}

// TickMsg triggers periodic updates
type TickMsg time.Time

// New creates a new TUI model. snapshot returns the running totals.
func New(slot, path string, feed *Feed, control Controller, snapshot func() domain.Snapshot) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter lines..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		lines:     make([]domain.LogEvent, 0, MaxLines),
		textinput: ti,
		feed:      feed,
		control:   control,
		snapshot:  snapshot,
		follow:    true,
		slot:      slot,
		path:      path,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.feed),
		waitForWarning(m.feed),
		tickCmd(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = ""
				m.rebuild()
			case "enter":
				m.searching = false
				m.textinput.Blur()
				m.searchQuery = m.textinput.Value()
				m.rebuild()
			default:
				m.textinput, cmd = m.textinput.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.textinput.Focus()
			return m, textinput.Blink
		case "esc":
			if m.searchQuery != "" {
				m.searchQuery = ""
				m.textinput.SetValue("")
				m.rebuild()
			}
		case "p", " ":
			cmds = append(cmds, toggleCmd(m.control))
		case "f":
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case "c":
			m.lines = m.lines[:0]
			m.rebuild()
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 + topRoles
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewport()

	case EventMsg:
		m.push(domain.LogEvent(msg))
		cmds = append(cmds, waitForEvent(m.feed))

	case WarnMsg:
		m.warning = string(msg)
		cmds = append(cmds, waitForWarning(m.feed))

	case pausedMsg:
		if msg.ok {
			m.paused = msg.paused
		}

	case statusMsg:
		if msg.ok {
			m.phase = msg.phase
			m.paused = msg.phase == tailer.PhasePaused
		}

	case TickMsg:
		cmds = append(cmds, statusCmd(m.control), tickCmd())
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// push appends an event, dropping the oldest beyond MaxLines
func (m *Model) push(ev domain.LogEvent) {
	if len(m.lines) >= MaxLines {
		copy(m.lines, m.lines[1:])
		m.lines = m.lines[:len(m.lines)-1]
		m.lines = append(m.lines, ev)
		m.rebuild()
		return
	}
	m.lines = append(m.lines, ev)
	if !m.matches(ev) {
		return
	}
	line := m.formatLine(ev)
	if m.content == "" {
		m.content = line
	} else {
		m.content += "\n" + line
	}
	m.updateViewport()
}

// Lines returns the retained event lines, oldest first
func (m Model) Lines() []string {
	out := make([]string, len(m.lines))
	for i, ev := range m.lines {
		out[i] = ev.DisplayText()
	}
	return out
}

// Paused reports whether tailing is paused as last seen by the view
func (m Model) Paused() bool { return m.paused }

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	title := fmt.Sprintf("slotw: %s", m.slot)
	if m.path != "" {
		title += " @ " + m.path
	}
	header := output.Styles.StatusBar.Width(m.width).Render(title)
	if m.paused {
		header = output.Styles.Paused.Render("PAUSED") + " " + header
	}

	var snap domain.Snapshot
	if m.snapshot != nil {
		snap = m.snapshot()
	}
	label := output.Styles.Label.Render
	stats := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		label(summary.LabelSpent), output.Styles.Negative.Render(output.FormatSpent(snap.TotalSpent)),
		label(summary.LabelGained), output.Styles.Positive.Render(output.FormatGained(snap.TotalGained)),
		label(summary.LabelNet), output.NetStyle(snap.Net()).Render(output.FormatNet(snap.Net())),
		label(summary.LabelSpins), output.Styles.Value.Render(output.FormatInt(snap.SpinCount)))

	var b strings.Builder
	b.WriteString(header + "\n" + stats + "\n" + output.Styles.Header.Render(summary.LabelRoles))
	ranked := snap.Ranked()
	for i := 0; i < topRoles; i++ {
		b.WriteByte('\n')
		if i < len(ranked) {
			r := ranked[i]
			fmt.Fprintf(&b, "  %s %s%s (%s)",
				output.Styles.Role.Render(r.Name), output.FormatInt(r.Count), summary.RoleMarker,
				output.FormatPercent(snap.RoleRate(r.Count)))
		}
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.searching {
		return m.textinput.View()
	}

	status := fmt.Sprintf("tail: %s | lines: %d/%d", m.phase, len(m.lines), MaxLines)
	if !m.follow {
		status += " | no-follow"
	}
	if m.searchQuery != "" {
		status += fmt.Sprintf(" | filter: %q", m.searchQuery)
	}
	if m.warning != "" {
		status += " | " + output.Styles.Warning.Render(m.warning)
	}

	help := "q:quit p:pause /:filter f:follow c:clear g/G:top/bottom j/k:scroll"
	return output.Styles.Help.Width(m.width).Render(status) + "\n" + output.Styles.Help.Width(m.width).Render(help)
}

func (m *Model) rebuild() {
	var b strings.Builder
	for _, ev := range m.lines {
		if !m.matches(ev) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.formatLine(ev))
	}
	m.content = b.String()
	m.updateViewport()
}

func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) matches(ev domain.LogEvent) bool {
	if m.searchQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(ev.Content), strings.ToLower(m.searchQuery))
}

func (m *Model) formatLine(ev domain.LogEvent) string {
	msg := ev.Content
	if m.searchQuery != "" {
		msg = highlight(msg, m.searchQuery)
	}
	line := output.KindIndicator(ev.Kind) + " "
	if ev.Timestamp != "" {
		line += output.Styles.Timestamp.Render(ev.Timestamp) + " "
	}
	return line + output.KindStyle(ev.Kind).Render(msg)
}

func highlight(s, query string) string {
	if query == "" || s == "" {
		return s
	}
	qs := strings.ToLower(query)
	ls := strings.ToLower(s)
	var b strings.Builder
	for {
		idx := strings.Index(ls, qs)
		if idx < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		b.WriteString(highlightStyle.Render(s[idx : idx+len(qs)]))
		s = s[idx+len(qs):]
		ls = ls[idx+len(qs):]
	}
	return b.String()
}

func waitForEvent(f *Feed) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-f.events:
			return EventMsg(ev)
		case <-f.done:
			return nil
		}
	}
}

func waitForWarning(f *Feed) tea.Cmd {
	return func() tea.Msg {
		select {
		case w := <-f.warnings:
			return WarnMsg(w)
		case <-f.done:
			return nil
		}
	}
}

func toggleCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		paused, ok := c.Toggle()
		return pausedMsg{paused: paused, ok: ok}
	}
}

func statusCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		state, _, ok := c.Status()
		return statusMsg{phase: state.Phase, ok: ok}
	}
}

// tickCmd creates a periodic tick command
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
