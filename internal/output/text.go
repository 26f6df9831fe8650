package output

import (
	"io"
	"strings"
	"time"

	"github.com/vburojevic/slotw/internal/domain"
	"github.com/vburojevic/slotw/internal/summary"
)

// TextWriter writes events and stats as styled text
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteEvent outputs one event as "[HH:MM:SS] TAG content". The chat
// timestamp is used when the line had one, otherwise the receive time.
func (w *TextWriter) WriteEvent(at time.Time, ev domain.LogEvent) error {
	ts := ev.Timestamp
	if ts == "" {
		ts = at.Format("[15:04:05]")
	}
	line := Styles.Timestamp.Render(ts) + " " + KindIndicator(ev.Kind) + " " + KindStyle(ev.Kind).Render(ev.Content) + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteStats outputs totals followed by the ranked role table
func (w *TextWriter) WriteStats(title string, s domain.Snapshot) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(Styles.Header.Render(title))
		b.WriteString("\n")
	}
	row := func(label, value string) {
		b.WriteString(Styles.Label.Render(padLabel(label)))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	row(summary.LabelSpent, Styles.Negative.Render(FormatSpent(s.TotalSpent)))
	row(summary.LabelGained, Styles.Positive.Render(FormatGained(s.TotalGained)))
	row(summary.LabelNet, NetStyle(s.Net()).Render(FormatNet(s.Net())))
	row(summary.LabelSpins, Styles.Value.Render(FormatInt(s.SpinCount)))

	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return err
	}
	if len(s.Roles) == 0 {
		return nil
	}
	if _, err := io.WriteString(w.w, "\n"+Styles.Label.Render(summary.LabelRoles)+"\n"); err != nil {
		return err
	}
	return RenderRoleTable(w.w, s)
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string) error {
	line := Styles.Danger.Render("Error") + " " + Styles.Warning.Render("["+code+"]") + ": " + message + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteWarning outputs a styled warning
func (w *TextWriter) WriteWarning(message string) error {
	_, err := io.WriteString(w.w, Styles.Warning.Render("Warning:")+" "+message+"\n")
	return err
}

// labels are aligned on display width; the Japanese labels are double width
func padLabel(label string) string {
	const width = 8
	w := 0
	for _, r := range label {
		if r > 0x2e80 {
			w += 2
		} else {
			w++
		}
	}
	if w >= width {
		return label
	}
	return label + strings.Repeat(" ", width-w)
}
