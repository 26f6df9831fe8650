package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/slotw/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Event kinds
	Payment lipgloss.Style
	Gain    lipgloss.Style
	Loss    lipgloss.Style
	Role    lipgloss.Style

	Timestamp lipgloss.Style
	Message   lipgloss.Style

	// Summary styles
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Warning  lipgloss.Style
	Danger   lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Paused    lipgloss.Style
	Help      lipgloss.Style
}{
	Payment: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),            // Soft red
	Gain:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),             // Green
	Loss:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),            // Gray
	Role:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true), // Yellow bold

	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Message:   lipgloss.NewStyle(),

	Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:    lipgloss.NewStyle().Bold(true),
	Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	Danger:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Paused:    lipgloss.NewStyle().Background(lipgloss.Color("214")).Foreground(lipgloss.Color("16")).Bold(true).Padding(0, 1),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// KindStyle returns the style used for an event kind
func KindStyle(kind domain.EventKind) lipgloss.Style {
	switch kind {
	case domain.KindPayment:
		return Styles.Payment
	case domain.KindGain:
		return Styles.Gain
	case domain.KindLoss:
		return Styles.Loss
	case domain.KindRoleHit:
		return Styles.Role
	default:
		return Styles.Message
	}
}

// KindIndicator returns a short styled tag for an event kind
func KindIndicator(kind domain.EventKind) string {
	style := KindStyle(kind)
	switch kind {
	case domain.KindPayment:
		return style.Render("PAY")
	case domain.KindGain:
		return style.Render("WIN")
	case domain.KindLoss:
		return style.Render("MIS")
	case domain.KindRoleHit:
		return style.Render("ROL")
	default:
		return style.Render("???")
	}
}

// NetStyle colors a balance by its sign
func NetStyle(net int) lipgloss.Style {
	if net < 0 {
		return Styles.Negative
	}
	return Styles.Positive
}

// DisableColors strips colors and emphasis from every style. Used when
// output is not a terminal.
func DisableColors() {
	plain := func(s lipgloss.Style) lipgloss.Style {
		return s.UnsetForeground().UnsetBackground().UnsetBold().UnsetPadding()
	}
	Styles.Payment = plain(Styles.Payment)
	Styles.Gain = plain(Styles.Gain)
	Styles.Loss = plain(Styles.Loss)
	Styles.Role = plain(Styles.Role)
	Styles.Timestamp = plain(Styles.Timestamp)
	Styles.Header = plain(Styles.Header)
	Styles.Label = plain(Styles.Label)
	Styles.Value = plain(Styles.Value)
	Styles.Positive = plain(Styles.Positive)
	Styles.Negative = plain(Styles.Negative)
	Styles.Warning = plain(Styles.Warning)
	Styles.Danger = plain(Styles.Danger)
}
