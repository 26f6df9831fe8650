package output

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatInt renders n with thousands separators
func FormatInt(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatSpent renders money paid out as a negative figure
func FormatSpent(n int) string {
	return "-" + FormatInt(n)
}

// FormatGained renders money received as a positive figure
func FormatGained(n int) string {
	return "+" + FormatInt(n)
}

// FormatNet renders a balance with an explicit sign; zero is "+0"
func FormatNet(n int) string {
	if n >= 0 {
		return "+" + FormatInt(n)
	}
	return FormatInt(n)
}

// FormatPercent renders a rate with two decimals and a percent sign
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64) + "%"
}
