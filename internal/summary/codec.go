// Package summary reads and writes the per-session summary text format and
// rebuilds totals from archived summaries.
package summary

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/slotw/internal/domain"
)

// Line labels of the summary format
const (
	LabelSpent  = "支出:"
	LabelGained = "収入:"
	LabelNet    = "収支:"
	LabelSpins  = "回転数:"
	LabelRoles  = "役情報:"

	// RoleMarker follows the count on each role line
	RoleMarker = "回"
)

var (
	firstIntRe = regexp.MustCompile(`\d+`)
	roleLineRe = regexp.MustCompile(`^(.+?):\s*(\d+)回`)
)

// Encode renders a snapshot as summary text. Roles are listed by descending
// count with ties in first-seen order.
func Encode(s domain.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", LabelSpent, s.TotalSpent)
	fmt.Fprintf(&b, "%s %d\n", LabelGained, s.TotalGained)
	fmt.Fprintf(&b, "%s %+d\n", LabelNet, s.Net())
	fmt.Fprintf(&b, "%s %d\n", LabelSpins, s.SpinCount)

	b.WriteString("\n" + LabelRoles + "\n")
	for _, r := range s.Ranked() {
		fmt.Fprintf(&b, "%s: %d%s (%s%%)\n", r.Name, r.Count, RoleMarker, FormatRate(s.RoleRate(r.Count)))
	}
	return b.String()
}

// FormatRate formats a percentage with two decimals
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 2, 64)
}

// Decode parses summary text. Unknown lines are ignored; only read errors
// are returned. Rates are never read back.
func Decode(r io.Reader) (domain.Snapshot, error) {
	var snap domain.Snapshot

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		decodeLine(&snap, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("read summary: %w", err)
	}
	return snap, nil
}

// DecodeString parses summary text held in memory
func DecodeString(text string) domain.Snapshot {
	snap, _ := Decode(strings.NewReader(text))
	return snap
}

func decodeLine(snap *domain.Snapshot, line string) {
	line = strings.TrimRight(line, "\r")
	switch {
	case strings.HasPrefix(line, LabelSpent):
		snap.TotalSpent += firstInt(line)
	case strings.HasPrefix(line, LabelGained):
		snap.TotalGained += firstInt(line)
	case strings.HasPrefix(line, LabelSpins):
		snap.SpinCount += firstInt(line)
	case strings.Contains(line, ":") && strings.Contains(line, RoleMarker):
		m := roleLineRe.FindStringSubmatch(line)
		if m == nil {
			return
		}
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return
		}
		snap.AddRole(strings.TrimSpace(m[1]), count)
	}
}

// firstInt returns the first integer literal on the line, 0 if none parses
func firstInt(line string) int {
	m := firstIntRe.FindString(line)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
