// Package classify turns raw chat log lines into typed slot events.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vburojevic/slotw/internal/domain"
)

var (
	timestampRe = regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\]`)
	paymentRe   = regexp.MustCompile(`^([\d,]+)円支払いました$`)
	gainRe      = regexp.MustCompile(`^([\d,]+)円受け取りました$`)
	lossRe      = regexp.MustCompile(`^\[Man10Slot\]外れました$`)
	roleRe      = regexp.MustCompile(`^\[Man10Slot\]おめでとうございます！(.+)です！$`)
)

// recognizer tries to build an event from a prefix-stripped body
type recognizer func(body string) (domain.LogEvent, bool)

// recognizers run in priority order; the first match wins.
var recognizers = []recognizer{
	amountRecognizer(paymentRe, domain.KindPayment),
	amountRecognizer(gainRe, domain.KindGain),
	recognizeLoss,
	recognizeRole,
}

// Classifier classifies lines for one chat prefix
type Classifier struct {
	prefix string
}

// New creates a classifier bound to chatPrefix
func New(chatPrefix string) *Classifier {
	return &Classifier{prefix: chatPrefix}
}

// Classify classifies a single line with the bound prefix
func (c *Classifier) Classify(line string) (domain.LogEvent, bool) {
	return Classify(line, c.prefix)
}

// Classify returns the event carried by line, or false when the line is not a
// chat line or its body matches none of the known patterns.
func Classify(line, chatPrefix string) (domain.LogEvent, bool) {
	idx := strings.Index(line, chatPrefix)
	if idx < 0 {
		return domain.LogEvent{}, false
	}
	body := strings.TrimSpace(line[idx+len(chatPrefix):])

	for _, recognize := range recognizers {
		ev, ok := recognize(body)
		if !ok {
			continue
		}
		ev.Content = body
		// The timestamp lives before the prefix, so search the whole line.
		ev.Timestamp = timestampRe.FindString(line)
		return ev, true
	}
	return domain.LogEvent{}, false
}

func amountRecognizer(re *regexp.Regexp, kind domain.EventKind) recognizer {
	return func(body string) (domain.LogEvent, bool) {
		m := re.FindStringSubmatch(body)
		if m == nil {
			return domain.LogEvent{}, false
		}
		amount, ok := parseAmount(m[1])
		if !ok {
			return domain.LogEvent{}, false
		}
		return domain.LogEvent{Kind: kind, Amount: amount}, true
	}
}

func recognizeLoss(body string) (domain.LogEvent, bool) {
	if !lossRe.MatchString(body) {
		return domain.LogEvent{}, false
	}
	return domain.LogEvent{Kind: domain.KindLoss}, true
}

func recognizeRole(body string) (domain.LogEvent, bool) {
	m := roleRe.FindStringSubmatch(body)
	if m == nil {
		return domain.LogEvent{}, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return domain.LogEvent{}, false
	}
	return domain.LogEvent{Kind: domain.KindRoleHit, Role: name}, true
}

// parseAmount strips thousands separators. Empty or overflowing values fail.
func parseAmount(s string) (int, bool) {
	digits := strings.ReplaceAll(s, ",", "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
