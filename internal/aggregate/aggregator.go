// Package aggregate folds classified slot events into running totals.
package aggregate

import (
	"sync"

	"github.com/vburojevic/slotw/internal/domain"
)

// Aggregator accumulates totals, spin count and role frequencies.
// Counters only ever grow; there is no undo.
type Aggregator struct {
	mu        sync.Mutex
	snap      domain.Snapshot
	roleIndex map[string]int
	events    int
}

// New creates an empty aggregator
func New() *Aggregator {
	return &Aggregator{roleIndex: make(map[string]int)}
}

// Apply folds one event into the running counters
func (a *Aggregator) Apply(ev domain.LogEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events++
	switch ev.Kind {
	case domain.KindPayment:
		a.snap.TotalSpent += ev.Amount
	case domain.KindGain:
		a.snap.TotalGained += ev.Amount
	case domain.KindRoleHit:
		if i, ok := a.roleIndex[ev.Role]; ok {
			a.snap.Roles[i].Count++
		} else {
			a.roleIndex[ev.Role] = len(a.snap.Roles)
			a.snap.Roles = append(a.snap.Roles, domain.RoleCount{Name: ev.Role, Count: 1})
		}
	}
	if ev.Kind.CountsAsSpin() {
		a.snap.SpinCount++
	}
}

// HandleEvent lets the aggregator sit directly behind a tailer
func (a *Aggregator) HandleEvent(ev domain.LogEvent) {
	a.Apply(ev)
}

// Snapshot returns a copy of the current counters without resetting them
func (a *Aggregator) Snapshot() domain.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.Clone()
}

// Events returns how many events have been applied
func (a *Aggregator) Events() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events
}

// HasEvents reports whether anything was applied yet
func (a *Aggregator) HasEvents() bool {
	return a.Events() > 0
}
