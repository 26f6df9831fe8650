package domain

import "sort"

// RoleCount is the number of times a role (prize name) was hit
type RoleCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Snapshot is a point-in-time copy of aggregate counters.
// Roles are kept in first-seen order.
type Snapshot struct {
	TotalSpent  int         `json:"totalSpent"`
	TotalGained int         `json:"totalGained"`
	SpinCount   int         `json:"spinCount"`
	Roles       []RoleCount `json:"roles,omitempty"`
}

// Net is gained minus spent. It is derived, never stored.
func (s Snapshot) Net() int {
	return s.TotalGained - s.TotalSpent
}

// TotalRoleHits sums all role counts
func (s Snapshot) TotalRoleHits() int {
	total := 0
	for _, r := range s.Roles {
		total += r.Count
	}
	return total
}

// RoleCounts returns the role counts keyed by name
func (s Snapshot) RoleCounts() map[string]int {
	m := make(map[string]int, len(s.Roles))
	for _, r := range s.Roles {
		m[r.Name] += r.Count
	}
	return m
}

// Ranked returns roles ordered by descending count. Ties keep first-seen order.
func (s Snapshot) Ranked() []RoleCount {
	ranked := make([]RoleCount, len(s.Roles))
	copy(ranked, s.Roles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// RoleRate is count as a percentage of all role hits, 0 when there are none.
func (s Snapshot) RoleRate(count int) float64 {
	total := s.TotalRoleHits()
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// AddRole adds n hits to the named role, appending it if unseen
func (s *Snapshot) AddRole(name string, n int) {
	for i := range s.Roles {
		if s.Roles[i].Name == name {
			s.Roles[i].Count += n
			return
		}
	}
	s.Roles = append(s.Roles, RoleCount{Name: name, Count: n})
}

// Merge folds other into s: totals add, role counts add per name and names
// not yet present are appended in other's order.
func (s *Snapshot) Merge(other Snapshot) {
	s.TotalSpent += other.TotalSpent
	s.TotalGained += other.TotalGained
	s.SpinCount += other.SpinCount
	for _, r := range other.Roles {
		s.AddRole(r.Name, r.Count)
	}
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Roles != nil {
		c.Roles = make([]RoleCount, len(s.Roles))
		copy(c.Roles, s.Roles)
	}
	return c
}
