// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"math"
	"strings"
	"time"
)

// MaxGraceDays is the largest grace period, in days, that still fits in a time.Duration.
const MaxGraceDays = int(math.MaxInt64 / int64(24*time.Hour))

// Module is a named unit of work (an assignment, a lab) with a submission window.
type Module struct {
	Name  string    `json:"name" yaml:"name"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// AdmissionDeadline returns the last creation instant that is still considered
// relevant to the module. Grace extends admission only, never the deadline itself.
func (m Module) AdmissionDeadline(grace time.Duration) time.Time {
	return m.End.Add(grace)
}

// Admits reports whether a repository created at created falls inside
// [Start, End+grace]. Both bounds are inclusive.
func (m Module) Admits(created time.Time, grace time.Duration) bool {
	return !created.Before(m.Start) && !created.After(m.AdmissionDeadline(grace))
}

// IsLate reports whether repo was admitted to the module and last updated
// strictly after the unextended end.
func (m Module) IsLate(repo Repository, grace time.Duration) bool {
	return m.Admits(repo.CreatedAt, grace) && repo.UpdatedAt.After(m.End)
}

// Repository is the subset of hosting metadata the filter looks at.
type Repository struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesName reports whether the repository name contains filter, ignoring case.
// An empty filter matches everything.
func (r Repository) MatchesName(filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter))
}
