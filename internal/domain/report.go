package domain

import "time"

// LateRepository is a repository judged late for one module.
type LateRepository struct {
	Name           string    `json:"name" yaml:"name"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
	OverdueSeconds float64   `json:"overdue_seconds" yaml:"overdue_seconds"`
}

// Overdue is how long after the module deadline the repository was last updated.
func (l LateRepository) Overdue() time.Duration {
	return time.Duration(l.OverdueSeconds * float64(time.Second))
}

// ModuleResult holds the late repositories found for a single module
// together with summary statistics over their overdue durations.
type ModuleResult struct {
	Module               Module           `json:"module" yaml:"module"`
	Late                 []LateRepository `json:"late" yaml:"late"`
	MedianOverdueSeconds float64          `json:"median_overdue_seconds" yaml:"median_overdue_seconds"`
	MaxOverdueSeconds    float64          `json:"max_overdue_seconds" yaml:"max_overdue_seconds"`
}

// Report is the outcome of one scan. It is the core output entity of this application.
type Report struct {
	Organization string          `json:"organization" yaml:"organization"`
	NameFilter   string          `json:"name_filter,omitempty" yaml:"name_filter,omitempty"`
	GraceDays    int             `json:"grace_days" yaml:"grace_days"`
	TotalRepos   int             `json:"total_repos" yaml:"total_repos"`
	MatchedRepos int             `json:"matched_repos" yaml:"matched_repos"`
	Modules      []*ModuleResult `json:"modules" yaml:"modules"`
}

// Filtered reports whether a name filter was active for the scan.
func (r *Report) Filtered() bool {
	return r.NameFilter != ""
}
