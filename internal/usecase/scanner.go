// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/naka-gawa/late-repos/internal/domain"
	"github.com/naka-gawa/late-repos/internal/gateway"
)

// Progress receives advance notice of the repository count and one tick per
// repository examined.
type Progress interface {
	Start(total int)
	Increment()
	Done()
}

type nopProgress struct{}

func (nopProgress) Start(int)  {}
func (nopProgress) Increment() {}
func (nopProgress) Done()      {}

// Options controls which repositories are considered and how far admission extends.
type Options struct {
	// NameFilter restricts the scan to repositories whose name contains it, ignoring case.
	NameFilter string
	// GraceDays widens each module's admission window past its end.
	GraceDays int
}

// Grace returns GraceDays as a duration. GraceDays must not exceed domain.MaxGraceDays.
func (o Options) Grace() time.Duration {
	return time.Duration(o.GraceDays) * 24 * time.Hour
}

// Scanner is the use case for finding late repositories.
// It orchestrates fetching repositories and classifying them against modules.
type Scanner struct {
	fetcher  gateway.Fetcher
	progress Progress
	logger   *zap.Logger
}

// NewScanner creates a new Scanner instance. A nil progress disables progress reporting.
func NewScanner(fetcher gateway.Fetcher, progress Progress, logger *zap.Logger) *Scanner {
	if progress == nil {
		progress = nopProgress{}
	}
	return &Scanner{
		fetcher:  fetcher,
		progress: progress,
		logger:   logger,
	}
}

// Scan fetches every repository of org one at a time and folds it into a report.
// Any remote failure aborts the scan and no report is returned.
func (s *Scanner) Scan(ctx context.Context, org string, modules []domain.Module, opts Options) (*domain.Report, error) {
	if opts.GraceDays < 0 || opts.GraceDays > domain.MaxGraceDays {
		return nil, fmt.Errorf("invalid grace period %d: must be between 0 and %d days", opts.GraceDays, domain.MaxGraceDays)
	}
	s.logger.Debug("Usecase: Starting scan...",
		zap.String("org", org),
		zap.Int("modules", len(modules)),
		zap.String("name_filter", opts.NameFilter),
		zap.Int("grace_days", opts.GraceDays),
	)

	total, err := s.fetcher.CountRepositories(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}
	s.progress.Start(total)
	defer s.progress.Done()

	report := &domain.Report{
		Organization: org,
		NameFilter:   opts.NameFilter,
		GraceDays:    opts.GraceDays,
	}
	registry := domain.NewLateRegistry(modules)

	err = s.fetcher.FetchRepositories(ctx, org, func(repo domain.Repository) error {
		Classify(repo, modules, opts, registry, report)
		s.progress.Increment()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read repositories: %w", err)
	}

	report.Modules = registry.Results()
	for _, result := range report.Modules {
		summarize(result)
	}
	s.logger.Debug("Usecase: Scan complete.",
		zap.Int("total", report.TotalRepos),
		zap.Int("matched", report.MatchedRepos),
	)
	return report, nil
}

// Classify folds one repository into registry and the report counters.
// A repository may be late for any number of modules.
func Classify(repo domain.Repository, modules []domain.Module, opts Options, registry *domain.LateRegistry, report *domain.Report) {
	report.TotalRepos++
	if opts.NameFilter != "" {
		if !repo.MatchesName(opts.NameFilter) {
			return
		}
		report.MatchedRepos++
	}

	grace := opts.Grace()
	for _, m := range modules {
		if m.IsLate(repo, grace) {
			registry.Add(m, repo)
		}
	}
}

// summarize fills in the overdue statistics of a module result.
func summarize(result *domain.ModuleResult) {
	if len(result.Late) == 0 {
		return
	}
	overdue := make(stats.Float64Data, 0, len(result.Late))
	for _, late := range result.Late {
		overdue = append(overdue, late.OverdueSeconds)
	}
	// Errors only occur for empty input, which is excluded above.
	result.MedianOverdueSeconds, _ = overdue.Median()
	result.MaxOverdueSeconds, _ = overdue.Max()
}
