package presenter

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// TableWriter renders the report as an ASCII table.
type TableWriter struct {
	baseWriter
}

// Write implements Writer.
func (w *TableWriter) Write(report *domain.Report) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Late repositories in %s", report.Organization)
	t.AppendHeader(table.Row{"Module", "Repository", "Created At", "Updated At", "Overdue"})

	for _, result := range report.Modules {
		if len(result.Late) == 0 {
			t.AppendRow(table.Row{result.Module.Name, "-", "", "", ""})
		}
		for _, late := range result.Late {
			t.AppendRow(table.Row{
				result.Module.Name,
				late.Name,
				w.timestamp(late.CreatedAt),
				w.timestamp(late.UpdatedAt),
				overdue(late.OverdueSeconds),
			})
		}
		t.AppendSeparator()
	}

	summary := fmt.Sprintf("%d repos read", report.TotalRepos)
	if report.Filtered() {
		summary += fmt.Sprintf(", %d matched %q", report.MatchedRepos, report.NameFilter)
	}
	t.AppendFooter(table.Row{"", summary, "", "", ""})

	_, err := fmt.Fprintln(w.out, t.Render())
	return err
}

// WriteModules renders module windows with their admission deadlines.
func WriteModules(out io.Writer, modules []domain.Module, grace time.Duration, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Module", "Start", "End", "Admits Until"})
	for _, m := range modules {
		t.AppendRow(table.Row{
			m.Name,
			m.Start.In(loc).Format(TimeLayout),
			m.End.In(loc).Format(TimeLayout),
			m.AdmissionDeadline(grace).In(loc).Format(TimeLayout),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d modules", len(modules)), "", "", ""})

	_, err := fmt.Fprintln(out, t.Render())
	return err
}
