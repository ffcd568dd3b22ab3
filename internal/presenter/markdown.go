package presenter

import (
	"fmt"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// MarkdownWriter outputs the report in Markdown, one section per module.
type MarkdownWriter struct {
	baseWriter
}

// Write implements Writer.
func (w *MarkdownWriter) Write(report *domain.Report) error {
	md := markdown.NewMarkdown(w.out)

	md.H1("Late repositories in " + report.Organization)
	md.PlainText("")

	rows := [][]string{
		{"Total Repos Read", strconv.Itoa(report.TotalRepos)},
		{"Grace Days", strconv.Itoa(report.GraceDays)},
	}
	if report.Filtered() {
		rows = append(rows,
			[]string{"Name Filter", "`" + report.NameFilter + "`"},
			[]string{"Matched Repos Read", strconv.Itoa(report.MatchedRepos)},
		)
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	for _, result := range report.Modules {
		md.H2("Module: " + result.Module.Name)
		md.PlainText(fmt.Sprintf("Deadline: %s", w.timestamp(result.Module.End)))
		md.PlainText("")
		if len(result.Late) == 0 {
			md.PlainText("No late repositories.")
			md.PlainText("")
			continue
		}

		lateRows := make([][]string, 0, len(result.Late))
		for _, late := range result.Late {
			lateRows = append(lateRows, []string{
				late.Name,
				w.timestamp(late.CreatedAt),
				w.timestamp(late.UpdatedAt),
				overdue(late.OverdueSeconds),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Repository", "Created At", "Updated At", "Overdue"},
			Rows:   lateRows,
		})
		md.PlainText("")
		md.PlainText(fmt.Sprintf("%d late, median overdue %s, max %s",
			len(result.Late), overdue(result.MedianOverdueSeconds), overdue(result.MaxOverdueSeconds)))
		md.PlainText("")
	}

	return md.Build()
}
