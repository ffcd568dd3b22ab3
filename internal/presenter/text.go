package presenter

import (
	"fmt"
	"strings"

	"github.com/naka-gawa/late-repos/internal/domain"
)

const rule = "--------------------"

// TextWriter prints the report grouped by module, one block per late repository.
type TextWriter struct {
	baseWriter
}

// Write implements Writer.
func (w *TextWriter) Write(report *domain.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Total Repos Read: %d\n", report.TotalRepos)
	if report.Filtered() {
		fmt.Fprintf(&b, "Matched Repos Read: %d\n", report.MatchedRepos)
	}
	b.WriteString("\n")

	for _, result := range report.Modules {
		fmt.Fprintf(&b, "%s\n\n", rule)
		fmt.Fprintf(&b, "---- Module: %s ----\n", result.Module.Name)
		fmt.Fprintf(&b, "Deadline: %s\n", w.timestamp(result.Module.End))
		if len(result.Late) > 0 {
			fmt.Fprintf(&b, "Late: %d (median overdue %s, max %s)\n",
				len(result.Late), overdue(result.MedianOverdueSeconds), overdue(result.MaxOverdueSeconds))
		} else {
			b.WriteString("Late: 0\n")
		}
		b.WriteString("\n")
		for _, late := range result.Late {
			fmt.Fprintf(&b, "%s\nCreated At: %s\nUpdated At: %s\n\n",
				late.Name, w.timestamp(late.CreatedAt), w.timestamp(late.UpdatedAt))
		}
	}
	b.WriteString(rule + "\n")

	_, err := fmt.Fprint(w.out, b.String())
	return err
}
