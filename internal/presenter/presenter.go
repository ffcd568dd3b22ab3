// Package presenter renders scan reports for humans and machines.
package presenter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatTable, FormatMarkdown, FormatJSON, FormatYAML}

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown output format")

// TimeLayout is how timestamps are displayed.
const TimeLayout = "2006-01-02 15:04:05 MST"

// Writer writes a report.
type Writer interface {
	Write(report *domain.Report) error
}

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// NewWriter returns a writer for format that prints timestamps in loc.
func NewWriter(format Format, out io.Writer, loc *time.Location) (Writer, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	base := baseWriter{out: out, loc: loc}
	switch format {
	case FormatTable:
		return &TableWriter{base}, nil
	case FormatMarkdown:
		return &MarkdownWriter{base}, nil
	case FormatJSON:
		return &JSONWriter{base}, nil
	case FormatYAML:
		return &YAMLWriter{base}, nil
	default:
		return &TextWriter{base}, nil
	}
}

type baseWriter struct {
	out io.Writer
	loc *time.Location
}

func (b baseWriter) timestamp(t time.Time) string {
	return t.In(b.loc).Format(TimeLayout)
}

// overdue formats a number of seconds past the deadline, rounded to the minute.
func overdue(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Minute)
	return d.String()
}
