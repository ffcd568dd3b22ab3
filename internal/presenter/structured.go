package presenter

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// JSONWriter prints the report as indented JSON.
type JSONWriter struct {
	baseWriter
}

// Write implements Writer.
func (w *JSONWriter) Write(report *domain.Report) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w.out, string(jsonData))
	return err
}

// YAMLWriter prints the report as YAML.
type YAMLWriter struct {
	baseWriter
}

// Write implements Writer.
func (w *YAMLWriter) Write(report *domain.Report) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to marshal report to YAML: %w", err)
	}
	return enc.Close()
}
