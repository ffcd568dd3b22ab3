package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/naka-gawa/late-repos/internal/domain"
)

// DatesLayout is the date format of the dates text file.
const DatesLayout = "1/2/2006"

// LoadDatesFile reads one module per line in the form name,start,end.
// Lines without exactly three fields are skipped with a warning. A date that
// does not parse is an error, as is a file that yields no modules.
func LoadDatesFile(path string, loc *time.Location, logger *zap.Logger) ([]domain.Module, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided dates path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to open dates file %s: %w", path, err)
	}
	defer f.Close()

	modules, err := parseDates(f, path, loc, logger)
	if err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoModules, path)
	}
	return modules, nil
}

func parseDates(r io.Reader, path string, loc *time.Location, logger *zap.Logger) ([]domain.Module, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.Comment = '#'

	var modules []domain.Module
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dates file %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) != 3 {
			logger.Warn("skipping line with wrong number of fields",
				zap.String("file", path),
				zap.Int("line", line),
				zap.Int("fields", len(record)),
			)
			continue
		}

		m, err := newModule(record[0], record[1], record[2], DatesLayout, loc)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		warnInverted(m, logger)
		modules = append(modules, m)
	}
	return modules, nil
}
