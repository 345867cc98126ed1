package happiness

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"happydash.dev/internal/logging"
)

// identifierColumns is the number of leading non-indicator columns.
const identifierColumns = 2

// Load parses a happiness CSV. The first two columns are the country and the
// regional indicator; an "id" column, wherever it appears, is the map join key;
// every other column is an indicator.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Err: errors.New("empty file")}
		}
		return nil, &LoadError{Line: 1, Err: err}
	}
	if len(header) < identifierColumns {
		return nil, &LoadError{Line: 1, Err: fmt.Errorf("expected at least %d columns, got %d", identifierColumns, len(header))}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	idIndex := -1
	var indicators []string
	indicatorIndex := make(map[int]string)
	seen := make(map[string]struct{})
	for i := identifierColumns; i < len(header); i++ {
		name := header[i]
		if name == IDColumn {
			idIndex = i
			continue
		}
		if name == "" {
			return nil, &LoadError{Line: 1, Err: fmt.Errorf("column %d has no name", i+1)}
		}
		if _, dup := seen[name]; dup {
			return nil, &LoadError{Line: 1, Err: fmt.Errorf("duplicate column %q", name)}
		}
		seen[name] = struct{}{}
		indicators = append(indicators, name)
		indicatorIndex[i] = name
	}

	var records []*Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &LoadError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return nil, &LoadError{Err: err}
		}
		line, _ := reader.FieldPos(0)

		values := make(map[string]Value, len(indicatorIndex))
		for i, name := range indicatorIndex {
			values[name] = ParseValue(row[i])
		}
		rec := NewRecord(strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), values)
		if idIndex >= 0 {
			if id, ok := parseID(row[idIndex]); ok {
				rec = rec.WithID(id)
			}
		}
		if rec.Country == "" {
			return nil, &LoadError{Line: line, Err: errors.New("empty country name")}
		}
		records = append(records, rec)
	}

	ds, err := NewDataset(indicators, records)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return ds, nil
}

// parseID accepts integer codes, including the "246.0" form spreadsheet exports produce.
func parseID(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(raw); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// LoadFile reads and parses the CSV at path.
func LoadFile(path string, logger *slog.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer logging.SafeCloseWithLogging(f, logger, "close_dataset_file")

	ds, err := Load(f)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}
