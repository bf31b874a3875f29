// Package loader reads the referendum, region and department CSV files and the
// region outlines into typed records.
//
// Headers are validated once here so that later stages never look up a
// column by name.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidCount  = errors.New("invalid vote count")
)

const utf8BOM = "\ufeff"

// csvTable is a fully read CSV file with its header indexed by name
type csvTable struct {
	path   string
	header []string
	index  map[string]int
	rows   [][]string
}

func readCSV(path string, comma rune, required ...string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("error closing input file")
		}
	}()

	return parseCSV(f, path, comma, required...)
}

func parseCSV(r io.Reader, path string, comma rune, required ...string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	t := &csvTable{
		path:   path,
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		t.header[i] = name
		if _, ok := t.index[name]; !ok {
			t.index[name] = i
		}
	}

	for _, name := range required {
		if _, ok := t.index[name]; !ok {
			return nil, fmt.Errorf("%s: %w %q", path, ErrMissingColumn, name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	t.rows = rows

	return t, nil
}

func (t *csvTable) value(row []string, column string) string {
	return strings.TrimSpace(row[t.index[column]])
}

// extra returns the cells of the columns that are not listed in known
func (t *csvTable) extra(row []string, known map[string]bool) map[string]string {
	var res map[string]string
	for i, name := range t.header {
		if known[name] {
			continue
		}
		if res == nil {
			res = make(map[string]string)
		}
		res[name] = row[i]
	}
	return res
}

// count parses a non-negative integer cell. A zero decimal part ("12.0") is accepted.
func (t *csvTable) count(row []string, line int, column string) (int64, error) {
	raw := t.value(row, column)
	if raw == "" {
		return 0, fmt.Errorf("%s:%d: %w: %s is empty", t.path, line, ErrInvalidCount, column)
	}

	// cast parses with base prefix detection, so leading zeros would mean octal
	digits := strings.TrimLeft(raw, "0")
	if digits == "" || strings.HasPrefix(digits, ".") {
		digits = "0" + digits
	}

	n, err := cast.ToInt64E(digits)
	if err != nil {
		return 0, fmt.Errorf("%s:%d: %w: %s=%q", t.path, line, ErrInvalidCount, column, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s:%d: %w: %s=%d is negative", t.path, line, ErrInvalidCount, column, n)
	}
	return n, nil
}
