package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"partsclean/internal"
	"partsclean/internal/util"
)

var (
	ErrSourceNotFound = errors.New("source not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrNoChunks       = errors.New("no chunk files found")
	ErrNoData         = errors.New("no data to process")
)

// Table is a header row plus data rows. Every row has len(Header) cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the raw cell for the given row and column.
func (t *Table) Cell(row, col int) internal.RawCell {
	value := t.Rows[row][col]
	if util.IsMissing(value) {
		return internal.MissingCell()
	}
	return internal.CellOf(value)
}

// ReadTable loads a CSV or XLSX file, picking the reader by extension.
func ReadTable(path string) (*Table, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, err
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		t, err = parseXLSX(blob)
	default:
		t, err = parseCSV(bytes.NewReader(blob))
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}

func parseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return newTable(records), nil
}

func parseXLSX(content []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return newTable(rows), nil
}

// newTable takes the first record as the header and pads or widens rows so
// the table is rectangular. A UTF-8 BOM on the first header cell is dropped
// and header names are made unique with uniqueHeader.
func newTable(records [][]string) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}
	t.Header = append([]string(nil), records[0]...)
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}

	width := len(t.Header)
	for _, rec := range records[1:] {
		if len(rec) > width {
			width = len(rec)
		}
	}
	for i := len(t.Header); i < width; i++ {
		t.Header = append(t.Header, "")
	}
	t.Header = uniqueHeader(t.Header)

	t.Rows = make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, width)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// uniqueHeader names blank columns "Unnamed: <i>" and suffixes repeats with
// ".1", ".2" and so on, skipping any suffix another column already uses.
func uniqueHeader(header []string) []string {
	if len(header) == 0 {
		return header
	}
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
	}
	for _, h := range out {
		taken[h] = true
	}

	seen := make(map[string]int, len(out))
	for i, h := range out {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}

// DiscoverChunks lists files in dir matching pattern, sorted by name.
func DiscoverChunks(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// ConcatTables stacks tables in order. The header is the union of all headers
// in first-seen order and cells a table lacks are left empty.
func ConcatTables(tables []*Table) *Table {
	out := &Table{}
	pos := map[string]int{}
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := pos[h]; ok {
				continue
			}
			pos[h] = len(out.Header)
			out.Header = append(out.Header, h)
		}
	}

	for _, t := range tables {
		for _, row := range t.Rows {
			merged := make([]string, len(out.Header))
			for i, h := range t.Header {
				merged[pos[h]] = row[i]
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
