package format

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyFile = errors.New("empty file")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Table is a parsed spreadsheet: a header row plus data rows, with headers
// kept both raw (for label extraction such as "Time (GMT +8)") and
// normalized (for matching).
type Table struct {
	RawHeaders []string
	Headers    []string
	Rows       [][]string
}

// Normalize lowercases and trims a header for matching.
func Normalize(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Row returns row i as a normalized-header keyed map. Short rows pad with
// empty cells.
func (t *Table) Row(i int) map[string]string {
	row := t.Rows[i]
	values := make(map[string]string, len(t.Headers))
	for j, header := range t.Headers {
		if header == "" {
			continue
		}
		if j < len(row) {
			values[header] = strings.TrimSpace(row[j])
		} else {
			values[header] = ""
		}
	}
	return values
}

// HeaderMatching returns the first normalized header for which the
// predicate holds. The lookup runs once per file, never per row.
func (t *Table) HeaderMatching(pred func(string) bool) (string, bool) {
	for _, header := range t.Headers {
		if pred(header) {
			return header, true
		}
	}
	return "", false
}

func (t *Table) HasHeader(name string) bool {
	_, ok := t.HeaderMatching(func(h string) bool { return h == Normalize(name) })
	return ok
}

func (t *Table) HasHeaderContaining(substr string) bool {
	needle := Normalize(substr)
	_, ok := t.HeaderMatching(func(h string) bool { return strings.Contains(h, needle) })
	return ok
}

// ReadCSV splits CSV content into raw records, tolerating a UTF-8 BOM and
// ragged rows. Empty content is a batch-fatal condition.
func ReadCSV(data []byte) ([][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := bufio.NewReader(bytes.NewReader(data))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	records = dropBlankRecords(records)
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return records, nil
}

// ReadXLSX reads the first sheet of an xlsx buffer into raw records.
func ReadXLSX(data []byte) ([][]string, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	rows = dropBlankRecords(rows)
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// NewTable treats the first record as the header row.
func NewTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	raw := make([]string, len(records[0]))
	normalized := make([]string, len(records[0]))
	for i, header := range records[0] {
		raw[i] = strings.TrimSpace(header)
		normalized[i] = Normalize(header)
	}

	return &Table{
		RawHeaders: raw,
		Headers:    normalized,
		Rows:       records[1:],
	}, nil
}

func dropBlankRecords(records [][]string) [][]string {
	kept := records[:0]
	for _, record := range records {
		blank := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			kept = append(kept, record)
		}
	}
	return kept
}
