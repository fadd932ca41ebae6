package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readTable reads a headed CSV and resolves each required column by its aliases.
// Returned column indices follow the order of the alias groups
func readTable(r io.Reader, required ...[]string) ([][]string, []int, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}

	cols := make([]int, len(required))
	for i, aliases := range required {
		cols[i] = columnIndex(header, aliases...)
		if cols[i] < 0 {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrMalformedRow, aliases[0])
		}
	}
	return rows, cols, nil
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyCatalog
	}

	header := records[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	rows := make([][]string, 0, len(records)-1)
	for line, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != len(header) {
			return nil, nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				ErrMalformedRow, line+2, len(rec), len(header))
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// columnIndex returns the first header position matching any alias, or -1
func columnIndex(header []string, aliases ...string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseLeadingFloat accepts annotated cells such as "30 (Meteorite)255 (Core)" by
// reading the leading number only
func parseLeadingFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && s[end] == '-')) {
		end++
	}
	return strconv.ParseFloat(s[:end], 64)
}
