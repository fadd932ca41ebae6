package catalog

import (
	"fmt"
	"io"
	"slices"
)

// Type is an elemental type name
type Type string

// TypeMatrix maps (attacker type, defender type) to a positive damage multiplier
type TypeMatrix struct {
	types []Type
	cells map[Type]map[Type]float64
}

// NewTypeMatrix builds a square matrix; values[i][j] is types[i] attacking types[j]
func NewTypeMatrix(types []Type, values [][]float64) (*TypeMatrix, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("type matrix: %w", ErrEmptyCatalog)
	}
	if len(values) != len(types) {
		return nil, fmt.Errorf("%w: type matrix has %d rows for %d types", ErrMalformedRow, len(values), len(types))
	}

	m := &TypeMatrix{
		types: slices.Clone(types),
		cells: make(map[Type]map[Type]float64, len(types)),
	}
	for i, attacker := range types {
		if _, dup := m.cells[attacker]; dup {
			return nil, fmt.Errorf("%w: duplicate type %q", ErrMalformedRow, attacker)
		}
		if len(values[i]) != len(types) {
			return nil, fmt.Errorf("%w: type matrix row %q has %d columns for %d types",
				ErrMalformedRow, attacker, len(values[i]), len(types))
		}
		row := make(map[Type]float64, len(types))
		for j, defender := range types {
			v := values[i][j]
			if !positive(v) {
				return nil, fmt.Errorf("%w: multiplier %s->%s must be > 0, got %v",
					ErrMalformedRow, attacker, defender, v)
			}
			row[defender] = v
		}
		m.cells[attacker] = row
	}
	return m, nil
}

// Multiplier returns the factor for attacker hitting defender
func (m *TypeMatrix) Multiplier(attacker, defender Type) (float64, bool) {
	row, ok := m.cells[attacker]
	if !ok {
		return 0, false
	}
	v, ok := row[defender]
	return v, ok
}

// Has reports whether t is a known type
func (m *TypeMatrix) Has(t Type) bool {
	_, ok := m.cells[t]
	return ok
}

// Types returns the matrix types in file order
func (m *TypeMatrix) Types() []Type {
	return slices.Clone(m.types)
}

// LoadTypeMatrixCSV reads a matrix whose first column names the attacker type and whose
// remaining header columns name defender types. Rows may appear in any order
func LoadTypeMatrixCSV(r io.Reader) (*TypeMatrix, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("type matrix: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: type matrix header needs at least one type column", ErrMalformedRow)
	}
	if header[0] != "tipo" && header[0] != "type" {
		return nil, fmt.Errorf("%w: type matrix first column %q, want tipo or type", ErrMalformedRow, header[0])
	}

	types := make([]Type, len(header)-1)
	position := make(map[Type]int, len(types))
	for i, h := range header[1:] {
		types[i] = Type(h)
		position[types[i]] = i
	}

	values := make([][]float64, len(types))
	for line, row := range rows {
		attacker := Type(normalizeType(row[0]))
		i, ok := position[attacker]
		if !ok {
			return nil, fmt.Errorf("%w: type matrix line %d: %q", ErrUnknownType, line+2, attacker)
		}
		if values[i] != nil {
			return nil, fmt.Errorf("%w: duplicate type matrix row %q", ErrMalformedRow, attacker)
		}
		values[i] = make([]float64, len(types))
		for j, cell := range row[1:] {
			v, err := parseFloat(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: type matrix line %d column %q: %v", ErrMalformedRow, line+2, types[j], err)
			}
			values[i][j] = v
		}
	}
	for i, row := range values {
		if row == nil {
			return nil, fmt.Errorf("%w: type matrix has no row for %q", ErrMalformedRow, types[i])
		}
	}

	return NewTypeMatrix(types, values)
}
