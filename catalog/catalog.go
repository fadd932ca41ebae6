// Package catalog holds the immutable data the solvers draw from: knapsack items,
// team entities and the type-effectiveness matrix. Rows are normalized here, at the
// boundary, so the solvers never see missing attributes or null types
package catalog

import (
	"embed"
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow reports a catalog row that cannot be normalized
	ErrMalformedRow = errors.New("malformed catalog row")
	// ErrUnknownType reports an entity type absent from the effectiveness matrix
	ErrUnknownType = errors.New("unknown type")
	// ErrEmptyCatalog reports a catalog without entries
	ErrEmptyCatalog = errors.New("empty catalog")
)

//go:embed data/*.csv
var defaultData embed.FS

// DefaultItems returns the built-in product list
func DefaultItems() (*Items, error) {
	f, err := defaultData.Open("data/items.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadItemsCSV(f)
}

// DefaultTypeMatrix returns the built-in 18-type effectiveness matrix
func DefaultTypeMatrix() (*TypeMatrix, error) {
	f, err := defaultData.Open("data/types.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTypeMatrixCSV(f)
}

// DefaultEntities returns the built-in entity catalog bound to the default matrix
func DefaultEntities() (*Entities, error) {
	matrix, err := DefaultTypeMatrix()
	if err != nil {
		return nil, fmt.Errorf("default type matrix: %w", err)
	}
	return DefaultEntitiesFor(matrix)
}

// DefaultEntitiesFor binds the built-in entity list to a caller-supplied matrix
func DefaultEntitiesFor(matrix *TypeMatrix) (*Entities, error) {
	f, err := defaultData.Open("data/entities.csv")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadEntitiesCSV(f, matrix)
}
