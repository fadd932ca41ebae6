package catalog

import (
	"fmt"
	"io"
	"math"
)

// Item is one selectable knapsack entry
type Item struct {
	Name   string
	Weight float64
	Value  float64
}

// Items is an immutable ordered item catalog
type Items struct {
	items   []Item
	weights []float64
	values  []float64
}

// NewItems validates and freezes an item list
func NewItems(list []Item) (*Items, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("items: %w", ErrEmptyCatalog)
	}

	c := &Items{
		items:   make([]Item, len(list)),
		weights: make([]float64, len(list)),
		values:  make([]float64, len(list)),
	}
	for i, it := range list {
		if !positive(it.Weight) || !positive(it.Value) {
			return nil, fmt.Errorf("%w: item %q needs weight and value > 0", ErrMalformedRow, it.Name)
		}
		c.items[i] = it
		c.weights[i] = it.Weight
		c.values[i] = it.Value
	}
	return c, nil
}

// Len returns the number of items
func (c *Items) Len() int { return len(c.items) }

// At returns item i
func (c *Items) At(i int) Item { return c.items[i] }

// Weights returns item weights in catalog order; callers must not modify the slice
func (c *Items) Weights() []float64 { return c.weights }

// Values returns item values in catalog order; callers must not modify the slice
func (c *Items) Values() []float64 { return c.values }

// LoadItemsCSV reads rows of name,weight,value with a header line
func LoadItemsCSV(r io.Reader) (*Items, error) {
	rows, cols, err := readTable(r, []string{"name"}, []string{"weight", "espaco"}, []string{"value", "valor"})
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}

	list := make([]Item, 0, len(rows))
	for line, row := range rows {
		weight, err := parseFloat(row[cols[1]])
		if err != nil {
			return nil, fmt.Errorf("%w: items line %d weight: %v", ErrMalformedRow, line+2, err)
		}
		value, err := parseFloat(row[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("%w: items line %d value: %v", ErrMalformedRow, line+2, err)
		}
		list = append(list, Item{Name: row[cols[0]], Weight: weight, Value: value})
	}
	return NewItems(list)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
