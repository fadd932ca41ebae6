package catalog

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

// SecondType is an optional elemental type: either a type or no second type
type SecondType struct {
	t   Type
	set bool
}

// Some wraps a present second type
func Some(t Type) SecondType { return SecondType{t: t, set: true} }

// NoSecondType is the absent second type
var NoSecondType = SecondType{}

// Get returns the type and whether it is present
func (s SecondType) Get() (Type, bool) { return s.t, s.set }

func (s SecondType) String() string {
	if !s.set {
		return "-"
	}
	return string(s.t)
}

// Entity is one team member candidate with its combat attributes
type Entity struct {
	ID          int
	Name        string
	Type1       Type
	Type2       SecondType
	HP          float64
	Attack      float64
	Defense     float64
	Speed       float64
	CaptureRate float64
}

func (e *Entity) String() string {
	if t2, ok := e.Type2.Get(); ok {
		return fmt.Sprintf("%s(%s/%s)", e.Name, e.Type1, t2)
	}
	return fmt.Sprintf("%s(%s)", e.Name, e.Type1)
}

// Entities is an immutable entity catalog bound to the matrix that covers its types
type Entities struct {
	list   []Entity
	matrix *TypeMatrix
}

// NewEntities validates entity attributes and type coverage.
// HP, defense and speed are divisors in matchup scoring and must be positive
func NewEntities(list []Entity, matrix *TypeMatrix) (*Entities, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("entities: %w", ErrEmptyCatalog)
	}
	if matrix == nil {
		return nil, fmt.Errorf("entities: nil type matrix")
	}

	c := &Entities{list: make([]Entity, len(list)), matrix: matrix}
	for i, e := range list {
		if !positive(e.HP) || !positive(e.Defense) || !positive(e.Speed) || e.Attack < 0 {
			return nil, fmt.Errorf("%w: entity %q needs hp, defense, speed > 0 and attack >= 0",
				ErrMalformedRow, e.Name)
		}
		if !matrix.Has(e.Type1) {
			return nil, fmt.Errorf("%w: entity %q type1 %q", ErrUnknownType, e.Name, e.Type1)
		}
		if t2, ok := e.Type2.Get(); ok && !matrix.Has(t2) {
			return nil, fmt.Errorf("%w: entity %q type2 %q", ErrUnknownType, e.Name, t2)
		}
		c.list[i] = e
	}
	return c, nil
}

// Len returns the number of entities
func (c *Entities) Len() int { return len(c.list) }

// At returns a reference to entity i; the entity must be treated as read-only
func (c *Entities) At(i int) *Entity { return &c.list[i] }

// Sample draws one entity uniformly
func (c *Entities) Sample(rng *rand.Rand) *Entity {
	return &c.list[rng.IntN(len(c.list))]
}

// Matrix returns the effectiveness matrix covering the catalog
func (c *Entities) Matrix() *TypeMatrix { return c.matrix }

// ByName looks an entity up case-insensitively
func (c *Entities) ByName(name string) (*Entity, bool) {
	for i := range c.list {
		if strings.EqualFold(c.list[i].Name, name) {
			return &c.list[i], true
		}
	}
	return nil, false
}

// LoadEntitiesCSV reads a headed entity table and normalizes every row.
// Empty, NULL and None second types become NoSecondType; capture rate is optional
func LoadEntitiesCSV(r io.Reader, matrix *TypeMatrix) (*Entities, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("entities: %w", err)
	}

	var (
		colID      = columnIndex(header, "pokedex_number", "id")
		colName    = columnIndex(header, "name")
		colType1   = columnIndex(header, "type1")
		colType2   = columnIndex(header, "type2")
		colHP      = columnIndex(header, "hp")
		colAttack  = columnIndex(header, "attack_total", "attack")
		colDefense = columnIndex(header, "defense_total", "defense")
		colSpeed   = columnIndex(header, "speed")
		colCapture = columnIndex(header, "capture_rate")
	)
	for name, col := range map[string]int{
		"name": colName, "type1": colType1, "hp": colHP,
		"attack": colAttack, "defense": colDefense, "speed": colSpeed,
	} {
		if col < 0 {
			return nil, fmt.Errorf("%w: entities missing column %q", ErrMalformedRow, name)
		}
	}

	list := make([]Entity, 0, len(rows))
	for line, row := range rows {
		e := Entity{
			ID:    line + 1,
			Name:  row[colName],
			Type1: Type(normalizeType(row[colType1])),
		}
		if e.Type1 == "" {
			return nil, fmt.Errorf("%w: entities line %d has no type1", ErrMalformedRow, line+2)
		}
		if colID >= 0 {
			id, err := strconv.Atoi(row[colID])
			if err != nil {
				return nil, fmt.Errorf("%w: entities line %d id: %v", ErrMalformedRow, line+2, err)
			}
			e.ID = id
		}
		if colType2 >= 0 {
			e.Type2 = parseSecondType(row[colType2])
		}

		fields := []struct {
			name string
			col  int
			dst  *float64
		}{
			{"hp", colHP, &e.HP},
			{"attack", colAttack, &e.Attack},
			{"defense", colDefense, &e.Defense},
			{"speed", colSpeed, &e.Speed},
		}
		for _, f := range fields {
			v, err := parseFloat(row[f.col])
			if err != nil {
				return nil, fmt.Errorf("%w: entities line %d %s: %v", ErrMalformedRow, line+2, f.name, err)
			}
			*f.dst = v
		}
		if colCapture >= 0 && row[colCapture] != "" {
			v, err := parseLeadingFloat(row[colCapture])
			if err != nil {
				return nil, fmt.Errorf("%w: entities line %d capture_rate: %v", ErrMalformedRow, line+2, err)
			}
			e.CaptureRate = v
		}

		list = append(list, e)
	}
	return NewEntities(list, matrix)
}

func parseSecondType(s string) SecondType {
	t := normalizeType(s)
	switch t {
	case "", "null", "none", "nan":
		return NoSecondType
	}
	return Some(Type(t))
}

func normalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
