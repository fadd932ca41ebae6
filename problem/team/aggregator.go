package team

import (
	"fmt"

	"github.com/lixenwraith/gasolve/catalog"
)

// Score is the aggregated matchup result of one team
type Score struct {
	Total float64
	// PerMember[i][j] is member i's pair fitness against opponent j
	PerMember [][]float64
}

// MemberTotal sums member i's fitness against every opponent
func (s Score) MemberTotal(i int) float64 {
	var sum float64
	for _, v := range s.PerMember[i] {
		sum += v
	}
	return sum
}

// Aggregator scores teams against a fixed opponent lineup
type Aggregator struct {
	opponents []*catalog.Entity
	matrix    *catalog.TypeMatrix
}

// NewAggregator validates that every opponent type is covered by the matrix
func NewAggregator(opponents []*catalog.Entity, matrix *catalog.TypeMatrix) (*Aggregator, error) {
	if len(opponents) == 0 {
		return nil, fmt.Errorf("aggregator: empty opponent team")
	}
	if matrix == nil {
		return nil, fmt.Errorf("aggregator: nil type matrix")
	}
	for _, o := range opponents {
		if o == nil {
			return nil, fmt.Errorf("aggregator: nil opponent")
		}
		if !matrix.Has(o.Type1) {
			return nil, fmt.Errorf("%w: opponent %s", catalog.ErrUnknownType, o)
		}
		if t2, ok := o.Type2.Get(); ok && !matrix.Has(t2) {
			return nil, fmt.Errorf("%w: opponent %s", catalog.ErrUnknownType, o)
		}
	}
	return &Aggregator{opponents: opponents, matrix: matrix}, nil
}

// Opponents returns the fixed lineup
func (a *Aggregator) Opponents() []*catalog.Entity {
	return a.opponents
}

// Multiplier multiplies the single-type lookups of every attacker type against every
// defender type. An absent second type contributes factor 1
func (a *Aggregator) Multiplier(attacker, defender *catalog.Entity) float64 {
	att := typesOf(attacker)
	def := typesOf(defender)

	m := 1.0
	for _, at := range att {
		for _, dt := range def {
			if v, ok := a.matrix.Multiplier(at, dt); ok {
				m *= v
			}
		}
	}
	return m
}

// PairFitness is hp ratio plus the attack/defense ratio scaled by type multiplier and speed ratio
func (a *Aggregator) PairFitness(attacker, defender *catalog.Entity) float64 {
	return attacker.HP/defender.HP +
		(attacker.Attack/defender.Defense)*a.Multiplier(attacker, defender)*(attacker.Speed/defender.Speed)
}

// Evaluate scores every member against every opponent
func (a *Aggregator) Evaluate(members []*catalog.Entity) Score {
	s := Score{PerMember: make([][]float64, len(members))}
	for i, m := range members {
		row := make([]float64, len(a.opponents))
		for j, o := range a.opponents {
			row[j] = a.PairFitness(m, o)
			s.Total += row[j]
		}
		s.PerMember[i] = row
	}
	return s
}

func typesOf(e *catalog.Entity) []catalog.Type {
	if t2, ok := e.Type2.Get(); ok {
		return []catalog.Type{e.Type1, t2}
	}
	return []catalog.Type{e.Type1}
}
