// Package knapsack solves the 0/1 knapsack with a binary inclusion vector per item
package knapsack

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lixenwraith/gasolve/catalog"
	"github.com/lixenwraith/gasolve/genetic"
	"github.com/lixenwraith/gasolve/parameter"
)

// Bits marks item i as packed when Bits[i] is true
type Bits []bool

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, on := range b {
		if on {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Load is the fitness breakdown of one selection
type Load struct {
	Value  float64
	Weight float64
	// Overweight is set when Weight exceeds capacity and fitness collapsed to the penalty
	Overweight bool
}

// Problem maximizes packed value under a weight capacity
type Problem struct {
	items    *catalog.Items
	weights  []float64
	values   []float64
	capacity float64
}

// New binds items to a capacity; capacity must be finite and not negative
func New(items *catalog.Items, capacity float64) (*Problem, error) {
	if items == nil || items.Len() == 0 {
		return nil, fmt.Errorf("%w: knapsack needs at least one item", genetic.ErrInvalidConfig)
	}
	if math.IsNaN(capacity) || math.IsInf(capacity, 0) || capacity < 0 {
		return nil, fmt.Errorf("%w: knapsack capacity %v must be >= 0", genetic.ErrInvalidConfig, capacity)
	}
	return &Problem{
		items:    items,
		weights:  items.Weights(),
		values:   items.Values(),
		capacity: capacity,
	}, nil
}

// Capacity returns the weight limit
func (p *Problem) Capacity() float64 { return p.capacity }

// Items returns the bound item catalog
func (p *Problem) Items() *catalog.Items { return p.items }

// Direction implements genetic.Problem
func (p *Problem) Direction() genetic.Direction {
	return genetic.Maximize
}

// Random includes each item independently with probability one half
func (p *Problem) Random(rng *rand.Rand) Bits {
	b := make(Bits, len(p.weights))
	for i := range b {
		b[i] = rng.Float64() < parameter.GAKnapsackBitProbability
	}
	return b
}

// Measure sums weight and value of the selected items
func (p *Problem) Measure(b Bits) Load {
	var l Load
	for i, on := range b {
		if on {
			l.Weight += p.weights[i]
			l.Value += p.values[i]
		}
	}
	l.Overweight = l.Weight > p.capacity
	return l
}

// Evaluate scores packed value; an overweight selection scores the fixed penalty.
// The penalty stays positive so roulette wheels never see a zero total
func (p *Problem) Evaluate(b Bits) genetic.Evaluation {
	l := p.Measure(b)
	fitness := l.Value
	if l.Overweight {
		fitness = parameter.GAKnapsackPenalty
	}
	return genetic.Evaluation{Fitness: fitness, Detail: l}
}

// Cross returns a[:cut] ++ b[cut:] and b[:cut] ++ a[cut:]
func Cross(a, b Bits, cut int) (Bits, Bits) {
	first := make(Bits, len(a))
	second := make(Bits, len(a))
	copy(first, a[:cut])
	copy(first[cut:], b[cut:])
	copy(second, b[:cut])
	copy(second[cut:], a[cut:])
	return first, second
}

// Crossover draws a single cut in [0, n]; the b-prefix child comes first
func (p *Problem) Crossover(a, b Bits, rng *rand.Rand) []Bits {
	cut := rng.IntN(len(a) + 1)
	aHead, bHead := Cross(a, b, cut)
	return []Bits{bHead, aHead}
}

// Mutate flips each bit independently with probability rate
func (p *Problem) Mutate(b Bits, rate float64, rng *rand.Rand) Bits {
	out := make(Bits, len(b))
	copy(out, b)
	for i := range out {
		if rng.Float64() < rate {
			out[i] = !out[i]
		}
	}
	return out
}

// Selected lists the items packed by b, in catalog order
func (p *Problem) Selected(b Bits) []catalog.Item {
	var out []catalog.Item
	for i, on := range b {
		if on {
			out = append(out, p.items.At(i))
		}
	}
	return out
}

// Selector returns the default biased roulette selector
func Selector() genetic.Selector[Bits] {
	return &genetic.BiasedRouletteSelector[Bits]{}
}
