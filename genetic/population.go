package genetic

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Population is the ordered working set of one generation
type Population[G any] struct {
	// Members holds all individuals, sorted best-first after Sort
	Members []Individual[G]
	// Generation tracks the iteration number this population represents
	Generation int
	// Direction fixes the sort order for the whole run
	Direction Direction
	// Stats holds aggregate statistics, refreshed by Sort
	Stats PoolStats
}

// PoolStats contains statistical information about a population
type PoolStats struct {
	Generation int     `yaml:"generation"`
	Size       int     `yaml:"size"`
	Best       float64 `yaml:"best"`
	Worst      float64 `yaml:"worst"`
	Mean       float64 `yaml:"mean"`
	StdDev     float64 `yaml:"stddev"`
	Total      float64 `yaml:"total"`
}

// Len returns the number of members
func (p *Population[G]) Len() int {
	return len(p.Members)
}

// Sort orders members best-first: ascending for Minimize, descending for Maximize.
// The sort is stable so equal-fitness members keep their creation order
func (p *Population[G]) Sort() {
	slices.SortStableFunc(p.Members, func(a, b Individual[G]) int {
		return p.Direction.compare(a.Fitness, b.Fitness)
	})
	p.Stats = NewPoolStats(p)
}

// TotalFitness sums fitness over all members
func (p *Population[G]) TotalFitness() float64 {
	var total float64
	for i := range p.Members {
		total += p.Members[i].Fitness
	}
	return total
}

// Best scans for the best member regardless of current order
func (p *Population[G]) Best() (Individual[G], bool) {
	if len(p.Members) == 0 {
		return Individual[G]{}, false
	}
	best := p.Members[0]
	for _, m := range p.Members[1:] {
		if p.Direction.Better(m.Fitness, best.Fitness) {
			best = m
		}
	}
	return best, true
}

// Fitnesses returns member fitness values in member order
func (p *Population[G]) Fitnesses() []float64 {
	out := make([]float64, len(p.Members))
	for i := range p.Members {
		out[i] = p.Members[i].Fitness
	}
	return out
}

// NewPoolStats computes statistical measures for a population
func NewPoolStats[G any](p *Population[G]) PoolStats {
	stats := PoolStats{
		Generation: p.Generation,
		Size:       len(p.Members),
	}
	if len(p.Members) == 0 {
		return stats
	}

	values := p.Fitnesses()
	stats.Best, stats.Worst = values[0], values[0]
	for _, v := range values[1:] {
		if p.Direction.Better(v, stats.Best) {
			stats.Best = v
		}
		if p.Direction.Better(stats.Worst, v) {
			stats.Worst = v
		}
		stats.Total += v
	}
	stats.Total += values[0]

	stats.Mean = stat.Mean(values, nil)
	// Sample std-dev is undefined for a single member
	if len(values) > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	return stats
}

// compare orders a before b when a is better. NaN sorts last in either direction
func (d Direction) compare(a, b float64) int {
	switch aNaN, bNaN := math.IsNaN(a), math.IsNaN(b); {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	if d == Maximize {
		a, b = b, a
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
