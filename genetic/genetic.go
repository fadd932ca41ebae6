// Package genetic provides the generational genetic algorithm skeleton shared by the solvers
// 1. Population initialization, evaluation, selection, crossover, mutation and full replacement
// 2. Genotype-specific behavior lives behind the Problem interface
// 3. Selection strategies are rank-window, roulette wheel, biased roulette and tournament
// 4. Best-ever tracking survives outside the population and never regresses
// 5. A single seeded random source is threaded through every operator
package genetic

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// --- Concrete Selector Implementations ---

// RankWindowSelector assigns selection windows by rank-reversed fitness ratio.
// With members sorted ascending (best = lowest first), position i receives the share
// fitness[size-1-i] / total, so the best rank carries the worst fitness value and the
// largest slice. Only meaningful for minimization
type RankWindowSelector[G any] struct{}

// Validate implements Selector
func (rs *RankWindowSelector[G]) Validate(populationSize int, dir Direction) error {
	if dir != Minimize {
		return fmt.Errorf("%w: rank-window selection requires minimization", ErrInvalidConfig)
	}
	return nil
}

// Prepare stores survival probability and [lower, upper) bounds on every member
func (rs *RankWindowSelector[G]) Prepare(pop *Population[G]) (Draw, error) {
	size := len(pop.Members)
	if size == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrDegeneratePopulation)
	}

	total := pop.TotalFitness()
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return nil, fmt.Errorf("%w: total fitness %v", ErrDegeneratePopulation, total)
	}

	for i := range pop.Members {
		if total == 0 {
			// Every member sits on a global minimum
			pop.Members[i].SurvivalProbability = 1 / float64(size)
			continue
		}
		pop.Members[i].SurvivalProbability = pop.Members[size-1-i].Fitness / total
	}

	cumulative := 0.0
	for i := range pop.Members {
		m := &pop.Members[i]
		m.LowerBound = cumulative
		cumulative += m.SurvivalProbability
		m.UpperBound = cumulative
	}

	members := pop.Members
	return func(rng *rand.Rand) int {
		drawn := rng.Float64()
		for i := range members {
			if members[i].LowerBound <= drawn && members[i].UpperBound > drawn {
				return i
			}
		}
		// Rounding can leave the final upper bound just below 1
		return size - 1
	}, nil
}

// RouletteSelector implements fitness-proportionate selection over normalized probabilities.
// Each member is chosen with probability fitness / total; only meaningful for maximization
type RouletteSelector[G any] struct{}

// Validate implements Selector
func (rs *RouletteSelector[G]) Validate(populationSize int, dir Direction) error {
	if dir != Maximize {
		return fmt.Errorf("%w: roulette selection requires maximization", ErrInvalidConfig)
	}
	return nil
}

// Prepare builds cumulative probabilities; draw u in [0,1) picks the first index whose
// cumulative probability is >= u
func (rs *RouletteSelector[G]) Prepare(pop *Population[G]) (Draw, error) {
	total, err := wheelTotal(pop)
	if err != nil {
		return nil, err
	}

	cumulative := make([]float64, len(pop.Members))
	running := 0.0
	for i := range pop.Members {
		p := pop.Members[i].Fitness / total
		pop.Members[i].SurvivalProbability = p
		running += p
		cumulative[i] = running
	}

	return func(rng *rand.Rand) int {
		return firstAtLeast(cumulative, rng.Float64())
	}, nil
}

// BiasedRouletteSelector spins a wheel scaled to total fitness.
// A value s is drawn from [0, total) and the first index whose running fitness sum is >= s
// wins. Only meaningful for maximization
type BiasedRouletteSelector[G any] struct{}

// Validate implements Selector
func (bs *BiasedRouletteSelector[G]) Validate(populationSize int, dir Direction) error {
	if dir != Maximize {
		return fmt.Errorf("%w: biased roulette selection requires maximization", ErrInvalidConfig)
	}
	return nil
}

// Prepare computes the running fitness sums for the scaled wheel
func (bs *BiasedRouletteSelector[G]) Prepare(pop *Population[G]) (Draw, error) {
	total, err := wheelTotal(pop)
	if err != nil {
		return nil, err
	}

	sums := make([]float64, len(pop.Members))
	running := 0.0
	for i := range pop.Members {
		running += pop.Members[i].Fitness
		sums[i] = running
		pop.Members[i].SurvivalProbability = pop.Members[i].Fitness / total
	}

	return func(rng *rand.Rand) int {
		return firstAtLeast(sums, rng.Float64()*total)
	}, nil
}

// TournamentSelector samples Size distinct members uniformly and returns the best of them
type TournamentSelector[G any] struct {
	// Size is the number of candidates competing in each tournament
	Size int
}

// Validate rejects tournament sizes outside [1, population size]
func (ts *TournamentSelector[G]) Validate(populationSize int, dir Direction) error {
	if ts.Size < 1 || ts.Size > populationSize {
		return fmt.Errorf("%w: tournament size %d outside [1, %d]", ErrInvalidConfig, ts.Size, populationSize)
	}
	return nil
}

// Prepare returns a draw that runs one tournament per call
func (ts *TournamentSelector[G]) Prepare(pop *Population[G]) (Draw, error) {
	size := len(pop.Members)
	if size == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrDegeneratePopulation)
	}
	if ts.Size < 1 || ts.Size > size {
		return nil, fmt.Errorf("%w: tournament size %d outside [1, %d]", ErrInvalidConfig, ts.Size, size)
	}

	members := pop.Members
	dir := pop.Direction
	indices := make([]int, size)
	for i := range indices {
		indices[i] = i
	}

	return func(rng *rand.Rand) int {
		// Partial Fisher-Yates: first ts.Size slots become the sample without replacement
		for i := 0; i < ts.Size; i++ {
			j := i + rng.IntN(size-i)
			indices[i], indices[j] = indices[j], indices[i]
		}

		winner := indices[0]
		for _, idx := range indices[1:ts.Size] {
			if dir.Better(members[idx].Fitness, members[winner].Fitness) {
				winner = idx
			}
		}
		return winner
	}, nil
}

// wheelTotal validates the total fitness of a fitness-proportionate wheel
func wheelTotal[G any](pop *Population[G]) (float64, error) {
	if len(pop.Members) == 0 {
		return 0, fmt.Errorf("%w: empty population", ErrDegeneratePopulation)
	}
	total := pop.TotalFitness()
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return 0, fmt.Errorf("%w: total fitness %v", ErrDegeneratePopulation, total)
	}
	return total, nil
}

// firstAtLeast returns the first index whose cumulative value is >= target,
// or the last index when rounding leaves target above every entry
func firstAtLeast(cumulative []float64, target float64) int {
	for i, c := range cumulative {
		if target <= c {
			return i
		}
	}
	return len(cumulative) - 1
}
