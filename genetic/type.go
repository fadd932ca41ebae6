package genetic

import (
	"math/rand/v2"
)

// --- Fitness Direction ---

// Direction fixes which end of the fitness scale is better for a run
type Direction uint8

const (
	// Minimize treats lower fitness as better (ascending sort)
	Minimize Direction = iota
	// Maximize treats higher fitness as better (descending sort)
	Maximize
)

// Better reports whether fitness a beats fitness b under this direction
func (d Direction) Better(a, b float64) bool {
	if d == Minimize {
		return a < b
	}
	return a > b
}

func (d Direction) String() string {
	if d == Minimize {
		return "minimize"
	}
	return "maximize"
}

// --- Core Data Structures ---

// Individual owns one genotype and the fitness computed from it.
// Fitness is set once at evaluation; a changed genotype always becomes a new Individual
type Individual[G any] struct {
	// Genotype is the encoded candidate solution
	Genotype G
	// Fitness is the cached quality score of Genotype
	Fitness float64
	// Generation is the generation this individual was created in
	Generation int
	// SurvivalProbability is the selection share assigned by window-based selectors
	SurvivalProbability float64
	// LowerBound and UpperBound delimit the [lower, upper) selection window
	LowerBound float64
	UpperBound float64
	// Detail holds the fitness breakdown produced alongside Fitness, if any
	Detail any
}

// Evaluation is the outcome of scoring a genotype
type Evaluation struct {
	Fitness float64
	Detail  any
}

// --- Problem Definition ---

// Problem binds a genotype representation to its fitness function and variation operators.
// Crossover and Mutate must return fresh genotypes and never modify their arguments
type Problem[G any] interface {
	// Direction reports whether the problem minimizes or maximizes fitness
	Direction() Direction
	// Random samples a genotype for the initial population
	Random(rng *rand.Rand) G
	// Evaluate computes fitness; must be safe for concurrent use
	Evaluate(genotype G) Evaluation
	// Crossover combines two parents into one or more children
	Crossover(a, b G, rng *rand.Rand) []G
	// Mutate returns a perturbed copy, each gene changing with probability rate
	Mutate(genotype G, rate float64, rng *rand.Rand) G
}

// --- Selection ---

// Draw returns the population index of one selected member
type Draw func(rng *rand.Rand) int

// Selector chooses parents from a sorted population
type Selector[G any] interface {
	// Validate checks selector parameters against the run setup
	Validate(populationSize int, dir Direction) error
	// Prepare computes per-generation selection state and returns the draw function.
	// Called once per generation after the population is sorted
	Prepare(pop *Population[G]) (Draw, error)
}

// Pairing decides how parents are drawn for each reproduction
type Pairing uint8

const (
	// PairDirect draws both parents from the population for every reproduction
	PairDirect Pairing = iota
	// PairFromPool draws a mating pool of population size once per generation,
	// then picks two distinct pool slots for every reproduction
	PairFromPool
)

func (p Pairing) String() string {
	if p == PairFromPool {
		return "pool"
	}
	return "direct"
}
