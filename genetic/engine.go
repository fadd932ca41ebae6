package genetic

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/sourcegraph/conc/pool"

	"github.com/lixenwraith/gasolve/parameter"
)

// --- Algorithm Engine ---

// Engine is the generational genetic algorithm execution engine
// It coordinates the problem operators and the selector across a fixed number of generations
type Engine[S any] struct {
	// Core operators
	problem  Problem[S]
	selector Selector[S]

	// Configuration
	config EngineConfig

	// State
	rng         *rand.Rand
	currentPool *Population[S]
	best        BestRecord[S]
	history     []PoolStats

	observer func(GenerationReport[S])
	logger   *slog.Logger
}

// EngineConfig holds configuration parameters for the algorithm
type EngineConfig struct {
	// PoolSize is the number of individuals maintained in each generation
	PoolSize int
	// Generations is the number of evolutions after the initial population
	Generations int
	// MutationRate is the per-gene mutation probability (0-1)
	MutationRate float64
	// Pairing decides how parents are drawn for reproduction
	Pairing Pairing
	// Parallelism controls the number of concurrent evaluations (<=1 runs inline)
	Parallelism int
	// Seed for random number generation (0 for random seed)
	Seed uint64
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		PoolSize:     parameter.GAPoolSize,
		Generations:  parameter.GAGenerations,
		MutationRate: parameter.GAMutationRate,
		Pairing:      PairDirect,
		Parallelism:  parameter.GAParallelism,
		Seed:         0,
	}
}

// Validate checks configuration values that do not depend on the selector
func (c EngineConfig) Validate() error {
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: population size %d < 1", ErrInvalidConfig, c.PoolSize)
	}
	if c.Pairing == PairFromPool && c.PoolSize < 2 {
		return fmt.Errorf("%w: pool pairing needs population size >= 2, got %d", ErrInvalidConfig, c.PoolSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("%w: generations %d < 1", ErrInvalidConfig, c.Generations)
	}
	if math.IsNaN(c.MutationRate) || c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate %v outside [0, 1]", ErrInvalidConfig, c.MutationRate)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism %d < 0", ErrInvalidConfig, c.Parallelism)
	}
	return nil
}

// BestRecord is the best individual seen across all generations of a run
type BestRecord[S any] struct {
	Individual Individual[S]
	// Generation is the generation the record was found in
	Generation int
}

// observe replaces the record when candidate is strictly better
func (r *BestRecord[S]) observe(candidate Individual[S], generation int, dir Direction) bool {
	if !dir.Better(candidate.Fitness, r.Individual.Fitness) {
		return false
	}
	r.Individual = candidate
	r.Generation = generation
	return true
}

// GenerationReport is delivered to the observer after each generation
type GenerationReport[S any] struct {
	Generation int
	// Best is the best member of this generation
	Best Individual[S]
	// Record is the best-ever record after this generation
	Record BestRecord[S]
	// Improved reports whether this generation replaced the record
	Improved bool
	Stats    PoolStats
}

// Result is the outcome of a completed run
type Result[S any] struct {
	Best       BestRecord[S]
	Population *Population[S]
	// History holds one entry per generation, starting with generation 0
	History []PoolStats
}

// NewEngine creates a new genetic algorithm engine with the specified operators
func NewEngine[S any](problem Problem[S], selector Selector[S], config EngineConfig) (*Engine[S], error) {
	if problem == nil {
		return nil, fmt.Errorf("%w: nil problem", ErrInvalidConfig)
	}
	if selector == nil {
		return nil, fmt.Errorf("%w: nil selector", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := selector.Validate(config.PoolSize, problem.Direction()); err != nil {
		return nil, err
	}

	return &Engine[S]{
		problem:  problem,
		selector: selector,
		config:   config,
		rng:      NewRand(config.Seed),
		history:  make([]PoolStats, 0, config.Generations+1),
		logger:   slog.New(slog.DiscardHandler),
	}, nil
}

// NewRand creates the run random source; seed 0 draws a random seed
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// SetObserver registers a callback invoked after every generation, including generation 0
func (e *Engine[S]) SetObserver(observer func(GenerationReport[S])) {
	e.observer = observer
}

// SetLogger replaces the default discarding logger
func (e *Engine[S]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// SetRand replaces the run random source, letting problem setup draw from the same
// sequence before the initial population
func (e *Engine[S]) SetRand(rng *rand.Rand) {
	if rng != nil {
		e.rng = rng
	}
}

// Run executes the genetic algorithm for the configured number of generations
func (e *Engine[S]) Run(ctx context.Context) (*Result[S], error) {
	e.history = e.history[:0]

	// Initialize population
	e.initializePool()

	// Record is seeded from the first generation's actual best, never from a sentinel
	e.best = BestRecord[S]{Individual: e.currentPool.Members[0], Generation: 0}
	e.record(true)

	e.logger.Debug("population initialized",
		"size", e.config.PoolSize,
		"direction", e.problem.Direction().String(),
		"best", e.best.Individual.Fitness)

	// Main evolution loop
	for generation := 1; generation <= e.config.Generations; generation++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return e.result(), ctx.Err()
		default:
		}

		// Evolve one generation
		if err := e.evolveGeneration(generation); err != nil {
			e.logger.Error("generation failed", "generation", generation, "error", err)
			return e.result(), err
		}

		improved := e.best.observe(e.currentPool.Members[0], generation, e.problem.Direction())
		e.record(improved)
	}

	e.logger.Debug("run complete",
		"generations", e.config.Generations,
		"best", e.best.Individual.Fitness,
		"found_in", e.best.Generation)

	return e.result(), nil
}

// initializePool creates and evaluates the initial population
func (e *Engine[S]) initializePool() {
	genotypes := make([]S, e.config.PoolSize)
	for i := range genotypes {
		genotypes[i] = e.problem.Random(e.rng)
	}

	e.currentPool = &Population[S]{
		Members:    e.evaluate(genotypes, 0),
		Generation: 0,
		Direction:  e.problem.Direction(),
	}
	e.currentPool.Sort()
}

// evolveGeneration replaces the whole population with offspring of the current one
func (e *Engine[S]) evolveGeneration(generation int) error {
	draw, err := e.selector.Prepare(e.currentPool)
	if err != nil {
		return fmt.Errorf("generation %d: %w", generation, err)
	}

	size := e.config.PoolSize
	parents := e.currentPool.Members
	children := make([]S, 0, size)

	// Pool pairing draws the whole mating pool before any reproduction
	var matingPool []int
	if e.config.Pairing == PairFromPool {
		matingPool = make([]int, size)
		for i := range matingPool {
			matingPool[i] = draw(e.rng)
		}
	}

	for len(children) < size {
		var a, b int
		if e.config.Pairing == PairFromPool {
			// Two distinct pool slots; the same individual may fill both
			i := e.rng.IntN(size)
			j := e.rng.IntN(size - 1)
			if j >= i {
				j++
			}
			a, b = matingPool[i], matingPool[j]
		} else {
			a = draw(e.rng)
			b = draw(e.rng)
		}

		offspring := e.problem.Crossover(parents[a].Genotype, parents[b].Genotype, e.rng)
		if len(offspring) == 0 {
			return fmt.Errorf("generation %d: crossover produced no offspring", generation)
		}

		for _, child := range offspring {
			if len(children) >= size {
				break
			}
			children = append(children, e.problem.Mutate(child, e.config.MutationRate, e.rng))
		}
	}

	next := &Population[S]{
		Members:    e.evaluate(children, generation),
		Generation: generation,
		Direction:  e.problem.Direction(),
	}
	next.Sort()
	e.currentPool = next

	return nil
}

// evaluate scores genotypes into individuals, concurrently when Parallelism > 1.
// Evaluation draws no random numbers, so concurrency never alters a seeded run
func (e *Engine[S]) evaluate(genotypes []S, generation int) []Individual[S] {
	members := make([]Individual[S], len(genotypes))
	score := func(i int) {
		eval := e.problem.Evaluate(genotypes[i])
		members[i] = Individual[S]{
			Genotype:   genotypes[i],
			Fitness:    eval.Fitness,
			Generation: generation,
			Detail:     eval.Detail,
		}
	}

	if e.config.Parallelism <= 1 {
		for i := range genotypes {
			score(i)
		}
		return members
	}

	p := pool.New().WithMaxGoroutines(e.config.Parallelism)
	for i := range genotypes {
		p.Go(func() { score(i) })
	}
	p.Wait()

	return members
}

// record appends statistics and notifies the observer for the current population
func (e *Engine[S]) record(improved bool) {
	stats := e.currentPool.Stats
	e.history = append(e.history, stats)

	if improved {
		e.logger.Debug("new best",
			"generation", e.currentPool.Generation,
			"fitness", e.best.Individual.Fitness)
	}

	if e.observer != nil {
		e.observer(GenerationReport[S]{
			Generation: e.currentPool.Generation,
			Best:       e.currentPool.Members[0],
			Record:     e.best,
			Improved:   improved,
			Stats:      stats,
		})
	}
}

func (e *Engine[S]) result() *Result[S] {
	history := make([]PoolStats, len(e.history))
	copy(history, e.history)
	return &Result[S]{
		Best:       e.best,
		Population: e.currentPool,
		History:    history,
	}
}
