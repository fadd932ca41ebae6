package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/gasolve/genetic"
)

// Recorder persists finished runs
type Recorder interface {
	Record(ctx context.Context, run RunRecord) error
}

// RunConfig is the serializable engine setup of a run
type RunConfig struct {
	PoolSize     int     `yaml:"pool_size"`
	Generations  int     `yaml:"generations"`
	MutationRate float64 `yaml:"mutation_rate"`
	Pairing      string  `yaml:"pairing"`
	Selection    string  `yaml:"selection"`
	Parallelism  int     `yaml:"parallelism"`
}

// RunRecord is the serializable outcome of one run
type RunRecord struct {
	ID             string              `yaml:"id"`
	Variant        string              `yaml:"variant"`
	Seed           uint64              `yaml:"seed"`
	Config         RunConfig           `yaml:"config"`
	BestFitness    float64             `yaml:"best_fitness"`
	BestGeneration int                 `yaml:"best_generation"`
	BestGenotype   string              `yaml:"best_genotype"`
	History        []genetic.PoolStats `yaml:"history"`
	CreatedAt      time.Time           `yaml:"created_at"`
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.NewString()
}

// FromResult converts an engine result to a record with a fresh ID
func FromResult[S any](variant, selection string, cfg genetic.EngineConfig, res *genetic.Result[S]) RunRecord {
	rec := RunRecord{
		ID:      NewRunID(),
		Variant: variant,
		Seed:    cfg.Seed,
		Config: RunConfig{
			PoolSize:     cfg.PoolSize,
			Generations:  cfg.Generations,
			MutationRate: cfg.MutationRate,
			Pairing:      cfg.Pairing.String(),
			Selection:    selection,
			Parallelism:  cfg.Parallelism,
		},
		CreatedAt: time.Now().UTC().Round(0),
	}
	if res == nil {
		return rec
	}

	rec.BestFitness = res.Best.Individual.Fitness
	rec.BestGeneration = res.Best.Generation
	rec.BestGenotype = fmt.Sprint(res.Best.Individual.Genotype)
	rec.History = make([]genetic.PoolStats, len(res.History))
	copy(rec.History, res.History)
	return rec
}
