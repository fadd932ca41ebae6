// Package config loads YAML run files for the solvers
package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/lixenwraith/gasolve/genetic"
	"github.com/lixenwraith/gasolve/parameter"
)

// Variant names
const (
	Himmelblau = "himmelblau"
	Knapsack   = "knapsack"
	Team       = "team"
)

// Config is the full run file
type Config struct {
	Run      Run            `yaml:"run"`
	Knapsack KnapsackConfig `yaml:"knapsack"`
	Team     TeamConfig     `yaml:"team"`
	Output   Output         `yaml:"output"`
}

// Run holds engine settings shared by all variants
type Run struct {
	Population   int     `yaml:"population"`
	Generations  int     `yaml:"generations"`
	MutationRate float64 `yaml:"mutation_rate"`
	Seed         uint64  `yaml:"seed"`
	Parallelism  int     `yaml:"parallelism"`
}

// KnapsackConfig holds the binary variant settings
type KnapsackConfig struct {
	Capacity float64 `yaml:"capacity"`
	// ItemsCSV replaces the built-in item list when set
	ItemsCSV string `yaml:"items_csv"`
}

// TeamConfig holds the team variant settings
type TeamConfig struct {
	// MutationRate overrides run.mutation_rate for team evolution
	MutationRate   float64 `yaml:"mutation_rate"`
	EntitiesCSV    string  `yaml:"entities_csv"`
	TypesCSV       string  `yaml:"types_csv"`
	Selection      string  `yaml:"selection"`
	TournamentSize int     `yaml:"tournament_size"`
	// Pairing is direct or pool
	Pairing string `yaml:"pairing"`
	// Opponent names a fixed lineup; drawn from the run seed when empty
	Opponent []string `yaml:"opponent"`
}

// Output controls where results go
type Output struct {
	Quiet bool   `yaml:"quiet"`
	Plot  string `yaml:"plot"`
	DB    string `yaml:"db"`
	Save  string `yaml:"save"`
	TUI   bool   `yaml:"tui"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Run: Run{
			Population:   parameter.GAPoolSize,
			Generations:  parameter.GAGenerations,
			MutationRate: parameter.GAMutationRate,
			Parallelism:  parameter.GAParallelism,
		},
		Knapsack: KnapsackConfig{
			Capacity: parameter.GAKnapsackCapacity,
		},
		Team: TeamConfig{
			MutationRate:   parameter.GATeamMutationRate,
			Selection:      "roulette",
			TournamentSize: parameter.GATournamentSize,
			Pairing:        genetic.PairFromPool.String(),
		},
	}
}

// Load overlays the file at path on Default. An empty path returns Default
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", genetic.ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values before any engine is built
func (c Config) Validate() error {
	if c.Run.Population < 1 {
		return fmt.Errorf("%w: run.population %d < 1", genetic.ErrInvalidConfig, c.Run.Population)
	}
	if c.Run.Generations < 1 {
		return fmt.Errorf("%w: run.generations %d < 1", genetic.ErrInvalidConfig, c.Run.Generations)
	}
	if !validRate(c.Run.MutationRate) {
		return fmt.Errorf("%w: run.mutation_rate %v outside [0, 1]", genetic.ErrInvalidConfig, c.Run.MutationRate)
	}
	if !validRate(c.Team.MutationRate) {
		return fmt.Errorf("%w: team.mutation_rate %v outside [0, 1]", genetic.ErrInvalidConfig, c.Team.MutationRate)
	}
	if c.Run.Parallelism < 0 {
		return fmt.Errorf("%w: run.parallelism %d < 0", genetic.ErrInvalidConfig, c.Run.Parallelism)
	}
	if math.IsNaN(c.Knapsack.Capacity) || c.Knapsack.Capacity < 0 {
		return fmt.Errorf("%w: knapsack.capacity %v < 0", genetic.ErrInvalidConfig, c.Knapsack.Capacity)
	}
	if _, err := ParsePairing(c.Team.Pairing); err != nil {
		return err
	}
	if n := len(c.Team.Opponent); n != 0 && n != parameter.GATeamSize {
		return fmt.Errorf("%w: team.opponent names %d entities, want %d",
			genetic.ErrInvalidConfig, n, parameter.GATeamSize)
	}
	switch strings.ToLower(c.Team.Selection) {
	case "", "roulette", "biased", "biased-roulette":
	case "tournament":
		if c.Team.TournamentSize < 1 || c.Team.TournamentSize > c.Run.Population {
			return fmt.Errorf("%w: team.tournament_size %d outside [1, %d]",
				genetic.ErrInvalidConfig, c.Team.TournamentSize, c.Run.Population)
		}
	default:
		return fmt.Errorf("%w: team.selection %q", genetic.ErrInvalidConfig, c.Team.Selection)
	}
	return nil
}

// Engine builds the engine settings for a variant
func (c Config) Engine(variant string) (genetic.EngineConfig, error) {
	cfg := genetic.EngineConfig{
		PoolSize:     c.Run.Population,
		Generations:  c.Run.Generations,
		MutationRate: c.Run.MutationRate,
		Pairing:      genetic.PairDirect,
		Parallelism:  c.Run.Parallelism,
		Seed:         c.Run.Seed,
	}
	switch variant {
	case Himmelblau, Knapsack:
	case Team:
		pairing, err := ParsePairing(c.Team.Pairing)
		if err != nil {
			return cfg, err
		}
		cfg.MutationRate = c.Team.MutationRate
		cfg.Pairing = pairing
	default:
		return cfg, fmt.Errorf("%w: unknown variant %q", genetic.ErrInvalidConfig, variant)
	}
	return cfg, cfg.Validate()
}

// ParsePairing maps direct and pool to a Pairing
func ParsePairing(s string) (genetic.Pairing, error) {
	switch strings.ToLower(s) {
	case "", "direct":
		return genetic.PairDirect, nil
	case "pool":
		return genetic.PairFromPool, nil
	}
	return genetic.PairDirect, fmt.Errorf("%w: pairing %q", genetic.ErrInvalidConfig, s)
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 1
}
