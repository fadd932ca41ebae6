// Package team evolves a fixed-size lineup of catalog entities against a fixed opponent lineup
package team

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lixenwraith/gasolve/catalog"
	"github.com/lixenwraith/gasolve/genetic"
	"github.com/lixenwraith/gasolve/parameter"
)

// Size is the number of members in a lineup
const Size = parameter.GATeamSize

// Team is an ordered lineup; slots may repeat an entity
type Team [Size]*catalog.Entity

// Members returns the lineup as a slice
func (t Team) Members() []*catalog.Entity {
	return t[:]
}

func (t Team) String() string {
	names := make([]string, 0, Size)
	for _, e := range t {
		names = append(names, e.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}

// Problem maximizes team score against the opponent fixed at construction
type Problem struct {
	entities   *catalog.Entities
	opponent   Team
	aggregator *Aggregator
}

// New draws the opponent lineup once from rng and binds it for the whole run
func New(entities *catalog.Entities, rng *rand.Rand) (*Problem, error) {
	if entities == nil {
		return nil, fmt.Errorf("%w: nil entity catalog", genetic.ErrInvalidConfig)
	}
	return NewWithOpponent(entities, sample(entities, rng))
}

// NewWithOpponent binds a caller-supplied opponent lineup
func NewWithOpponent(entities *catalog.Entities, opponent Team) (*Problem, error) {
	if entities == nil {
		return nil, fmt.Errorf("%w: nil entity catalog", genetic.ErrInvalidConfig)
	}
	agg, err := NewAggregator(opponent.Members(), entities.Matrix())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", genetic.ErrInvalidConfig, err)
	}
	return &Problem{entities: entities, opponent: opponent, aggregator: agg}, nil
}

// LineupByName resolves exactly Size entity names, case-insensitively
func LineupByName(entities *catalog.Entities, names []string) (Team, error) {
	var t Team
	if len(names) != Size {
		return t, fmt.Errorf("%w: lineup has %d names, want %d", genetic.ErrInvalidConfig, len(names), Size)
	}
	for i, name := range names {
		e, ok := entities.ByName(strings.TrimSpace(name))
		if !ok {
			return t, fmt.Errorf("%w: no entity named %q", genetic.ErrInvalidConfig, name)
		}
		t[i] = e
	}
	return t, nil
}

// Opponent returns the fixed opponent lineup
func (p *Problem) Opponent() Team { return p.opponent }

// Aggregator returns the scorer bound to the opponent
func (p *Problem) Aggregator() *Aggregator { return p.aggregator }

// Direction implements genetic.Problem
func (p *Problem) Direction() genetic.Direction {
	return genetic.Maximize
}

// Random samples every slot uniformly with replacement
func (p *Problem) Random(rng *rand.Rand) Team {
	return sample(p.entities, rng)
}

// Evaluate sums pair fitness over all member/opponent pairs; Detail carries the Score
func (p *Problem) Evaluate(t Team) genetic.Evaluation {
	s := p.aggregator.Evaluate(t.Members())
	return genetic.Evaluation{Fitness: s.Total, Detail: s}
}

// Cross returns a[:cut] ++ b[cut:]
func Cross(a, b Team, cut int) Team {
	child := b
	copy(child[:cut], a[:cut])
	return child
}

// Crossover draws a cut in [0, Size) and returns a single child
func (p *Problem) Crossover(a, b Team, rng *rand.Rand) []Team {
	return []Team{Cross(a, b, rng.IntN(Size))}
}

// Mutate replaces each slot with probability rate by a fresh catalog sample
func (p *Problem) Mutate(t Team, rate float64, rng *rand.Rand) Team {
	out := t
	for i := range out {
		if rng.Float64() < rate {
			out[i] = p.entities.Sample(rng)
		}
	}
	return out
}

// Selector returns the default roulette-wheel selector
func Selector() genetic.Selector[Team] {
	return &genetic.RouletteSelector[Team]{}
}

// SelectorByName resolves roulette, biased or tournament
func SelectorByName(name string, tournamentSize int) (genetic.Selector[Team], error) {
	switch strings.ToLower(name) {
	case "", "roulette":
		return &genetic.RouletteSelector[Team]{}, nil
	case "biased", "biased-roulette":
		return &genetic.BiasedRouletteSelector[Team]{}, nil
	case "tournament":
		return &genetic.TournamentSelector[Team]{Size: tournamentSize}, nil
	}
	return nil, fmt.Errorf("%w: unknown selection %q", genetic.ErrInvalidConfig, name)
}

func sample(entities *catalog.Entities, rng *rand.Rand) Team {
	var t Team
	for i := range t {
		t[i] = entities.Sample(rng)
	}
	return t
}
