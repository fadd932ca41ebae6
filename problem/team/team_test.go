package team

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/gasolve/catalog"
	"github.com/lixenwraith/gasolve/genetic"
)

func matrixOf(t *testing.T, same float64) *catalog.TypeMatrix {
	t.Helper()
	m, err := catalog.NewTypeMatrix(
		[]catalog.Type{"fire", "water"},
		[][]float64{
			{same, 0.5},
			{2, same},
		},
	)
	require.NoError(t, err)
	return m
}

func unit(name string, t1 catalog.Type) *catalog.Entity {
	return &catalog.Entity{Name: name, Type1: t1, HP: 50, Attack: 60, Defense: 60, Speed: 40}
}

func TestPairFitness_IdenticalSingleEntityTeams(t *testing.T) {
	// Neutral same-type multiplier: 1 + 1*1*1
	agg, err := NewAggregator([]*catalog.Entity{unit("b", "fire")}, matrixOf(t, 1))
	require.NoError(t, err)
	s := agg.Evaluate([]*catalog.Entity{unit("a", "fire")})
	assert.Equal(t, 2.0, s.Total)
	assert.Equal(t, [][]float64{{2.0}}, s.PerMember)

	// Doubling same-type effectiveness gives 1 + 1*2*1
	agg, err = NewAggregator([]*catalog.Entity{unit("b", "fire")}, matrixOf(t, 2))
	require.NoError(t, err)
	assert.Equal(t, 3.0, agg.Evaluate([]*catalog.Entity{unit("a", "fire")}).Total)
}

func TestMultiplier_DualTypes(t *testing.T) {
	agg, err := NewAggregator([]*catalog.Entity{unit("o", "fire")}, matrixOf(t, 1))
	require.NoError(t, err)

	fire := unit("f", "fire")
	water := unit("w", "water")
	dual := unit("d", "fire")
	dual.Type2 = catalog.Some("water")

	assert.Equal(t, 2.0, agg.Multiplier(water, fire))
	assert.Equal(t, 0.5, agg.Multiplier(fire, water))
	// fire->fire 1, fire->water 0.5, water->fire 2, water->water 1
	assert.Equal(t, 1.0, agg.Multiplier(dual, dual))
	// water->fire 2, water->water 1
	assert.Equal(t, 2.0, agg.Multiplier(water, dual))
}

func TestPairFitness_Ratios(t *testing.T) {
	agg, err := NewAggregator([]*catalog.Entity{unit("o", "fire")}, matrixOf(t, 1))
	require.NoError(t, err)

	att := &catalog.Entity{Name: "a", Type1: "water", HP: 100, Attack: 120, Defense: 10, Speed: 80}
	def := &catalog.Entity{Name: "d", Type1: "fire", HP: 50, Attack: 1, Defense: 60, Speed: 40}
	// 100/50 + (120/60) * 2 * (80/40)
	assert.Equal(t, 10.0, agg.PairFitness(att, def))
}

func TestEvaluate_SumsAllPairs(t *testing.T) {
	entities := testEntities(t)
	rng := rand.New(rand.NewPCG(1, 1))
	p, err := New(entities, rng)
	require.NoError(t, err)

	lineup := p.Random(rng)
	eval := p.Evaluate(lineup)
	score := eval.Detail.(Score)
	require.Len(t, score.PerMember, Size)

	var sum float64
	for i := range score.PerMember {
		require.Len(t, score.PerMember[i], Size)
		sum += score.MemberTotal(i)
	}
	assert.InDelta(t, sum, eval.Fitness, 1e-9)
	assert.Greater(t, eval.Fitness, 0.0)
}

func TestCrossover(t *testing.T) {
	entities := testEntities(t)
	rng := rand.New(rand.NewPCG(2, 2))
	p, err := New(entities, rng)
	require.NoError(t, err)

	var a, b Team
	for i := range a {
		a[i] = entities.At(0)
		b[i] = entities.At(1)
	}
	child := Cross(a, b, 2)
	assert.Same(t, entities.At(0), child[1])
	assert.Same(t, entities.At(1), child[2])
	assert.Same(t, entities.At(0), a[5], "parents untouched")

	assert.Equal(t, b, Cross(a, b, 0))

	lineup := p.Random(rng)
	for i := 0; i < 50; i++ {
		kids := p.Crossover(lineup, lineup, rng)
		require.Len(t, kids, 1)
		assert.Equal(t, lineup, kids[0])
	}
}

func TestMutate(t *testing.T) {
	entities := testEntities(t)
	rng := rand.New(rand.NewPCG(3, 3))
	p, err := New(entities, rng)
	require.NoError(t, err)

	lineup := p.Random(rng)
	assert.Equal(t, lineup, p.Mutate(lineup, 0, rng))

	before := lineup
	_ = p.Mutate(lineup, 1, rng)
	assert.Equal(t, before, lineup)
}

func TestOpponentFixed(t *testing.T) {
	entities := testEntities(t)
	p, err := New(entities, rand.New(rand.NewPCG(4, 4)))
	require.NoError(t, err)
	opponent := p.Opponent()

	cfg := genetic.DefaultConfig()
	cfg.Pairing = genetic.PairFromPool
	cfg.Generations = 30
	cfg.MutationRate = 0.1
	cfg.Seed = 4

	engine, err := genetic.NewEngine[Team](p, Selector(), cfg)
	require.NoError(t, err)

	var records []float64
	engine.SetObserver(func(r genetic.GenerationReport[Team]) {
		records = append(records, r.Record.Individual.Fitness)
	})
	res, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, opponent, p.Opponent())
	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i], records[i-1])
	}
	for _, s := range res.History {
		assert.Equal(t, cfg.PoolSize, s.Size)
	}
}

func TestLineupByName(t *testing.T) {
	entities := testEntities(t)
	names := []string{"pikachu", "Charmander", " squirtle ", "BULBASAUR", "Eevee", "pikachu"}

	lineup, err := LineupByName(entities, names)
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", lineup[0].Name)
	assert.Equal(t, "Squirtle", lineup[2].Name)
	assert.Same(t, lineup[0], lineup[5])

	p, err := NewWithOpponent(entities, lineup)
	require.NoError(t, err)
	assert.Equal(t, lineup.Members(), p.Aggregator().Opponents())

	_, err = LineupByName(entities, names[:5])
	assert.ErrorIs(t, err, genetic.ErrInvalidConfig)

	_, err = LineupByName(entities, []string{"pikachu", "eevee", "nobody", "eevee", "eevee", "eevee"})
	assert.ErrorIs(t, err, genetic.ErrInvalidConfig)
}

func TestSelectorByName(t *testing.T) {
	s, err := SelectorByName("tournament", 3)
	require.NoError(t, err)
	assert.IsType(t, &genetic.TournamentSelector[Team]{}, s)

	s, err = SelectorByName("", 0)
	require.NoError(t, err)
	assert.IsType(t, &genetic.RouletteSelector[Team]{}, s)

	_, err = SelectorByName("elitist", 0)
	assert.ErrorIs(t, err, genetic.ErrInvalidConfig)
}

func testEntities(t *testing.T) *catalog.Entities {
	t.Helper()
	entities, err := catalog.DefaultEntities()
	require.NoError(t, err)
	return entities
}
