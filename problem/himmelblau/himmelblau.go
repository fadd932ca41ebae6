// Package himmelblau minimizes Himmelblau's two-variable test surface with a real-valued genotype
package himmelblau

import (
	"fmt"
	"math/rand/v2"

	"github.com/lixenwraith/gasolve/genetic"
	"github.com/lixenwraith/gasolve/parameter"
)

// Genome indices
const (
	GeneX = iota
	GeneY
	GeneCount
)

// Bounds applies to both coordinates
var Bounds = genetic.ParameterBounds{Min: parameter.GASurfaceMin, Max: parameter.GASurfaceMax}

// Genome is a point on the surface plus its mutation step
type Genome struct {
	X [GeneCount]float64
	// Step is the half-width of the uniform mutation perturbation
	Step float64
}

// NewGenome places a genome at (x, y) with the default step
func NewGenome(x, y float64) Genome {
	return Genome{X: [GeneCount]float64{x, y}, Step: parameter.GASurfaceMutationStep}
}

func (g Genome) String() string {
	return fmt.Sprintf("[%.4f %.4f]", g.X[GeneX], g.X[GeneY])
}

// Himmelblau evaluates f(x,y) = (x²+y−11)² + (x+y²−7)²
func Himmelblau(x, y float64) float64 {
	a := x*x + y - 11
	b := x + y*y - 7
	return a*a + b*b
}

// Problem is the continuous-surface minimization
type Problem struct{}

// New creates the problem
func New() *Problem {
	return &Problem{}
}

// Direction implements genetic.Problem
func (p *Problem) Direction() genetic.Direction {
	return genetic.Minimize
}

// Random draws each coordinate uniformly from the bounds
func (p *Problem) Random(rng *rand.Rand) Genome {
	return NewGenome(Bounds.Sample(rng), Bounds.Sample(rng))
}

// Evaluate implements genetic.Problem
func (p *Problem) Evaluate(g Genome) genetic.Evaluation {
	return genetic.Evaluation{Fitness: Himmelblau(g.X[GeneX], g.X[GeneY])}
}

// Cross builds one child from a's prefix and b's suffix at cut.
// Cut 0 keeps a's first gene, cut 1 takes b's first gene and keeps a's second.
// The child inherits a's mutation step
func Cross(a, b Genome, cut int) Genome {
	child := a
	if cut == 0 {
		child.X = [GeneCount]float64{a.X[GeneX], b.X[GeneY]}
	} else {
		child.X = [GeneCount]float64{b.X[GeneX], a.X[GeneY]}
	}
	return child
}

// Crossover draws one cut in {0, 1} and returns the complementary pair
func (p *Problem) Crossover(a, b Genome, rng *rand.Rand) []Genome {
	cut := rng.IntN(GeneCount)
	return []Genome{Cross(a, b, cut), Cross(b, a, cut)}
}

// Mutate perturbs each coordinate with probability rate by U[-step, +step], clamped to bounds
func (p *Problem) Mutate(g Genome, rate float64, rng *rand.Rand) Genome {
	out := g
	for i := range out.X {
		if rng.Float64() < rate {
			out.X[i] = Bounds.Perturb(out.X[i], out.Step, rng)
		}
	}
	return out
}

// Selector returns the default rank-window selector
func Selector() genetic.Selector[Genome] {
	return &genetic.RankWindowSelector[Genome]{}
}
