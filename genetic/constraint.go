package genetic

import "math/rand/v2"

// ParameterBounds defines min/max for a single real-valued gene
type ParameterBounds struct {
	Min, Max float64
}

// Clamp enforces bounds on a single value
func (b ParameterBounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Sample draws uniformly from [Min, Max)
func (b ParameterBounds) Sample(rng *rand.Rand) float64 {
	return b.Min + rng.Float64()*(b.Max-b.Min)
}

// Contains reports whether v lies within the closed range
func (b ParameterBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Perturb adds uniform noise in [-step, +step] and clamps the result
func (b ParameterBounds) Perturb(v, step float64, rng *rand.Rand) float64 {
	return b.Clamp(v + (rng.Float64()*2-1)*step)
}
