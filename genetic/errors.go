package genetic

import "errors"

var (
	// ErrInvalidConfig reports run parameters rejected at setup
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDegeneratePopulation reports a population whose fitness cannot drive selection,
	// such as a zero, negative or non-finite total on a fitness-proportionate wheel
	ErrDegeneratePopulation = errors.New("degenerate population")
)
