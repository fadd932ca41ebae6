// Package report renders run progress: console lines, a terminal dashboard and history plots
package report

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/lixenwraith/gasolve/genetic"
)

var (
	improvedStyle = color.Style{color.FgGreen, color.OpBold}
	labelStyle    = color.Style{color.FgCyan}
)

// Console prints one line per generation and a final summary
type Console struct {
	w io.Writer
}

// NewConsole writes to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Generation prints G:<n> -> fitness: <best> <genotype>, marking a new record
func (c *Console) Generation(generation int, fitness float64, genotype any, improved bool) {
	marker := " "
	if improved {
		marker = improvedStyle.Sprint("*")
	}
	fmt.Fprintf(c.w, "%s%s -> fitness: %s %v\n",
		marker, labelStyle.Sprintf("G:%d", generation), formatFitness(fitness), genotype)
}

// Summary prints the best-ever record of a run
func (c *Console) Summary(variant string, fitness float64, generation int, genotype any) {
	fmt.Fprintf(c.w, "%s best fitness %s found in generation %d\n  %v\n",
		improvedStyle.Sprint(variant), formatFitness(fitness), generation, genotype)
}

// Line prints a free-form line
func (c *Console) Line(format string, args ...any) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

// ConsoleObserver adapts a console to the engine observer callback
func ConsoleObserver[S any](c *Console) func(genetic.GenerationReport[S]) {
	return func(r genetic.GenerationReport[S]) {
		c.Generation(r.Generation, r.Best.Fitness, r.Best.Genotype, r.Improved)
	}
}

func formatFitness(f float64) string {
	return fmt.Sprintf("%.6g", f)
}
