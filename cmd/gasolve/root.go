package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gasolve/config"
	"github.com/lixenwraith/gasolve/parameter"
)

// options holds raw flag values; only flags set on the command line override the run file
type options struct {
	configPath   string
	seed         uint64
	population   int
	generations  int
	mutationRate float64
	parallelism  int
	quiet        bool
	debug        bool
	tui          bool
	plot         string
	db           string
	save         string

	capacity float64
	items    string

	entities       string
	types          string
	selection      string
	tournamentSize int
	pairing        string
	opponent       []string

	historyVariant string
	historyLimit   int
	historyRun     string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gasolve",
		Short:         "Generational genetic algorithm solvers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML run file")
	pf.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 draws one")
	pf.IntVar(&opts.population, "population", parameter.GAPoolSize, "population size")
	pf.IntVar(&opts.generations, "generations", parameter.GAGenerations, "generations after the initial population")
	pf.Float64Var(&opts.mutationRate, "mutation-rate", parameter.GAMutationRate, "per-gene mutation probability")
	pf.IntVar(&opts.parallelism, "parallelism", parameter.GAParallelism, "concurrent fitness evaluations")
	pf.BoolVar(&opts.quiet, "quiet", false, "suppress per-generation lines")
	pf.BoolVar(&opts.debug, "debug", false, "debug logging")
	pf.BoolVar(&opts.tui, "tui", false, "terminal dashboard")
	pf.StringVar(&opts.plot, "plot", "", "write a fitness history PNG to this path")
	pf.StringVar(&opts.db, "db", "", "SQLite run store path")
	pf.StringVar(&opts.save, "save", "", "directory for YAML run snapshots")

	root.AddCommand(
		newHimmelblauCommand(opts),
		newKnapsackCommand(opts),
		newTeamCommand(opts),
		newHistoryCommand(opts),
	)
	return root
}

// resolve loads the run file and applies every flag the user set explicitly
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}

	if changed("seed") {
		cfg.Run.Seed = o.seed
	}
	if changed("population") {
		cfg.Run.Population = o.population
	}
	if changed("generations") {
		cfg.Run.Generations = o.generations
	}
	if changed("mutation-rate") {
		cfg.Run.MutationRate = o.mutationRate
		cfg.Team.MutationRate = o.mutationRate
	}
	if changed("parallelism") {
		cfg.Run.Parallelism = o.parallelism
	}
	if changed("quiet") {
		cfg.Output.Quiet = o.quiet
	}
	if changed("tui") {
		cfg.Output.TUI = o.tui
	}
	if changed("plot") {
		cfg.Output.Plot = o.plot
	}
	if changed("db") {
		cfg.Output.DB = o.db
	}
	if changed("save") {
		cfg.Output.Save = o.save
	}
	if changed("capacity") {
		cfg.Knapsack.Capacity = o.capacity
	}
	if changed("items") {
		cfg.Knapsack.ItemsCSV = o.items
	}
	if changed("entities") {
		cfg.Team.EntitiesCSV = o.entities
	}
	if changed("types") {
		cfg.Team.TypesCSV = o.types
	}
	if changed("selection") {
		cfg.Team.Selection = o.selection
	}
	if changed("tournament-size") {
		cfg.Team.TournamentSize = o.tournamentSize
	}
	if changed("pairing") {
		cfg.Team.Pairing = o.pairing
	}
	if changed("opponent") {
		cfg.Team.Opponent = o.opponent
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		c.Close()
	}
}
