package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/gasolve/catalog"
	"github.com/lixenwraith/gasolve/config"
	"github.com/lixenwraith/gasolve/genetic"
	"github.com/lixenwraith/gasolve/parameter"
	"github.com/lixenwraith/gasolve/problem/himmelblau"
	"github.com/lixenwraith/gasolve/problem/knapsack"
	"github.com/lixenwraith/gasolve/problem/team"
)

func newHimmelblauCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "himmelblau",
		Short: "Minimize Himmelblau's function over [-5, 5]²",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			return execute(cmd.Context(), s, variant[himmelblau.Genome]{
				name:      config.Himmelblau,
				problem:   himmelblau.New(),
				selector:  himmelblau.Selector(),
				selection: "rank-window",
				describe: func(best genetic.Individual[himmelblau.Genome]) []string {
					g := best.Genotype
					return []string{fmt.Sprintf("x=%.6f y=%.6f", g.X[himmelblau.GeneX], g.X[himmelblau.GeneY])}
				},
			})
		},
	}
}

func newKnapsackCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knapsack",
		Short: "Pack the most value under a weight capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			items, err := loadItems(s.cfg.Knapsack.ItemsCSV)
			if err != nil {
				return err
			}
			p, err := knapsack.New(items, s.cfg.Knapsack.Capacity)
			if err != nil {
				return err
			}

			return execute(cmd.Context(), s, variant[knapsack.Bits]{
				name:      config.Knapsack,
				problem:   p,
				selector:  knapsack.Selector(),
				selection: "biased-roulette",
				describe: func(best genetic.Individual[knapsack.Bits]) []string {
					load := p.Measure(best.Genotype)
					lines := []string{fmt.Sprintf("used space %.4g of %.4g, value %.2f",
						load.Weight, p.Capacity(), load.Value)}
					for _, it := range p.Selected(best.Genotype) {
						lines = append(lines, fmt.Sprintf("%s  weight %.4g  value %.2f", it.Name, it.Weight, it.Value))
					}
					return lines
				},
			})
		},
	}

	cmd.Flags().Float64Var(&opts.capacity, "capacity", parameter.GAKnapsackCapacity, "weight capacity")
	cmd.Flags().StringVar(&opts.items, "items", "", "items CSV (name,weight,value); built-in list when empty")
	return cmd
}

func newTeamCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Evolve a six-member team against a fixed opponent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			entities, err := loadEntities(s.cfg.Team.EntitiesCSV, s.cfg.Team.TypesCSV)
			if err != nil {
				return err
			}
			selector, err := team.SelectorByName(s.cfg.Team.Selection, s.cfg.Team.TournamentSize)
			if err != nil {
				return err
			}

			// A drawn opponent is the first draw of the run sequence
			rng := genetic.NewRand(s.cfg.Run.Seed)
			p, err := newTeamProblem(entities, s.cfg.Team.Opponent, rng)
			if err != nil {
				return err
			}
			s.console.Line("opponent %s", p.Opponent())
			for _, o := range p.Aggregator().Opponents() {
				s.console.Line("  %s  hp %.0f  atk %.0f  def %.0f  spd %.0f", o, o.HP, o.Attack, o.Defense, o.Speed)
			}

			selection := s.cfg.Team.Selection
			if selection == "" {
				selection = "roulette"
			}
			return execute(cmd.Context(), s, variant[team.Team]{
				name:      config.Team,
				problem:   p,
				selector:  selector,
				selection: selection,
				rng:       rng,
				describe: func(best genetic.Individual[team.Team]) []string {
					score, ok := best.Detail.(team.Score)
					if !ok {
						return nil
					}
					lines := make([]string, 0, len(best.Genotype))
					for i, member := range best.Genotype {
						lines = append(lines, fmt.Sprintf("%s  %.4f vs opponents", member, score.MemberTotal(i)))
					}
					return lines
				},
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.entities, "entities", "", "entity CSV; built-in catalog when empty")
	f.StringVar(&opts.types, "types", "", "type effectiveness CSV; built-in matrix when empty")
	f.StringVar(&opts.selection, "selection", "roulette", "roulette, biased or tournament")
	f.IntVar(&opts.tournamentSize, "tournament-size", parameter.GATournamentSize, "tournament size")
	f.StringVar(&opts.pairing, "pairing", genetic.PairFromPool.String(), "direct or pool")
	f.StringSliceVar(&opts.opponent, "opponent", nil, "six comma-separated entity names; drawn from the seed when empty")
	return cmd
}

func newTeamProblem(entities *catalog.Entities, opponent []string, rng *rand.Rand) (*team.Problem, error) {
	if len(opponent) == 0 {
		return team.New(entities, rng)
	}
	lineup, err := team.LineupByName(entities, opponent)
	if err != nil {
		return nil, err
	}
	return team.NewWithOpponent(entities, lineup)
}

func loadItems(path string) (*catalog.Items, error) {
	if path == "" {
		return catalog.DefaultItems()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.LoadItemsCSV(f)
}

func loadEntities(entitiesPath, typesPath string) (*catalog.Entities, error) {
	matrix, err := loadMatrix(typesPath)
	if err != nil {
		return nil, err
	}
	if entitiesPath == "" {
		return catalog.DefaultEntitiesFor(matrix)
	}
	f, err := os.Open(entitiesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.LoadEntitiesCSV(f, matrix)
}

func loadMatrix(path string) (*catalog.TypeMatrix, error) {
	if path == "" {
		return catalog.DefaultTypeMatrix()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.LoadTypeMatrixCSV(f)
}
