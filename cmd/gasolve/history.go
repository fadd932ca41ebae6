package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gasolve/genetic/persistence"
	"github.com/lixenwraith/gasolve/parameter"
)

func newHistoryCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs kept in the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			path := cfg.Output.DB
			if path == "" {
				path = parameter.GeneticDatabasePath
			}
			store, err := persistence.OpenSQLite(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("open run store: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if opts.historyRun != "" {
				run, err := store.LoadRun(cmd.Context(), opts.historyRun)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s seed %d best %.6g (G:%d) %s\n",
					color.Cyan.Sprint(run.ID), run.Variant, run.Seed,
					run.BestFitness, run.BestGeneration, run.BestGenotype)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "generation\tbest\tworst\tmean\tstddev")
				for _, h := range run.History {
					fmt.Fprintf(tw, "%d\t%.6g\t%.6g\t%.6g\t%.6g\n", h.Generation, h.Best, h.Worst, h.Mean, h.StdDev)
				}
				return tw.Flush()
			}

			runs, err := store.ListRuns(cmd.Context(), opts.historyVariant, opts.historyLimit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "id\tvariant\tseed\tbest\tgeneration\tcreated")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.6g\t%d\t%s\n",
					r.ID, r.Variant, r.Seed, r.BestFitness, r.BestGeneration, r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.historyVariant, "variant", "", "only runs of this variant")
	f.IntVar(&opts.historyLimit, "limit", parameter.GeneticHistoryLimit, "maximum runs listed")
	f.StringVar(&opts.historyRun, "run", "", "show one run with its generation history")
	return cmd
}
