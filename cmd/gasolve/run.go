package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gasolve/config"
	"github.com/lixenwraith/gasolve/genetic"
	"github.com/lixenwraith/gasolve/genetic/persistence"
	"github.com/lixenwraith/gasolve/parameter"
	"github.com/lixenwraith/gasolve/report"
)

// session is the resolved state every variant command shares
type session struct {
	cfg     config.Config
	out     io.Writer
	logger  *slog.Logger
	console *report.Console
	closer  io.Closer
}

func newSession(cmd *cobra.Command, opts *options) (*session, error) {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return nil, err
	}

	// A drawn seed is stored with the run so it can be replayed
	if cfg.Run.Seed == 0 {
		cfg.Run.Seed = rand.Uint64() | 1
	}

	logPath := ""
	if cfg.Output.TUI {
		logPath = parameter.GeneticLogPath
	}
	logger, closer, err := setupLogging(opts.debug, cmd.ErrOrStderr(), logPath)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	return &session{
		cfg:     cfg,
		out:     cmd.OutOrStdout(),
		logger:  logger,
		console: report.NewConsole(cmd.OutOrStdout()),
		closer:  closer,
	}, nil
}

func (s *session) Close() {
	closeQuietly(s.closer)
}

// variant is one solver ready to run
type variant[S any] struct {
	name      string
	problem   genetic.Problem[S]
	selector  genetic.Selector[S]
	selection string
	// rng, when set, already fed problem setup and continues into the run
	rng *rand.Rand
	// describe explains the best genotype after the run
	describe func(best genetic.Individual[S]) []string
}

func execute[S any](ctx context.Context, s *session, v variant[S]) error {
	engineCfg, err := s.cfg.Engine(v.name)
	if err != nil {
		return err
	}

	engine, err := genetic.NewEngine(v.problem, v.selector, engineCfg)
	if err != nil {
		return fmt.Errorf("%s: %w", v.name, err)
	}
	engine.SetLogger(s.logger.With("variant", v.name, "seed", engineCfg.Seed))
	if v.rng != nil {
		engine.SetRand(v.rng)
	}

	var res *genetic.Result[S]
	if s.cfg.Output.TUI {
		res, err = runWithScreen(ctx, engine, fmt.Sprintf("gasolve %s  seed %d", v.name, engineCfg.Seed))
	} else {
		if !s.cfg.Output.Quiet {
			engine.SetObserver(report.ConsoleObserver[S](s.console))
		}
		res, err = engine.Run(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", v.name, err)
	}

	best := res.Best
	s.console.Summary(v.name, best.Individual.Fitness, best.Generation, best.Individual.Genotype)
	if v.describe != nil {
		for _, line := range v.describe(best.Individual) {
			s.console.Line("  %s", line)
		}
	}
	s.console.Line("seed %d", engineCfg.Seed)

	if path := s.cfg.Output.Plot; path != "" {
		if err := report.PlotHistory(res.History, v.name+" fitness", path); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		s.console.Line("plot written to %s", path)
	}

	return s.record(ctx, persistence.FromResult(v.name, v.selection, engineCfg, res))
}

// record writes the run to every configured recorder
func (s *session) record(ctx context.Context, run persistence.RunRecord) error {
	var recorders []persistence.Recorder

	if dir := s.cfg.Output.Save; dir != "" {
		recorders = append(recorders, persistence.NewFileManager(dir))
	}
	if path := s.cfg.Output.DB; path != "" {
		store, err := persistence.OpenSQLite(ctx, path)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer store.Close()
		recorders = append(recorders, store)
	}
	if len(recorders) == 0 {
		return nil
	}

	var errs []error
	for _, r := range recorders {
		if err := r.Record(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}

	s.logger.Debug("run recorded", "id", run.ID, "recorders", len(recorders))
	s.console.Line("run %s recorded", run.ID)
	return nil
}

// runWithScreen drives the engine under the terminal dashboard and waits for a quit key
func runWithScreen[S any](ctx context.Context, engine *genetic.Engine[S], title string) (*genetic.Result[S], error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}
	if err := ts.Init(); err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}
	defer ts.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen := report.NewScreen(ts, title)
	quit := screen.Listen(cancel)
	engine.SetObserver(report.ScreenObserver[S](screen))

	res, err := engine.Run(ctx)
	if err != nil {
		// A quit key mid-run keeps the generations evolved so far
		select {
		case <-quit:
			if res != nil && errors.Is(err, context.Canceled) {
				return res, nil
			}
		default:
		}
		return res, err
	}

	screen.Finish()
	screen.Draw()
	select {
	case <-quit:
	case <-ctx.Done():
	}
	return res, nil
}
