package scenario

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// SIMULATOR - Logged and batched runs
// =============================================================================

// Simulator wraps Run with logging and parallel batches. Independent inputs
// share nothing, so a batch is embarrassingly parallel; the months of one
// run are always evaluated in order.
type Simulator struct {
	Logger      *slog.Logger
	MaxParallel int // <= 0 means no limit
}

// NewSimulator creates a simulator. A nil logger uses slog.Default().
func NewSimulator(logger *slog.Logger, maxParallel int) *Simulator {
	return &Simulator{Logger: logger, MaxParallel: maxParallel}
}

func (s *Simulator) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Run validates the window and runs one simulation.
func (s *Simulator) Run(ctx context.Context, in Input) (Result, error) {
	if err := ValidatePeriod(in); err != nil {
		return Result{}, err
	}
	started := time.Now()
	res := Run(in)
	s.logger().DebugContext(ctx, "scenario run complete",
		"scenario", in.Scenario.Name,
		"events", len(in.Scenario.Events),
		"months", len(res.Months),
		"final_balance", res.FinalBalance().String(),
		"elapsed", time.Since(started))
	return res, nil
}

// RunBatch runs every input and returns results in input order. The first
// invalid input or a cancelled context stops the batch.
func (s *Simulator) RunBatch(ctx context.Context, inputs []Input) ([]Result, error) {
	for _, in := range inputs {
		if err := ValidatePeriod(in); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if s.MaxParallel > 0 {
		g.SetLimit(s.MaxParallel)
	}

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Run(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger().InfoContext(ctx, "scenario batch complete", "runs", len(inputs))
	return results, nil
}
