package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/factory"
	"github.com/warp/scenario-engine/lint"
	"github.com/warp/scenario-engine/scenario"
)

// runOptions are the window and output flags shared by run and presets run.
type runOptions struct {
	start   string
	end     string
	initial float64
	output  string
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.start, "start", "", "first month, YYYY-MM or YYYY-MM-DD (default: current month)")
	cmd.Flags().StringVar(&o.end, "end", "", "last month (default: start + simulation.default_horizon_months - 1)")
	cmd.Flags().Float64Var(&o.initial, "initial", 0, "initial balance")
	cmd.Flags().StringVarP(&o.output, "output", "o", "table", "output format (table, json)")
}

// input resolves the window flags. Unset flags fall back to fallback's
// window, or to the current month and configured horizon.
func (o *runOptions) input(s scenario.Scenario, horizon int, fallback *scenario.Input) (scenario.Input, error) {
	in := scenario.Input{Scenario: s, InitialBalance: decimal.NewFromFloat(o.initial)}

	switch {
	case o.start != "":
		d, err := calendar.Parse(o.start)
		if err != nil {
			return in, fmt.Errorf("--start: %w", err)
		}
		in.StartDate = d
	case fallback != nil:
		in.StartDate = fallback.StartDate
	default:
		in.StartDate = calendar.Today().StartOfMonth()
	}

	switch {
	case o.end != "":
		d, err := calendar.Parse(o.end)
		if err != nil {
			return in, fmt.Errorf("--end: %w", err)
		}
		in.EndDate = d
	case fallback != nil && o.start == "":
		in.EndDate = fallback.EndDate
	default:
		in.EndDate = in.StartDate.StartOfMonth().AddMonths(horizon - 1)
	}

	if fallback != nil && o.initial == 0 {
		in.InitialBalance = fallback.InitialBalance
	}
	return in, nil
}

func (o *runOptions) render(w io.Writer, name string, res scenario.Result) error {
	switch o.output {
	case "table":
		return renderResult(w, name, res)
	case "json":
		return renderResultJSON(w, name, res)
	default:
		return fmt.Errorf("unknown output format %q (use table or json)", o.output)
	}
}

func runCmd(a *app) *cobra.Command {
	var opts runOptions
	var strict bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Simulate a scenario file",
		Long: `Simulate a JSON or YAML scenario file and print the month-by-month
projection. Lint errors are reported on stderr; --strict makes them fatal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := factory.NewScenarioFactory().LoadFile(args[0])
			if err != nil {
				return err
			}

			report := lint.Check(s)
			if report.HasErrors() {
				renderFindings(cmd.ErrOrStderr(), args[0], report)
				if strict {
					return fmt.Errorf("%s: %d lint error(s)", args[0], report.Count(lint.SeverityError))
				}
			}

			in, err := opts.input(s, a.cfg.Simulation.DefaultHorizonMonths, nil)
			if err != nil {
				return err
			}
			res, err := scenario.NewSimulator(a.logger, a.cfg.Simulation.MaxParallel).Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), displayName(s, args[0]), res)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on lint errors")
	return cmd
}

func displayName(s scenario.Scenario, fallback string) string {
	if s.Name != "" {
		return s.Name
	}
	return fallback
}
