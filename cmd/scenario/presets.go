package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/scenario-engine/factory"
	"github.com/warp/scenario-engine/presets"
	"github.com/warp/scenario-engine/scenario"
	"gopkg.in/yaml.v3"
)

func presetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Category"),
				headerStyle.Render("Window"),
				headerStyle.Render("Description"))
			for _, p := range presets.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%s\n",
					p.ID, p.Category, p.Start.MonthKey(), p.End.MonthKey(), p.Description)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(presetsRunCmd(a))
	cmd.AddCommand(presetsExportCmd())
	return cmd
}

func presetsRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Simulate a preset over its default window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := presets.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q (see 'scenario presets')", args[0])
			}
			def := p.Input()
			in, err := opts.input(p.Scenario, a.cfg.Simulation.DefaultHorizonMonths, &def)
			if err != nil {
				return err
			}
			res, err := scenario.NewSimulator(a.logger, 0).Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), p.Name, res)
		},
	}
	opts.register(cmd)
	return cmd
}

func presetsExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Print a preset as a scenario document",
		Long: `Print a preset as a JSON or YAML scenario document, as a starting point
for your own files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := presets.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q (see 'scenario presets')", args[0])
			}
			doc := factory.NewScenarioFactory().ToJSON(p.Scenario)

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (use json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "document format (json, yaml)")
	return cmd
}
