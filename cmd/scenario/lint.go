package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/scenario-engine/factory"
	"github.com/warp/scenario-engine/lint"
)

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>...",
		Short: "Check scenario files for shapes that rarely mean what they say",
		Long: `Decode each file and report findings: yearly events that can never fire,
references to unknown events, duplicate names and similar. Exits non-zero if
any file fails to decode or has error-severity findings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := factory.NewScenarioFactory()
			failed := 0
			for _, path := range args {
				s, err := f.LoadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}
				report := lint.Check(s)
				renderFindings(cmd.OutOrStdout(), path, report)
				if report.HasErrors() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed lint", failed, len(args))
			}
			return nil
		},
	}
}
