package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/scenario-engine/api"
	"github.com/warp/scenario-engine/lint"
	"github.com/warp/scenario-engine/scenario"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	severityStyles = map[lint.Severity]lipgloss.Style{
		lint.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		lint.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		lint.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)

// renderResult writes the month-by-month projection as a table.
func renderResult(w io.Writer, name string, res scenario.Result) error {
	fmt.Fprintln(w, titleStyle.Render(name))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t%s\t %s\n",
		headerStyle.Render("Month"),
		headerStyle.Render("Cashflow"),
		headerStyle.Render("Balance"),
		headerStyle.Render("Events"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t %s\n",
		strings.Repeat("─", 7),
		strings.Repeat("─", 10),
		strings.Repeat("─", 10),
		strings.Repeat("─", 6))

	for _, row := range res.Series() {
		balance := row.Balance.StringFixed(2)
		if row.Balance.IsNegative() {
			balance = negativeStyle.Render(balance)
		}
		events := strings.Join(row.Events, ", ")
		if events == "" {
			events = mutedStyle.Render("-")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t %s\n", row.Month, row.Amount.StringFixed(2), balance, events)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s -> %s\n",
		headerStyle.Render("Balance:"),
		res.InitialBalance.StringFixed(2),
		res.FinalBalance().StringFixed(2))
	return nil
}

// renderResultJSON writes the API's result representation.
func renderResultJSON(w io.Writer, name string, res scenario.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewResultDTO(name, res))
}

// renderFindings writes a lint report, one finding per line.
func renderFindings(w io.Writer, source string, report lint.Report) {
	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "%s: %s\n", source, mutedStyle.Render("no findings"))
		return
	}
	for _, f := range report.Findings {
		style := severityStyles[f.Severity]
		fmt.Fprintf(w, "%s: %s [%s] %s: %s\n",
			source, style.Render(string(f.Severity)), f.Code, f.Event, f.Message)
	}
}
