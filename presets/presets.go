/*
Package presets provides built-in demo scenarios.

PURPOSE:
  Ready-made scenarios with a default run window, used by the API's
  /api/presets endpoints and the CLI's presets command. They double as worked
  examples of each condition and recurrence kind.

AVAILABLE PRESETS:
  one-off-expenses: a paycheck and three one-off expenses across two months
  monthly-budget:   matched monthly income and rent over four months
  savings-goal:     a monthly expense unlocked once networth passes 6000
  car-purchase:     insurance that starts the month a car is bought
  annual-bonus:     a yearly bonus that only pays out if salary was paid

ADDING NEW PRESETS:
  1. Write a constructor returning Preset
  2. Append it in All

SEE ALSO:
  - scenario/builders.go: MakeOneOff, MakeRecurring, MakeEvent
  - api/presets.go: HTTP endpoints
*/
package presets

import (
	"github.com/shopspring/decimal"
	"github.com/warp/scenario-engine/calendar"
	"github.com/warp/scenario-engine/scenario"
)

// Preset is a scenario with a default run window.
type Preset struct {
	ID             string
	Name           string
	Description    string
	Category       string // basics, conditions, recurrence
	Scenario       scenario.Scenario
	Start          calendar.Date
	End            calendar.Date
	InitialBalance decimal.Decimal
}

// Input returns the preset's default simulation input.
func (p Preset) Input() scenario.Input {
	return scenario.Input{
		Scenario:       p.Scenario,
		StartDate:      p.Start,
		EndDate:        p.End,
		InitialBalance: p.InitialBalance,
	}
}

// All returns every preset in display order. Each call builds fresh values.
func All() []Preset {
	return []Preset{
		OneOffExpenses(),
		MonthlyBudget(),
		SavingsGoal(),
		CarPurchase(),
		AnnualBonus(),
	}
}

// Get returns the preset with the given ID.
func Get(id string) (Preset, bool) {
	for _, p := range All() {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// =============================================================================
// PRESET DEFINITIONS
// =============================================================================

func OneOffExpenses() Preset {
	return Preset{
		ID:          "one-off-expenses",
		Name:        "One-off Expenses",
		Description: "A paycheck and three one-off expenses; January ends at 250, February at -550",
		Category:    "basics",
		Scenario: scenario.Scenario{
			Name: "One-off Expenses",
			Events: []scenario.Event{
				scenario.MakeOneOff("Paycheck", scenario.EventIncome, amount(1000), date("2023-01-02")),
				scenario.MakeOneOff("Rent", scenario.EventExpense, amount(500), date("2023-01-05")),
				scenario.MakeOneOff("Groceries", scenario.EventExpense, amount(250), date("2023-01-15")),
				scenario.MakeOneOff("Car Repair", scenario.EventExpense, amount(800), date("2023-02-20")),
			},
		},
		Start:          date("2023-01-01"),
		End:            date("2023-02-28"),
		InitialBalance: decimal.Zero,
	}
}

func MonthlyBudget() Preset {
	end := date("2023-04-30")
	return Preset{
		ID:          "monthly-budget",
		Name:        "Monthly Budget",
		Description: "1000 income and 500 rent every month from January to April",
		Category:    "recurrence",
		Scenario: scenario.Scenario{
			Name: "Monthly Budget",
			Events: []scenario.Event{
				scenario.MakeRecurring("Salary", scenario.EventIncome, amount(1000), scenario.RecurMonthly, date("2023-01-01"), &end),
				scenario.MakeRecurring("Rent", scenario.EventExpense, amount(500), scenario.RecurMonthly, date("2023-01-01"), &end),
			},
		},
		Start:          date("2023-01-01"),
		End:            end,
		InitialBalance: decimal.Zero,
	}
}

func SavingsGoal() Preset {
	return Preset{
		ID:          "savings-goal",
		Name:        "Savings Goal",
		Description: "A 4000 vacation fund paid out in months where networth is above 6000",
		Category:    "conditions",
		Scenario: scenario.Scenario{
			Name: "Savings Goal",
			Events: []scenario.Event{
				scenario.MakeRecurring("Salary", scenario.EventIncome, amount(2000), scenario.RecurMonthly, date("2025-01-01"), nil),
				scenario.MakeRecurring("Vacation Fund", scenario.EventExpense, amount(4000), scenario.RecurMonthly, date("2025-01-01"), nil,
					scenario.NetworthIsAbove{EventRef: "Salary", Amount: amount(6000)}),
			},
		},
		Start:          date("2025-01-01"),
		End:            date("2025-05-31"),
		InitialBalance: decimal.Zero,
	}
}

func CarPurchase() Preset {
	return Preset{
		ID:          "car-purchase",
		Name:        "Car Purchase",
		Description: "Monthly car insurance starts the month the car is bought",
		Category:    "conditions",
		Scenario: scenario.Scenario{
			Name: "Car Purchase",
			Events: []scenario.Event{
				scenario.MakeOneOff("Buy Car", scenario.EventExpense, amount(10000), date("2026-01-15")),
				scenario.MakeRecurring("Car Insurance", scenario.EventExpense, amount(120), scenario.RecurMonthly, date("2025-06-01"), nil,
					scenario.EventHappened{EventName: "Buy Car"}),
			},
		},
		Start:          date("2025-06-01"),
		End:            date("2026-06-30"),
		InitialBalance: amount(20000),
	}
}

func AnnualBonus() Preset {
	return Preset{
		ID:          "annual-bonus",
		Name:        "Annual Bonus",
		Description: "A December bonus paid each year, only in years where that month's salary was at least 3000",
		Category:    "recurrence",
		Scenario: scenario.Scenario{
			Name: "Annual Bonus",
			Events: []scenario.Event{
				scenario.MakeRecurring("Salary", scenario.EventIncome, amount(3000), scenario.RecurMonthly, date("2024-01-01"), nil),
				scenario.MakeRecurring("Rent", scenario.EventExpense, amount(1500), scenario.RecurMonthly, date("2024-01-01"), nil),
				scenario.MakeRecurring("Bonus", scenario.EventIncome, amount(5000), scenario.RecurYearly, date("2024-12-01"), nil,
					scenario.IncomeIsAbove{EventName: "Salary", Amount: amount(3000)}),
			},
		},
		Start:          date("2024-01-01"),
		End:            date("2026-12-31"),
		InitialBalance: decimal.Zero,
	}
}

func date(s string) calendar.Date { return calendar.MustParse(s) }

func amount(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
