package main

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/report"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func forecastCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Compute the monthly and annual financials of a scenario",
		Flags: []cli.Flag{scenarioFlag},
		Action: func(c *cli.Context) error {
			sf, err := loadScenario(e.validate, c.String("scenario"))
			if err != nil {
				return err
			}
			calc := sf.Metrics()
			e.log.Debug("forecast computed", "scenario", sf.Name, "plans", len(sf.Plans), "revenue", calc.MonthlyRevenue)

			if c.String("format") == formatJSON {
				return writeJSON(e.out, calc)
			}
			return writeCalculations(e.out, sf.Name, sf.CapitalExpenditure, calc)
		},
	}
}

func simulateCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Compare a bundle simulation against the scenario",
		Flags: []cli.Flag{
			scenarioFlag,
			&cli.StringFlag{Name: "simulation", Usage: "Path to a bundle simulation file", Required: true},
		},
		Action: func(c *cli.Context) error {
			sf, err := loadScenario(e.validate, c.String("scenario"))
			if err != nil {
				return err
			}
			sim, err := loadSimulation(e.validate, c.String("simulation"))
			if err != nil {
				return err
			}

			current := sf.Metrics()
			result := sf.Simulate(sim)
			comparison := forecast.Compare(current, result.Calculations)
			planPrices := forecast.ComparePlanPrices(sf.Plans, sim.AdjustedPrices)

			if c.String("format") == formatJSON {
				return writeJSON(e.out, map[string]any{
					"current":     current,
					"result":      result,
					"comparison":  comparison,
					"plan_prices": planPrices,
				})
			}

			fmt.Fprintf(e.out, "Simulation: %s\n\n", result.Name)
			tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Metric\tCurrent\tSimulated\tChange\t")
			for _, ch := range comparison {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", ch.Label, report.FormatMetric(ch.Label, ch.Current), report.FormatMetric(ch.Label, ch.Simulated), report.Percent(ch.Percentage))
			}
			for _, ch := range planPrices {
				if ch.Amount == 0 {
					continue
				}
				fmt.Fprintf(tw, "%s price\t%s\t%s\t%s\t\n", ch.Label, report.Money(ch.Current), report.Money(ch.Simulated), report.Percent(ch.Percentage))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			names := make([]string, 0, len(result.RemainingAddOns))
			for _, f := range result.RemainingAddOns {
				names = append(names, f.Name)
			}
			fmt.Fprintf(e.out, "\nStill sold separately: %s\n", listOrNone(names))
			return nil
		},
	}
}

func commissionCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "commission",
		Usage: "Evaluate affiliate commission scenarios against the scenario catalog",
		Flags: []cli.Flag{
			scenarioFlag,
			&cli.StringFlag{Name: "commissions", Usage: "Path to a commission scenarios file", Required: true},
		},
		Action: func(c *cli.Context) error {
			sf, err := loadScenario(e.validate, c.String("scenario"))
			if err != nil {
				return err
			}
			scenarios, err := loadCommissions(e.validate, c.String("commissions"))
			if err != nil {
				return err
			}

			rep := forecast.EvaluateCommissions(sf.Plans, sf.AddOns, scenarios)
			if c.String("format") == formatJSON {
				return writeJSON(e.out, rep)
			}

			tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "Scenario\tRevenue\tCommission\tNet\tMargin\t")
			for _, r := range rep.Scenarios {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", r.Name, report.Money(r.Revenue), report.Money(r.Commission), report.Money(r.Net), report.Percent(r.MarginPct))
			}
			t := rep.Totals
			fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t\n", report.Money(t.Revenue), report.Money(t.Commission), report.Money(t.Net), report.Percent(t.MarginPct))
			fmt.Fprintf(tw, "Annual\t%s\t%s\t%s\t\t\n", report.Money(t.AnnualRevenue), report.Money(t.AnnualCommission), report.Money(t.AnnualNet))
			return tw.Flush()
		},
	}
}

func reportCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render a Markdown or HTML report of the scenario",
		Flags: []cli.Flag{
			scenarioFlag,
			&cli.StringFlag{Name: "simulation", Usage: "Optional bundle simulation to include"},
			&cli.BoolFlag{Name: "html", Usage: "Render HTML instead of Markdown"},
		},
		Action: func(c *cli.Context) error {
			sf, err := loadScenario(e.validate, c.String("scenario"))
			if err != nil {
				return err
			}

			doc := report.Document{Title: sf.Name, Snapshot: sf.Snapshot}
			if path := c.String("simulation"); path != "" {
				sim, err := loadSimulation(e.validate, path)
				if err != nil {
					return err
				}
				result := sf.Simulate(sim)
				doc.Simulation = &result
			}

			if c.Bool("html") {
				return report.HTML(e.out, doc)
			}
			return report.Markdown(e.out, doc)
		},
	}
}

func initCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Print a scenario file with the default catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Value: "Base Scenario", Usage: "Scenario name"},
		},
		Action: func(c *cli.Context) error {
			sf := defaultScenario(c.String("name"))
			if c.String("format") == formatJSON {
				return writeJSON(e.out, sf)
			}
			enc := yaml.NewEncoder(e.out)
			enc.SetIndent(2)
			if err := enc.Encode(sf); err != nil {
				return fmt.Errorf("encode scenario: %w", err)
			}
			return enc.Close()
		},
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// defaultScenario builds the default catalog with readable ids derived from
// the names.
func defaultScenario(name string) scenarioFile {
	plans := forecast.DefaultPlans()
	for i := range plans {
		plans[i].ID = string(forecast.ClassifyPlan(plans[i].Name))
	}
	addOns := forecast.DefaultAddOns()
	for i := range addOns {
		addOns[i].ID = slug(addOns[i].Name)
	}
	rows := forecast.DefaultPlanRows(plans)

	return scenarioFile{
		Name: name,
		Snapshot: forecast.Snapshot{
			CapitalExpenditure: forecast.DefaultCapitalExpenditure,
			Plans:              plans,
			AddOns:             addOns,
			OperatingCosts:     forecast.DefaultOperatingCosts(),
			MarketingCosts:     forecast.DefaultMarketingCosts(),
			TechSupport:        rows.TechSupport,
			PlanAddons:         rows.PlanAddons,
			SurgicalTiers:      rows.SurgicalTiers,
			SurgicalExtras:     forecast.DefaultSurgicalExtras(),
			Onboarding:         rows.Onboarding,
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCalculations(w io.Writer, name string, capex float64, calc forecast.Calculations) error {
	fmt.Fprintf(w, "Scenario: %s\n\n", name)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tMonthly\tAnnual\t")
	fmt.Fprintf(tw, "Revenue\t%s\t%s\t\n", report.Money(calc.MonthlyRevenue), report.Money(calc.AnnualRevenue))
	fmt.Fprintf(tw, "Operating expenses\t%s\t%s\t\n", report.Money(calc.MonthlyOperatingExpenses), report.Money(calc.AnnualOperatingExpenses))
	fmt.Fprintf(tw, "Marketing expenses\t%s\t%s\t\n", report.Money(calc.MonthlyMarketingExpenses), report.Money(calc.AnnualMarketingExpenses))
	fmt.Fprintf(tw, "Profit\t%s\t%s\t\n", report.Money(calc.MonthlyProfit), report.Money(calc.AnnualProfit))
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nCapital expenditure: %s\nBreak-even: %s\n", report.Money(capex), report.BreakEvenText(calc.BreakEven))
	return err
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
