// Package report renders a scenario forecast as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Simplici0/forecast/internal/forecast"
)

// Document is the input of a report. Simulation is optional.
type Document struct {
	Title      string
	Snapshot   forecast.Snapshot
	Simulation *forecast.SimulationResult
}

// Money formats v as dollars rounded to cents with thousands separators.
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "$" + group(whole) + "." + frac
}

// Percent formats v with one decimal place.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// BreakEvenText describes a break-even outcome in words.
func BreakEvenText(b forecast.BreakEven) string {
	switch b.Status {
	case forecast.BreakEvenReached:
		return decimal.NewFromFloat(b.Months).StringFixed(1) + " months"
	case forecast.BreakEvenAlready:
		return "already broken even"
	default:
		return "not reached (no monthly profit)"
	}
}

// Markdown writes the report as GitHub-flavored Markdown.
func Markdown(w io.Writer, doc Document) error {
	snap := doc.Snapshot
	calc := snap.Metrics()

	title := doc.Title
	if title == "" {
		title = "Forecast"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("## Summary\n\n| Metric | Monthly | Annual |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Revenue | %s | %s |\n", Money(calc.MonthlyRevenue), Money(calc.AnnualRevenue))
	fmt.Fprintf(&b, "| Operating expenses | %s | %s |\n", Money(calc.MonthlyOperatingExpenses), Money(calc.AnnualOperatingExpenses))
	fmt.Fprintf(&b, "| Marketing expenses | %s | %s |\n", Money(calc.MonthlyMarketingExpenses), Money(calc.AnnualMarketingExpenses))
	fmt.Fprintf(&b, "| Profit | %s | %s |\n\n", Money(calc.MonthlyProfit), Money(calc.AnnualProfit))
	fmt.Fprintf(&b, "Capital expenditure: %s. Break-even: %s.\n\n", Money(snap.CapitalExpenditure), BreakEvenText(calc.BreakEven))

	b.WriteString("## Revenue by source\n\n| Source | Monthly |\n|---|---:|\n")
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Subscriptions", forecast.PlanRevenue(snap.Plans)},
		{"Add-on features", forecast.AddOnRevenue(snap.AddOns)},
		{"Tech support", forecast.TechSupportRevenue(snap.TechSupport)},
		{"Staff and provider seats", forecast.PlanAddonRevenue(snap.PlanAddons)},
		{"Surgical services", forecast.SurgicalRevenue(snap.SurgicalTiers, snap.SurgicalExtras)},
		{"Onboarding upgrades", forecast.OnboardingRevenue(snap.Onboarding)},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", line.label, Money(line.value))
	}
	b.WriteString("\n")

	if len(snap.Plans) > 0 {
		b.WriteString("## Plans\n\n| Plan | Price | Customers | Monthly |\n|---|---:|---:|---:|\n")
		for _, p := range snap.Plans {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", escape(p.Name), Money(p.Price), count(p.Customers), Money(p.Price*p.Customers))
		}
		b.WriteString("\n")
	}

	if len(snap.Onboarding) > 0 {
		sum := forecast.SummarizeOnboarding(snap.Onboarding, forecast.DefaultOnboardingDelivery())
		b.WriteString("## Onboarding\n\n| Upgrade | Revenue | Delivery cost | Profit | Margin |\n|---|---:|---:|---:|---:|\n")
		for _, line := range []struct {
			label string
			l     forecast.OnboardingLine
		}{
			{"Session", sum.Session},
			{"Bundle", sum.Bundle},
			{"Overall", sum.Overall},
		} {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", line.label, Money(line.l.Revenue), Money(line.l.DeliveryCost), Money(line.l.Profit), Percent(line.l.MarginPct))
		}
		b.WriteString("\n")
	}

	if doc.Simulation != nil {
		sim := doc.Simulation
		fmt.Fprintf(&b, "## Simulation: %s\n\n| Metric | Current | Simulated | Change |\n|---|---:|---:|---:|\n", escape(sim.Name))
		for _, c := range forecast.Compare(calc, sim.Calculations) {
			fmt.Fprintf(&b, "| %s | %s | %s | %s (%s) |\n", c.Label, FormatMetric(c.Label, c.Current), FormatMetric(c.Label, c.Simulated), FormatMetric(c.Label, c.Amount), Percent(c.Percentage))
		}
		b.WriteString("\n")
		if len(sim.BundledFeatures) > 0 {
			b.WriteString("Bundled features:\n\n")
			for _, p := range snap.Plans {
				features := sim.BundledFeatures[p.ID]
				if len(features) == 0 {
					continue
				}
				names := make([]string, len(features))
				for i, f := range features {
					names[i] = escape(f.Name)
				}
				fmt.Fprintf(&b, "- %s: %s\n", escape(p.Name), strings.Join(names, ", "))
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// HTML renders the Markdown report to an HTML fragment.
func HTML(w io.Writer, doc Document) error {
	var src bytes.Buffer
	if err := Markdown(&src, doc); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert(src.Bytes(), w); err != nil {
		return fmt.Errorf("render report html: %w", err)
	}
	return nil
}

// FormatMetric formats a comparison value: months as a plain number, everything
// else as money.
func FormatMetric(label string, v float64) string {
	if label == "Break-even Months" {
		return decimal.NewFromFloat(v).StringFixed(1)
	}
	return Money(v)
}

func count(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
