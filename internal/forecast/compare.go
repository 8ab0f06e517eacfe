package forecast

import "math"

// MetricChange compares a current and simulated value of one metric.
type MetricChange struct {
	Label      string  `json:"label"`
	Current    float64 `json:"current"`
	Simulated  float64 `json:"simulated"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Improved   bool    `json:"improved"`
}

func newChange(label string, current, simulated float64, higherIsBetter bool) MetricChange {
	amount := simulated - current
	pct := 0.0
	if current != 0 {
		pct = amount / math.Abs(current) * 100
	}
	improved := amount > 0
	if !higherIsBetter {
		improved = amount < 0
	}
	return MetricChange{
		Label:      label,
		Current:    current,
		Simulated:  simulated,
		Amount:     amount,
		Percentage: pct,
		Improved:   improved,
	}
}

// Compare lists how a simulation moves the headline metrics.
func Compare(current, simulated Calculations) []MetricChange {
	return []MetricChange{
		newChange("Monthly Revenue", current.MonthlyRevenue, simulated.MonthlyRevenue, true),
		newChange("Monthly Operating Expenses", current.MonthlyOperatingExpenses, simulated.MonthlyOperatingExpenses, false),
		newChange("Monthly Profit", current.MonthlyProfit, simulated.MonthlyProfit, true),
		newChange("Annual Profit", current.AnnualProfit, simulated.AnnualProfit, true),
		breakEvenChange(current, simulated),
	}
}

func breakEvenRank(b BreakEven) int {
	switch b.Status {
	case BreakEvenAlready:
		return 2
	case BreakEvenReached:
		return 1
	default:
		return 0
	}
}

// breakEvenChange judges improvement by status first. A drop to the legacy 0
// months is only an improvement when the simulation stays profitable.
func breakEvenChange(current, simulated Calculations) MetricChange {
	change := newChange("Break-even Months", current.BreakEvenMonths, simulated.BreakEvenMonths, false)
	cur, sim := breakEvenRank(current.BreakEven), breakEvenRank(simulated.BreakEven)
	switch {
	case cur != sim:
		change.Improved = sim > cur
	case simulated.BreakEven.Status == BreakEvenReached:
		change.Improved = simulated.BreakEven.Months < current.BreakEven.Months
	default:
		change.Improved = false
	}
	return change
}

// ComparePlanPrices reports the price change of every plan under the overrides.
// Plans without an override keep their price.
func ComparePlanPrices(plans []PricingPlan, adjustedPrices map[string]float64) []MetricChange {
	changes := make([]MetricChange, 0, len(plans))
	for _, plan := range plans {
		price := plan.Price
		if p, ok := adjustedPrices[plan.ID]; ok {
			price = p
		}
		changes = append(changes, newChange(plan.Name, plan.Price, price, true))
	}
	return changes
}
