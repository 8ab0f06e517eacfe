package forecast

const monthsPerYear = 12

// BreakEvenStatus distinguishes the cases the legacy months value folds into 0.
type BreakEvenStatus string

const (
	BreakEvenReached      BreakEvenStatus = "reached"
	BreakEvenUnprofitable BreakEvenStatus = "unprofitable"
	BreakEvenAlready      BreakEvenStatus = "already_broken_even"
)

// BreakEven is the tagged break-even outcome. Months is only meaningful when
// Status is BreakEvenReached.
type BreakEven struct {
	Status BreakEvenStatus `json:"status"`
	Months float64         `json:"months"`
}

// ComputeBreakEven classifies the months needed to recover capex from monthly profit.
func ComputeBreakEven(capitalExpenditure, monthlyProfit float64) BreakEven {
	switch {
	case monthlyProfit <= 0:
		return BreakEven{Status: BreakEvenUnprofitable}
	case capitalExpenditure <= 0:
		return BreakEven{Status: BreakEvenAlready}
	default:
		return BreakEven{Status: BreakEvenReached, Months: capitalExpenditure / monthlyProfit}
	}
}

// CompatMonths maps the tagged result onto the legacy breakEvenMonths value:
// capex / profit while profitable, 0 otherwise.
func (b BreakEven) CompatMonths() float64 {
	return b.Months
}

// legacyBreakEvenMonths is the breakEvenMonths value callers depend on. A zero
// result does not mean the scenario has broken even.
func legacyBreakEvenMonths(capitalExpenditure, monthlyProfit float64) float64 {
	if monthlyProfit > 0 {
		return capitalExpenditure / monthlyProfit
	}
	return 0
}

// Assemble derives the full summary from monthly revenue and costs.
func Assemble(capitalExpenditure, monthlyRevenue float64, costs Costs) Calculations {
	totalMonthlyExpenses := costs.Operating + costs.Marketing
	monthlyProfit := monthlyRevenue - totalMonthlyExpenses

	annualRevenue := monthlyRevenue * monthsPerYear
	annualOperating := costs.Operating * monthsPerYear
	annualMarketing := costs.Marketing * monthsPerYear

	return Calculations{
		MonthlyRevenue:           monthlyRevenue,
		MonthlyOperatingExpenses: costs.Operating,
		MonthlyMarketingExpenses: costs.Marketing,
		TotalMonthlyExpenses:     totalMonthlyExpenses,
		MonthlyProfit:            monthlyProfit,
		AnnualRevenue:            annualRevenue,
		AnnualOperatingExpenses:  annualOperating,
		AnnualMarketingExpenses:  annualMarketing,
		AnnualProfit:             annualRevenue - annualOperating - annualMarketing - capitalExpenditure,
		BreakEvenMonths:          legacyBreakEvenMonths(capitalExpenditure, monthlyProfit),
		BreakEven:                ComputeBreakEven(capitalExpenditure, monthlyProfit),
	}
}

// CalculateMetrics computes the financial summary of one scenario snapshot.
func CalculateMetrics(
	capitalExpenditure float64,
	plans []PricingPlan,
	addOns []AddOnFeature,
	operating []OperatingCost,
	marketing []MarketingCost,
	techSupport []TechSupportRow,
	planAddons []PlanAddonRow,
	surgical []SurgicalTierRow,
	extras SurgicalExtras,
	onboarding []OnboardingRow,
) Calculations {
	revenue := ComputeRevenue(plans, addOns, techSupport, planAddons, surgical, extras, onboarding)
	costs := ComputeCosts(operating, addOns, marketing, plans)
	return Assemble(capitalExpenditure, revenue, costs)
}

// Metrics computes the financial summary of the snapshot.
func (s Snapshot) Metrics() Calculations {
	return CalculateMetrics(
		s.CapitalExpenditure,
		s.Plans,
		s.AddOns,
		s.OperatingCosts,
		s.MarketingCosts,
		s.TechSupport,
		s.PlanAddons,
		s.SurgicalTiers,
		s.SurgicalExtras,
		s.Onboarding,
	)
}
