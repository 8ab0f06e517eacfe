package forecast

// Affiliate is a commission-earning role with a percentage rate.
type Affiliate struct {
	Type string  `json:"affiliate_type" yaml:"affiliate_type" validate:"required"`
	Rate float64 `json:"affiliate_rate" yaml:"affiliate_rate" validate:"finite,gte=0,lte=100"`
}

// AffiliateTypes is the catalog of known affiliate roles and their default rates.
var AffiliateTypes = []Affiliate{
	{Type: "Field Agent", Rate: 8},
	{Type: "Regional Manager", Rate: 4},
	{Type: "Country Manager", Rate: 4},
	{Type: "Affiliate", Rate: 10},
}

// AffiliateRate returns the catalog rate for an affiliate type.
func AffiliateRate(affiliateType string) (float64, bool) {
	for _, a := range AffiliateTypes {
		if a.Type == affiliateType {
			return a.Rate, true
		}
	}
	return 0, false
}

// DefaultAffiliates is the affiliate list of a freshly created scenario.
func DefaultAffiliates() []Affiliate {
	return []Affiliate{AffiliateTypes[0]}
}

// CommissionScenario selects plan and add-on quantities sold through a set of
// affiliates. A nil Affiliates list means DefaultAffiliates; an empty one means
// no affiliates.
type CommissionScenario struct {
	Name           string             `json:"name" yaml:"name"`
	Affiliates     []Affiliate        `json:"affiliates" yaml:"affiliates" validate:"omitempty,dive"`
	SelectedPlans  map[string]float64 `json:"selected_plans" yaml:"selected_plans" validate:"omitempty,dive,finite"`
	SelectedAddOns map[string]float64 `json:"selected_add_ons" yaml:"selected_add_ons" validate:"omitempty,dive,finite"`
}

// CommissionResult is the monthly outcome of one commission scenario.
type CommissionResult struct {
	Name       string  `json:"name"`
	Commission float64 `json:"commission"`
	Revenue    float64 `json:"revenue"`
	Net        float64 `json:"net"`
	MarginPct  float64 `json:"marginPct"`
}

// CommissionTotals aggregates all scenarios.
type CommissionTotals struct {
	Commission       float64 `json:"commission"`
	Revenue          float64 `json:"revenue"`
	Net              float64 `json:"net"`
	MarginPct        float64 `json:"marginPct"`
	AnnualCommission float64 `json:"annualCommission"`
	AnnualRevenue    float64 `json:"annualRevenue"`
	AnnualNet        float64 `json:"annualNet"`
}

// CommissionReport holds per-scenario results in input order and the totals.
type CommissionReport struct {
	Scenarios []CommissionResult `json:"scenarios"`
	Totals    CommissionTotals   `json:"totals"`
}

// marginPct returns net as a percentage of revenue, 0 without revenue.
func marginPct(revenue, net float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return net / revenue * 100
}

// grossSales sums price × quantity over the selections that resolve to a known
// plan or add-on with a positive quantity.
func (s CommissionScenario) grossSales(plans []PricingPlan, addOns []AddOnFeature) float64 {
	total := 0.0
	for planID, qty := range s.SelectedPlans {
		if plan, ok := findPlan(planID, plans); ok && qty > 0 {
			total += plan.Price * qty
		}
	}
	for addOnID, qty := range s.SelectedAddOns {
		if addOn, ok := findAddOn(addOnID, addOns); ok && qty > 0 {
			total += addOn.Price * qty
		}
	}
	return total
}

// Evaluate computes one scenario. Revenue is counted once; commission is paid
// to every affiliate on the full gross.
func (s CommissionScenario) Evaluate(plans []PricingPlan, addOns []AddOnFeature) CommissionResult {
	affiliates := s.Affiliates
	if affiliates == nil {
		affiliates = DefaultAffiliates()
	}

	revenue := s.grossSales(plans, addOns)
	commission := 0.0
	for _, a := range affiliates {
		commission += revenue * (a.Rate / 100)
	}

	net := revenue - commission
	return CommissionResult{
		Name:       s.Name,
		Commission: commission,
		Revenue:    revenue,
		Net:        net,
		MarginPct:  marginPct(revenue, net),
	}
}

// EvaluateCommissions evaluates each scenario independently and sums them.
func EvaluateCommissions(plans []PricingPlan, addOns []AddOnFeature, scenarios []CommissionScenario) CommissionReport {
	report := CommissionReport{Scenarios: make([]CommissionResult, 0, len(scenarios))}
	for _, s := range scenarios {
		r := s.Evaluate(plans, addOns)
		report.Scenarios = append(report.Scenarios, r)
		report.Totals.Commission += r.Commission
		report.Totals.Revenue += r.Revenue
	}

	t := &report.Totals
	t.Net = t.Revenue - t.Commission
	t.MarginPct = marginPct(t.Revenue, t.Net)
	t.AnnualCommission = t.Commission * monthsPerYear
	t.AnnualRevenue = t.Revenue * monthsPerYear
	t.AnnualNet = t.Net * monthsPerYear
	return report
}
