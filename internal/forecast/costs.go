package forecast

// Costs splits monthly expenses into operating and marketing.
type Costs struct {
	Operating float64 `json:"operating"`
	Marketing float64 `json:"marketing"`
}

// Total returns operating plus marketing.
func (c Costs) Total() float64 {
	return c.Operating + c.Marketing
}

// Monthly returns Amount for fixed rows and UnitPrice × Units otherwise.
func (c OperatingCost) Monthly() float64 {
	if c.IsFixed {
		return c.Amount
	}
	return c.UnitPrice * c.Units
}

// BaseOperatingCosts sums the operating cost rows alone.
func BaseOperatingCosts(rows []OperatingCost) float64 {
	total := 0.0
	for _, c := range rows {
		total += c.Monthly()
	}
	return total
}

// AddOnOperatingCosts sums cost per customer × customers over every add-on,
// revenue-bearing or not.
func AddOnOperatingCosts(addOns []AddOnFeature) float64 {
	total := 0.0
	for _, f := range addOns {
		total += f.OperatingCostPerCustomer * f.Customers
	}
	return total
}

// Monthly prices the row against plans. Commission rows that reference no
// known plan cost nothing.
func (m MarketingCost) Monthly(plans []PricingPlan) float64 {
	if m.CostType == MarketingFixed {
		return m.FixedAmount
	}
	return PlanPrice(m.PlanID, m.PricePlan, plans) * m.Customers * (m.Rate / 100)
}

// MarketingCosts sums all marketing rows priced against plans.
func MarketingCosts(rows []MarketingCost, plans []PricingPlan) float64 {
	total := 0.0
	for _, m := range rows {
		total += m.Monthly(plans)
	}
	return total
}

// ComputeCosts returns monthly operating and marketing expenses.
func ComputeCosts(operating []OperatingCost, addOns []AddOnFeature, marketing []MarketingCost, plans []PricingPlan) Costs {
	return Costs{
		Operating: BaseOperatingCosts(operating) + AddOnOperatingCosts(addOns),
		Marketing: MarketingCosts(marketing, plans),
	}
}
