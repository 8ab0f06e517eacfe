package forecast

// PlanRevenue sums price × customers over all plans.
func PlanRevenue(plans []PricingPlan) float64 {
	total := 0.0
	for _, p := range plans {
		total += p.Price * p.Customers
	}
	return total
}

// AddOnRevenue sums price × customers over revenue-bearing add-ons. Cost-only
// add-ons are skipped here but still counted by OperatingExpenses.
func AddOnRevenue(addOns []AddOnFeature) float64 {
	total := 0.0
	for _, f := range addOns {
		if !f.CountsAsRevenue() {
			continue
		}
		total += f.Price * f.Customers
	}
	return total
}

// Revenue is the tier price for every customer plus seats beyond those included.
func (r TechSupportRow) Revenue() float64 {
	return r.TierPrice*r.Customers + r.SeatAddonPrice*r.ExtraSeats
}

// TechSupportRevenue sums support tier revenue over all rows.
func TechSupportRevenue(rows []TechSupportRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Revenue()
	}
	return total
}

// PlanAddonRevenue sums price × quantity over staff and provider seat rows.
func PlanAddonRevenue(rows []PlanAddonRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Price * r.Quantity
	}
	return total
}

// Revenue is (base + tier add-on) × customers.
func (r SurgicalTierRow) Revenue() float64 {
	return (r.BasePrice + r.AddonPrice) * r.Customers
}

// Revenue is the additional-provider and automation-overage income.
func (e SurgicalExtras) Revenue() float64 {
	return e.AdditionalProviderPrice*e.AdditionalProviderQuantity +
		e.AutomationPricePer1000*e.AutomationOverageThousands
}

// SurgicalRevenue sums the tier rows and the scenario-wide extras.
func SurgicalRevenue(rows []SurgicalTierRow, extras SurgicalExtras) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Revenue()
	}
	return total + extras.Revenue()
}

// OnboardingRevenue sums price × customers over all upgrades regardless of type.
func OnboardingRevenue(rows []OnboardingRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Price * r.Customers
	}
	return total
}

// ComputeRevenue returns monthly revenue across every source. The terms are
// independent and additive.
func ComputeRevenue(
	plans []PricingPlan,
	addOns []AddOnFeature,
	techSupport []TechSupportRow,
	planAddons []PlanAddonRow,
	surgical []SurgicalTierRow,
	extras SurgicalExtras,
	onboarding []OnboardingRow,
) float64 {
	return PlanRevenue(plans) +
		AddOnRevenue(addOns) +
		TechSupportRevenue(techSupport) +
		PlanAddonRevenue(planAddons) +
		SurgicalRevenue(surgical, extras) +
		OnboardingRevenue(onboarding)
}
