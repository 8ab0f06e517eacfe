package forecast

import "strings"

// ResolvePlanPrice returns the price of the first plan whose lowercased name
// equals, contains, or is contained by the normalized label. It returns 0 when
// nothing matches, so "Basic" resolves a plan named "Basic Plan".
func ResolvePlanPrice(label string, plans []PricingPlan) float64 {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, plan := range plans {
		name := strings.ToLower(plan.Name)
		if name == normalized || strings.Contains(name, normalized) || strings.Contains(normalized, name) {
			return plan.Price
		}
	}
	return 0
}

// PlanPrice resolves a plan price by id and falls back to the fuzzy label match
// when the id is empty or unknown.
func PlanPrice(planID, label string, plans []PricingPlan) float64 {
	if planID != "" {
		if plan, ok := findPlan(planID, plans); ok {
			return plan.Price
		}
	}
	return ResolvePlanPrice(label, plans)
}

func findPlan(id string, plans []PricingPlan) (PricingPlan, bool) {
	for _, plan := range plans {
		if plan.ID == id {
			return plan, true
		}
	}
	return PricingPlan{}, false
}

func findAddOn(id string, addOns []AddOnFeature) (AddOnFeature, bool) {
	for _, f := range addOns {
		if f.ID == id {
			return f, true
		}
	}
	return AddOnFeature{}, false
}
