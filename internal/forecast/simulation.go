package forecast

const defaultSimulationName = "Simulation"

// BundleSimulation is a what-if configuration: features folded into plans plus
// per-plan price and customer overrides. All maps are keyed by plan id.
type BundleSimulation struct {
	Name              string              `json:"name" yaml:"name"`
	BundleConfig      map[string][]string `json:"bundle_config" yaml:"bundle_config"`
	AdjustedPrices    map[string]float64  `json:"adjusted_plan_prices" yaml:"adjusted_plan_prices" validate:"omitempty,dive,finite,gte=0"`
	AdjustedCustomers map[string]float64  `json:"adjusted_plan_customers" yaml:"adjusted_plan_customers" validate:"omitempty,dive,finite,gte=0"`
}

// AdjustPlans returns copies of plans with price and customer overrides applied.
func AdjustPlans(plans []PricingPlan, adjustedPrices, adjustedCustomers map[string]float64) []PricingPlan {
	adjusted := make([]PricingPlan, len(plans))
	for i, plan := range plans {
		if price, ok := adjustedPrices[plan.ID]; ok {
			plan.Price = price
		}
		if customers, ok := adjustedCustomers[plan.ID]; ok {
			plan.Customers = customers
		}
		adjusted[i] = plan
	}
	return adjusted
}

// PartitionAddOns splits add-ons into those bundled into each configured plan
// and those no plan bundles. Plan ids need not exist; their features are still
// withheld from the remaining list.
func PartitionAddOns(addOns []AddOnFeature, bundleConfig map[string][]string) (map[string][]AddOnFeature, []AddOnFeature) {
	bundled := make(map[string][]AddOnFeature, len(bundleConfig))
	bundledIDs := make(map[string]struct{})

	for planID, featureIDs := range bundleConfig {
		listed := make(map[string]struct{}, len(featureIDs))
		for _, id := range featureIDs {
			listed[id] = struct{}{}
			bundledIDs[id] = struct{}{}
		}

		features := make([]AddOnFeature, 0, len(featureIDs))
		for _, f := range addOns {
			if _, ok := listed[f.ID]; ok {
				features = append(features, f)
			}
		}
		bundled[planID] = features
	}

	remaining := make([]AddOnFeature, 0, len(addOns))
	for _, f := range addOns {
		if _, ok := bundledIDs[f.ID]; !ok {
			remaining = append(remaining, f)
		}
	}
	return bundled, remaining
}

// bundledFeatureCosts charges each bundled feature's per-customer cost against
// the customers of the first adjusted plan that bundles it. A feature listed
// only under an unknown plan id costs nothing.
func bundledFeatureCosts(bundled map[string][]AddOnFeature, adjustedPlans []PricingPlan, bundleConfig map[string][]string) float64 {
	total := 0.0
	for _, features := range bundled {
		for _, f := range features {
			total += f.OperatingCostPerCustomer * consumingPlanCustomers(f.ID, adjustedPlans, bundleConfig)
		}
	}
	return total
}

func consumingPlanCustomers(featureID string, plans []PricingPlan, bundleConfig map[string][]string) float64 {
	for _, plan := range plans {
		for _, id := range bundleConfig[plan.ID] {
			if id == featureID {
				return plan.Customers
			}
		}
	}
	return 0
}

// CalculateSimulation re-prices plans and moves the configured features into
// them. Bundled features earn no revenue of their own; their operating cost
// scales with the consuming plan's customers instead of the feature's own.
// Support, seat and surgical lines are unaffected by bundling. Onboarding rows
// are accepted but earn nothing in a simulation.
func CalculateSimulation(
	capitalExpenditure float64,
	plans []PricingPlan,
	addOns []AddOnFeature,
	operating []OperatingCost,
	marketing []MarketingCost,
	bundleConfig map[string][]string,
	adjustedPrices map[string]float64,
	adjustedCustomers map[string]float64,
	onboarding []OnboardingRow,
	techSupport []TechSupportRow,
	planAddons []PlanAddonRow,
	surgical []SurgicalTierRow,
	extras SurgicalExtras,
) SimulationResult {
	bundled, remaining := PartitionAddOns(addOns, bundleConfig)
	adjustedPlans := AdjustPlans(plans, adjustedPrices, adjustedCustomers)

	revenue := PlanRevenue(adjustedPlans) +
		AddOnRevenue(remaining) +
		TechSupportRevenue(techSupport) +
		PlanAddonRevenue(planAddons) +
		SurgicalRevenue(surgical, extras)

	costs := Costs{
		Operating: BaseOperatingCosts(operating) +
			bundledFeatureCosts(bundled, adjustedPlans, bundleConfig) +
			AddOnOperatingCosts(remaining),
		Marketing: MarketingCosts(marketing, adjustedPlans),
	}

	return SimulationResult{
		Name:            defaultSimulationName,
		Calculations:    Assemble(capitalExpenditure, revenue, costs),
		BundledFeatures: bundled,
		RemainingAddOns: remaining,
	}
}

// Simulate runs the bundle simulation against the snapshot.
func (s Snapshot) Simulate(sim BundleSimulation) SimulationResult {
	result := CalculateSimulation(
		s.CapitalExpenditure,
		s.Plans,
		s.AddOns,
		s.OperatingCosts,
		s.MarketingCosts,
		sim.BundleConfig,
		sim.AdjustedPrices,
		sim.AdjustedCustomers,
		s.Onboarding,
		s.TechSupport,
		s.PlanAddons,
		s.SurgicalTiers,
		s.SurgicalExtras,
	)
	if sim.Name != "" {
		result.Name = sim.Name
	}
	return result
}
