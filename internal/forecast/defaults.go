package forecast

import (
	"regexp"
	"strings"
)

// DefaultCapitalExpenditure is the one-time spend of a new scenario.
const DefaultCapitalExpenditure = 60000.0

// SurgicalTier is one volume band of the surgical services bundle.
type SurgicalTier struct {
	Key        SurgicalTierKey
	AddonPrice float64
	// Custom tiers take a negotiated add-on price instead of AddonPrice.
	Custom bool
}

// SurgicalTiers lists the volume bands in ascending order.
var SurgicalTiers = []SurgicalTier{
	{Key: SurgicalTier0To10, AddonPrice: 0},
	{Key: SurgicalTier11To25, AddonPrice: 150},
	{Key: SurgicalTier26To50, AddonPrice: 300},
	{Key: SurgicalTier51To100, AddonPrice: 600},
	{Key: SurgicalTierOver100, AddonPrice: 0, Custom: true},
}

// LookupSurgicalTier returns the catalog entry for key.
func LookupSurgicalTier(key SurgicalTierKey) (SurgicalTier, bool) {
	for _, t := range SurgicalTiers {
		if t.Key == key {
			return t, true
		}
	}
	return SurgicalTier{}, false
}

// PlanKey buckets a plan name into basic, professional or enterprise.
type PlanKey string

const (
	PlanBasic        PlanKey = "basic"
	PlanProfessional PlanKey = "professional"
	PlanEnterprise   PlanKey = "enterprise"
)

// ClassifyPlan maps a free-text plan name onto a PlanKey.
func ClassifyPlan(name string) PlanKey {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "enterprise"):
		return PlanEnterprise
	case strings.Contains(n, "professional"), strings.Contains(n, "pro"):
		return PlanProfessional
	default:
		return PlanBasic
	}
}

var planSuffix = regexp.MustCompile(`(?i)\s+Plan$`)

// ShortPlanName drops a trailing " Plan" from a plan name.
func ShortPlanName(name string) string {
	if short := planSuffix.ReplaceAllString(name, ""); short != "" {
		return short
	}
	return name
}

type supportPrices struct {
	tier, seat float64
}

var (
	defaultPriority = map[PlanKey]supportPrices{
		PlanBasic:        {39, 10},
		PlanProfessional: {79, 10},
		PlanEnterprise:   {149, 8},
	}
	defaultUrgent = map[PlanKey]supportPrices{
		PlanBasic:        {99, 25},
		PlanProfessional: {199, 25},
		PlanEnterprise:   {349, 20},
	}
	defaultSurgicalBase = map[PlanKey]float64{
		PlanBasic:        129,
		PlanProfessional: 219,
		PlanEnterprise:   349,
	}
	defaultSessionPrice = map[PlanKey]float64{
		PlanBasic:        299,
		PlanProfessional: 399,
		PlanEnterprise:   499,
	}
	defaultBundlePrice = map[PlanKey]float64{
		PlanBasic:        799,
		PlanProfessional: 1049,
		PlanEnterprise:   1299,
	}
)

const (
	defaultRowCustomers       = 10
	defaultStaffSeatPrice     = 35
	defaultProviderSeatPrice  = 75
	defaultAutomationPer1000  = 25
	defaultMarketingCustomers = 20
)

// DefaultPlans is the plan lineup of a new scenario. Ids are left empty for the
// record store to assign.
func DefaultPlans() []PricingPlan {
	return []PricingPlan{
		{Name: "Basic Plan", Price: 99, Customers: 20, DisplayOrder: 1},
		{Name: "Professional Plan", Price: 382, Customers: 20, DisplayOrder: 2},
		{Name: "Enterprise Plan", Price: 655, Customers: 10, DisplayOrder: 3},
	}
}

// DefaultAddOns is the add-on catalog of a new scenario.
func DefaultAddOns() []AddOnFeature {
	return []AddOnFeature{
		{Name: "AI Scalp Analysis", Price: 149, Customers: 10, IsRevenue: true, OperatingCostPerCustomer: 6, Category: CategoryRevenue},
		{Name: "Appointment Scheduling", Price: 79, Customers: 10, IsRevenue: true, Category: CategoryRevenue},
		{Name: "Quotation Management", Price: 79, Customers: 10, IsRevenue: true, Category: CategoryRevenue},
		{Name: "Client Portal", Price: 99, Customers: 10, IsRevenue: true, OperatingCostPerCustomer: 10, Category: CategoryRevenue},
		{Name: "Extra Storage (5GB pack)", Price: 20, Customers: 10, IsRevenue: true, Category: CategoryCostOnly},
		{Name: "Image Scans (5k pack)", Price: 59, Customers: 10, IsRevenue: true, Category: CategoryCostOnly},
		{Name: "Surgical Services Pack", Price: 129, Customers: 10, IsRevenue: true, Category: CategoryRevenue},
	}
}

// DefaultOperatingCosts is the cost base of a new scenario.
func DefaultOperatingCosts() []OperatingCost {
	return []OperatingCost{
		{Name: "All Modules + Features + Maintenance", Amount: 4000, IsFixed: true},
		{Name: "Server Costs", IsFixed: false, UnitPrice: 10, Units: 50},
	}
}

// DefaultMarketingCosts are the commission lines of a new scenario, one per
// affiliate role plus a zero-rate advertising line.
func DefaultMarketingCosts() []MarketingCost {
	rows := []MarketingCost{
		{Name: "Advertisements, discounts, etc", Rate: 0, PricePlan: "Basic", Customers: defaultMarketingCustomers, CostType: MarketingCommission},
	}
	for _, a := range AffiliateTypes {
		rows = append(rows, MarketingCost{
			Name:      a.Type + " Subscription Commissions",
			Rate:      a.Rate,
			PricePlan: "Basic",
			Customers: defaultMarketingCustomers,
			CostType:  MarketingCommission,
		})
	}
	return rows
}

// DefaultSurgicalExtras are the overage prices of a new scenario.
func DefaultSurgicalExtras() SurgicalExtras {
	return SurgicalExtras{
		AdditionalProviderPrice: defaultProviderSeatPrice,
		AutomationPricePer1000:  defaultAutomationPer1000,
	}
}

// PlanRows are the per-plan revenue rows derived from a plan lineup.
type PlanRows struct {
	TechSupport   []TechSupportRow
	PlanAddons    []PlanAddonRow
	SurgicalTiers []SurgicalTierRow
	Onboarding    []OnboardingRow
}

// DefaultPlanRows builds support, seat, surgical and onboarding rows for plans.
// Plans must already carry their ids.
func DefaultPlanRows(plans []PricingPlan) PlanRows {
	var rows PlanRows
	for _, p := range plans {
		key := ClassifyPlan(p.Name)
		name := ShortPlanName(p.Name)

		pri, urg := defaultPriority[key], defaultUrgent[key]
		rows.TechSupport = append(rows.TechSupport,
			TechSupportRow{PlanID: p.ID, PlanName: name, Tier: TierPriority, TierPrice: pri.tier, SeatAddonPrice: pri.seat, Customers: defaultRowCustomers},
			TechSupportRow{PlanID: p.ID, PlanName: name, Tier: TierUrgent, TierPrice: urg.tier, SeatAddonPrice: urg.seat, Customers: defaultRowCustomers},
		)

		rows.PlanAddons = append(rows.PlanAddons, PlanAddonRow{
			PlanID: p.ID, PlanName: name, AddonType: AddonAdditionalStaff, Price: defaultStaffSeatPrice, Quantity: defaultRowCustomers,
		})
		// Basic plans are single-provider.
		if key != PlanBasic {
			rows.PlanAddons = append(rows.PlanAddons, PlanAddonRow{
				PlanID: p.ID, PlanName: name, AddonType: AddonAdditionalProvider, Price: defaultProviderSeatPrice, Quantity: defaultRowCustomers,
			})
		}

		for _, t := range SurgicalTiers {
			rows.SurgicalTiers = append(rows.SurgicalTiers, SurgicalTierRow{
				PlanID: p.ID, PlanName: name, BasePrice: defaultSurgicalBase[key], TierKey: t.Key, AddonPrice: t.AddonPrice, Customers: defaultRowCustomers,
			})
		}

		rows.Onboarding = append(rows.Onboarding,
			OnboardingRow{PlanID: p.ID, PlanName: name, UpgradeType: UpgradeSession, Price: defaultSessionPrice[key], Customers: defaultRowCustomers},
			OnboardingRow{PlanID: p.ID, PlanName: name, UpgradeType: UpgradeBundle, Price: defaultBundlePrice[key], Customers: defaultRowCustomers},
		)
	}
	return rows
}
