package forecast

// AddOnCategory tags an add-on as revenue-bearing or cost-only.
type AddOnCategory string

const (
	CategoryRevenue  AddOnCategory = "revenue"
	CategoryCostOnly AddOnCategory = "cost_only"
)

// legacyCostOnlyNames are add-ons stored before the category column existed.
// They never count as revenue regardless of IsRevenue.
var legacyCostOnlyNames = map[string]struct{}{
	"Extra Storage (5GB pack)": {},
	"Image Scans (5k pack)":    {},
}

// PricingPlan represents one subscription tier.
type PricingPlan struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name" validate:"required"`
	Price        float64 `json:"price" yaml:"price" validate:"finite,gte=0"`
	Customers    float64 `json:"customers" yaml:"customers" validate:"finite,gte=0"`
	DisplayOrder int     `json:"display_order" yaml:"display_order"`
}

// AddOnFeature represents an optional feature sold on top of a plan.
type AddOnFeature struct {
	ID                       string        `json:"id" yaml:"id"`
	Name                     string        `json:"name" yaml:"name" validate:"required"`
	Price                    float64       `json:"price" yaml:"price" validate:"finite,gte=0"`
	Customers                float64       `json:"customers" yaml:"customers" validate:"finite,gte=0"`
	IsRevenue                bool          `json:"is_revenue" yaml:"is_revenue"`
	OperatingCostPerCustomer float64       `json:"operating_cost_per_customer" yaml:"operating_cost_per_customer" validate:"finite,gte=0"`
	Category                 AddOnCategory `json:"category,omitempty" yaml:"category,omitempty" validate:"omitempty,oneof=revenue cost_only"`
}

// EffectiveCategory returns the explicit category, falling back to the legacy
// name list for rows that predate it.
func (f AddOnFeature) EffectiveCategory() AddOnCategory {
	if f.Category != "" {
		return f.Category
	}
	if _, ok := legacyCostOnlyNames[f.Name]; ok {
		return CategoryCostOnly
	}
	return CategoryRevenue
}

// CountsAsRevenue reports whether the add-on contributes to revenue sums.
func (f AddOnFeature) CountsAsRevenue() bool {
	return f.IsRevenue && f.EffectiveCategory() != CategoryCostOnly
}

// OperatingCost represents a monthly operating expense line.
type OperatingCost struct {
	ID        string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Amount    float64 `json:"amount" yaml:"amount" validate:"finite,gte=0"`
	IsFixed   bool    `json:"is_fixed" yaml:"is_fixed"`
	UnitPrice float64 `json:"unit_price" yaml:"unit_price" validate:"finite,gte=0"`
	Units     float64 `json:"units" yaml:"units" validate:"finite,gte=0"`
}

// MarketingCostType selects how a marketing row is priced.
type MarketingCostType string

const (
	MarketingCommission MarketingCostType = "commission"
	MarketingFixed      MarketingCostType = "fixed"
)

// MarketingCost represents a marketing expense. Commission rows are priced off
// a plan: PlanID when set, otherwise the free-text PricePlan label.
type MarketingCost struct {
	ID          string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string            `json:"name" yaml:"name" validate:"required"`
	Rate        float64           `json:"rate" yaml:"rate" validate:"finite,gte=0,lte=100"`
	PricePlan   string            `json:"price_plan" yaml:"price_plan"`
	PlanID      string            `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	Customers   float64           `json:"customers" yaml:"customers" validate:"finite,gte=0"`
	CostType    MarketingCostType `json:"cost_type,omitempty" yaml:"cost_type,omitempty" validate:"omitempty,oneof=commission fixed"`
	FixedAmount float64           `json:"fixed_amount,omitempty" yaml:"fixed_amount,omitempty" validate:"finite,gte=0"`
}

// SupportTier is a paid tech support level.
type SupportTier string

const (
	TierPriority SupportTier = "Priority"
	TierUrgent   SupportTier = "Urgent"
)

// TechSupportRow represents paid support sold on a plan.
type TechSupportRow struct {
	PlanID         string      `json:"plan_id" yaml:"plan_id" validate:"required"`
	PlanName       string      `json:"plan_name,omitempty" yaml:"plan_name,omitempty"`
	Tier           SupportTier `json:"tier" yaml:"tier" validate:"oneof=Priority Urgent"`
	TierPrice      float64     `json:"tier_price" yaml:"tier_price" validate:"finite,gte=0"`
	Customers      float64     `json:"customers" yaml:"customers" validate:"finite,gte=0"`
	SeatAddonPrice float64     `json:"seat_addon_price" yaml:"seat_addon_price" validate:"finite,gte=0"`
	ExtraSeats     float64     `json:"extra_seats" yaml:"extra_seats" validate:"finite,gte=0"`
}

// PlanAddonType identifies a per-plan seat add-on.
type PlanAddonType string

const (
	AddonAdditionalStaff    PlanAddonType = "additional_staff"
	AddonAdditionalProvider PlanAddonType = "additional_provider"
)

// PlanAddonRow represents extra staff or provider seats sold on a plan.
type PlanAddonRow struct {
	PlanID    string        `json:"plan_id" yaml:"plan_id" validate:"required"`
	PlanName  string        `json:"plan_name,omitempty" yaml:"plan_name,omitempty"`
	AddonType PlanAddonType `json:"addon_type" yaml:"addon_type" validate:"oneof=additional_staff additional_provider"`
	Price     float64       `json:"price" yaml:"price" validate:"finite,gte=0"`
	Quantity  float64       `json:"quantity" yaml:"quantity" validate:"finite,gte=0"`
}

// SurgicalTierKey is a monthly surgical volume band.
type SurgicalTierKey string

const (
	SurgicalTier0To10   SurgicalTierKey = "0-10"
	SurgicalTier11To25  SurgicalTierKey = "11-25"
	SurgicalTier26To50  SurgicalTierKey = "26-50"
	SurgicalTier51To100 SurgicalTierKey = "51-100"
	SurgicalTierOver100 SurgicalTierKey = "100+"
)

// SurgicalTierRow represents customers of the surgical services bundle at one
// volume tier. All rows of a plan share BasePrice.
type SurgicalTierRow struct {
	PlanID     string          `json:"plan_id" yaml:"plan_id" validate:"required"`
	PlanName   string          `json:"plan_name,omitempty" yaml:"plan_name,omitempty"`
	BasePrice  float64         `json:"base_price" yaml:"base_price" validate:"finite,gte=0"`
	TierKey    SurgicalTierKey `json:"tier_key" yaml:"tier_key" validate:"oneof=0-10 11-25 26-50 51-100 100+"`
	AddonPrice float64         `json:"addon_price" yaml:"addon_price" validate:"finite,gte=0"`
	Customers  float64         `json:"customers" yaml:"customers" validate:"finite,gte=0"`
}

// SurgicalExtras holds the scenario-wide surgical overage lines.
type SurgicalExtras struct {
	AdditionalProviderPrice    float64 `json:"additional_provider_price" yaml:"additional_provider_price" validate:"finite,gte=0"`
	AdditionalProviderQuantity float64 `json:"additional_provider_quantity" yaml:"additional_provider_quantity" validate:"finite,gte=0"`
	AutomationPricePer1000     float64 `json:"automation_price_per_1000" yaml:"automation_price_per_1000" validate:"finite,gte=0"`
	AutomationOverageThousands float64 `json:"automation_overage_thousands" yaml:"automation_overage_thousands" validate:"finite,gte=0"`
}

// UpgradeType identifies a paid onboarding upgrade.
type UpgradeType string

const (
	UpgradeSession UpgradeType = "session"
	UpgradeBundle  UpgradeType = "bundle"
)

// OnboardingRow represents a paid onboarding upgrade. A nil DeliveryCost falls
// back to the default for its upgrade type.
type OnboardingRow struct {
	ID           string      `json:"id,omitempty" yaml:"id,omitempty"`
	PlanID       string      `json:"plan_id" yaml:"plan_id" validate:"required"`
	PlanName     string      `json:"plan_name,omitempty" yaml:"plan_name,omitempty"`
	UpgradeType  UpgradeType `json:"upgrade_type" yaml:"upgrade_type" validate:"oneof=session bundle"`
	Price        float64     `json:"price" yaml:"price" validate:"finite,gte=0"`
	Customers    float64     `json:"customers" yaml:"customers" validate:"finite,gte=0"`
	DeliveryCost *float64    `json:"delivery_cost,omitempty" yaml:"delivery_cost,omitempty" validate:"omitempty,finite,gte=0"`
}

// Calculations is the derived financial summary of a scenario.
type Calculations struct {
	MonthlyRevenue           float64   `json:"monthlyRevenue"`
	MonthlyOperatingExpenses float64   `json:"monthlyOperatingExpenses"`
	MonthlyMarketingExpenses float64   `json:"monthlyMarketingExpenses"`
	TotalMonthlyExpenses     float64   `json:"totalMonthlyExpenses"`
	MonthlyProfit            float64   `json:"monthlyProfit"`
	AnnualRevenue            float64   `json:"annualRevenue"`
	AnnualOperatingExpenses  float64   `json:"annualOperatingExpenses"`
	AnnualMarketingExpenses  float64   `json:"annualMarketingExpenses"`
	AnnualProfit             float64   `json:"annualProfit"`
	BreakEvenMonths          float64   `json:"breakEvenMonths"`
	BreakEven                BreakEven `json:"breakEven"`
}

// SimulationResult is the outcome of a bundle simulation.
type SimulationResult struct {
	Name            string                    `json:"name"`
	Calculations    Calculations              `json:"calculations"`
	BundledFeatures map[string][]AddOnFeature `json:"bundledFeatures"`
	RemainingAddOns []AddOnFeature            `json:"remainingAddOns"`
}

// Snapshot is every input of one scenario, read together from the record store.
type Snapshot struct {
	CapitalExpenditure float64           `json:"capital_expenditure" yaml:"capital_expenditure"`
	Plans              []PricingPlan     `json:"plans" yaml:"plans"`
	AddOns             []AddOnFeature    `json:"add_ons" yaml:"add_ons"`
	OperatingCosts     []OperatingCost   `json:"operating_costs" yaml:"operating_costs"`
	MarketingCosts     []MarketingCost   `json:"marketing_costs" yaml:"marketing_costs"`
	TechSupport        []TechSupportRow  `json:"tech_support" yaml:"tech_support"`
	PlanAddons         []PlanAddonRow    `json:"plan_addons" yaml:"plan_addons"`
	SurgicalTiers      []SurgicalTierRow `json:"surgical_tiers" yaml:"surgical_tiers"`
	SurgicalExtras     SurgicalExtras    `json:"surgical_extras" yaml:"surgical_extras"`
	Onboarding         []OnboardingRow   `json:"onboarding" yaml:"onboarding"`
}
