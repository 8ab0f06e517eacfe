package forecast

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestResolvePlanPrice_FuzzyMatch(t *testing.T) {
	plans := []PricingPlan{{ID: "p1", Name: "Basic Plan", Price: 99}}

	nearlyEqual(t, "Basic", ResolvePlanPrice("Basic", plans), 99)
	nearlyEqual(t, "padded upper", ResolvePlanPrice("  BASIC PLAN ", plans), 99)
	nearlyEqual(t, "label contains name", ResolvePlanPrice("basic plan (annual)", plans), 99)
	nearlyEqual(t, "Unknown", ResolvePlanPrice("Unknown", plans), 0)
	nearlyEqual(t, "no plans", ResolvePlanPrice("Basic", nil), 0)
}

func TestResolvePlanPrice_FirstMatchWins(t *testing.T) {
	plans := []PricingPlan{
		{Name: "Pro", Price: 200},
		{Name: "Professional", Price: 300},
	}
	nearlyEqual(t, "professional", ResolvePlanPrice("Professional", plans), 200)
}

func TestPlanPrice_PrefersID(t *testing.T) {
	plans := []PricingPlan{
		{ID: "basic", Name: "Basic", Price: 99},
		{ID: "ent", Name: "Enterprise", Price: 655},
	}
	nearlyEqual(t, "by id", PlanPrice("ent", "Basic", plans), 655)
	nearlyEqual(t, "unknown id falls back", PlanPrice("missing", "Basic", plans), 99)
	nearlyEqual(t, "empty id falls back", PlanPrice("", "Enterprise", plans), 655)
}

func TestComputeRevenue_AllSources(t *testing.T) {
	plans := []PricingPlan{{Price: 100, Customers: 10}}
	addOns := []AddOnFeature{
		{Name: "Client Portal", Price: 50, Customers: 4, IsRevenue: true},
		{Name: "Internal", Price: 999, Customers: 1, IsRevenue: false},
	}
	support := []TechSupportRow{{Tier: TierPriority, TierPrice: 39, Customers: 10, SeatAddonPrice: 10, ExtraSeats: 3}}
	seats := []PlanAddonRow{{AddonType: AddonAdditionalStaff, Price: 35, Quantity: 2}}
	surgical := []SurgicalTierRow{{BasePrice: 129, TierKey: SurgicalTier11To25, AddonPrice: 150, Customers: 2}}
	extras := SurgicalExtras{AdditionalProviderPrice: 75, AdditionalProviderQuantity: 2, AutomationPricePer1000: 25, AutomationOverageThousands: 4}
	onboarding := []OnboardingRow{
		{UpgradeType: UpgradeSession, Price: 299, Customers: 1},
		{UpgradeType: UpgradeBundle, Price: 799, Customers: 1},
	}

	got := ComputeRevenue(plans, addOns, support, seats, surgical, extras, onboarding)

	// 1000 + 200 + (390+30) + 70 + (558 + 150 + 100) + 1098
	nearlyEqual(t, "revenue", got, 3596)
}

func TestComputeRevenue_EmptyInputsContributeZero(t *testing.T) {
	nearlyEqual(t, "revenue", ComputeRevenue(nil, nil, nil, nil, nil, SurgicalExtras{}, nil), 0)
}

func TestComputeRevenue_Additive(t *testing.T) {
	a := Snapshot{
		Plans:         []PricingPlan{{Price: 99, Customers: 20}},
		AddOns:        []AddOnFeature{{Name: "A", Price: 10, Customers: 3, IsRevenue: true}},
		TechSupport:   []TechSupportRow{{TierPrice: 79, Customers: 2, SeatAddonPrice: 10, ExtraSeats: 1}},
		PlanAddons:    []PlanAddonRow{{Price: 75, Quantity: 3}},
		SurgicalTiers: []SurgicalTierRow{{BasePrice: 219, AddonPrice: 300, Customers: 1}},
		Onboarding:    []OnboardingRow{{Price: 399, Customers: 2}},
	}
	b := Snapshot{
		Plans:         []PricingPlan{{Price: 655, Customers: 10}},
		AddOns:        []AddOnFeature{{Name: "Image Scans (5k pack)", Price: 59, Customers: 10, IsRevenue: true}},
		TechSupport:   []TechSupportRow{{TierPrice: 349, Customers: 1}},
		PlanAddons:    []PlanAddonRow{{Price: 35, Quantity: 4}},
		SurgicalTiers: []SurgicalTierRow{{BasePrice: 349, AddonPrice: 1200, Customers: 1}},
		Onboarding:    []OnboardingRow{{Price: 1299, Customers: 1}},
	}

	revenue := func(s Snapshot) float64 {
		return ComputeRevenue(s.Plans, s.AddOns, s.TechSupport, s.PlanAddons, s.SurgicalTiers, SurgicalExtras{}, s.Onboarding)
	}
	union := Snapshot{
		Plans:         append(append([]PricingPlan{}, a.Plans...), b.Plans...),
		AddOns:        append(append([]AddOnFeature{}, a.AddOns...), b.AddOns...),
		TechSupport:   append(append([]TechSupportRow{}, a.TechSupport...), b.TechSupport...),
		PlanAddons:    append(append([]PlanAddonRow{}, a.PlanAddons...), b.PlanAddons...),
		SurgicalTiers: append(append([]SurgicalTierRow{}, a.SurgicalTiers...), b.SurgicalTiers...),
		Onboarding:    append(append([]OnboardingRow{}, a.Onboarding...), b.Onboarding...),
	}

	nearlyEqual(t, "union", revenue(union), revenue(a)+revenue(b))
}

func TestCostOnlyAddOn_ExcludedFromRevenueButCosted(t *testing.T) {
	addOns := []AddOnFeature{{
		Name:                     "Extra Storage (5GB pack)",
		Price:                    20,
		Customers:                10,
		IsRevenue:                true,
		OperatingCostPerCustomer: 5,
	}}

	nearlyEqual(t, "revenue", ComputeRevenue(nil, addOns, nil, nil, nil, SurgicalExtras{}, nil), 0)
	nearlyEqual(t, "operating", ComputeCosts(nil, addOns, nil, nil).Operating, 50)
}

func TestAddOnCategory(t *testing.T) {
	cases := []struct {
		name string
		f    AddOnFeature
		want bool
	}{
		{"plain revenue", AddOnFeature{Name: "Client Portal", IsRevenue: true}, true},
		{"not revenue", AddOnFeature{Name: "Client Portal", IsRevenue: false}, false},
		{"legacy name", AddOnFeature{Name: "Image Scans (5k pack)", IsRevenue: true}, false},
		{"explicit cost only", AddOnFeature{Name: "Backups", IsRevenue: true, Category: CategoryCostOnly}, false},
		{"explicit revenue overrides legacy name", AddOnFeature{Name: "Image Scans (5k pack)", IsRevenue: true, Category: CategoryRevenue}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.CountsAsRevenue(); got != tc.want {
				t.Fatalf("CountsAsRevenue() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComputeCosts_OperatingAndMarketing(t *testing.T) {
	plans := []PricingPlan{{ID: "b", Name: "Basic Plan", Price: 99}}
	operating := []OperatingCost{
		{Name: "Maintenance", Amount: 4000, IsFixed: true, UnitPrice: 1, Units: 1},
		{Name: "Servers", Amount: 123, IsFixed: false, UnitPrice: 10, Units: 50},
	}
	addOns := []AddOnFeature{
		{Name: "AI Scalp Analysis", Customers: 10, IsRevenue: true, OperatingCostPerCustomer: 6},
		{Name: "Internal", Customers: 2, IsRevenue: false, OperatingCostPerCustomer: 5},
	}
	marketing := []MarketingCost{
		{Name: "Field Agent", Rate: 8, PricePlan: "Basic", Customers: 20},
		{Name: "Orphan", Rate: 50, PricePlan: "Platinum", Customers: 100},
		{Name: "Ads", CostType: MarketingFixed, FixedAmount: 250, Rate: 99, PricePlan: "Basic", Customers: 1},
	}

	costs := ComputeCosts(operating, addOns, marketing, plans)

	nearlyEqual(t, "operating", costs.Operating, 4000+500+60+10)
	nearlyEqual(t, "marketing", costs.Marketing, 99*20*0.08+250)
	nearlyEqual(t, "total", costs.Total(), costs.Operating+costs.Marketing)
}

func TestCalculateMetrics_EndToEnd(t *testing.T) {
	plans := []PricingPlan{{ID: "p1", Name: "Basic", Price: 100, Customers: 10}}
	operating := []OperatingCost{{Name: "Fixed", Amount: 500, IsFixed: true}}
	marketing := []MarketingCost{{Name: "Commission", Rate: 10, PricePlan: "Basic", Customers: 10}}

	c := CalculateMetrics(4000, plans, nil, operating, marketing, nil, nil, nil, SurgicalExtras{}, nil)

	nearlyEqual(t, "monthlyRevenue", c.MonthlyRevenue, 1000)
	nearlyEqual(t, "monthlyMarketingExpenses", c.MonthlyMarketingExpenses, 100)
	nearlyEqual(t, "monthlyOperatingExpenses", c.MonthlyOperatingExpenses, 500)
	nearlyEqual(t, "totalMonthlyExpenses", c.TotalMonthlyExpenses, 600)
	nearlyEqual(t, "monthlyProfit", c.MonthlyProfit, 400)
	nearlyEqual(t, "annualRevenue", c.AnnualRevenue, 12000)
	nearlyEqual(t, "annualOperatingExpenses", c.AnnualOperatingExpenses, 6000)
	nearlyEqual(t, "annualMarketingExpenses", c.AnnualMarketingExpenses, 1200)
	nearlyEqual(t, "annualProfit", c.AnnualProfit, 12000-6000-1200-4000)
	nearlyEqual(t, "breakEvenMonths", c.BreakEvenMonths, 10)
	if c.BreakEven.Status != BreakEvenReached {
		t.Fatalf("breakEven status = %q, want %q", c.BreakEven.Status, BreakEvenReached)
	}
}

func TestCalculateMetrics_ZeroPlans(t *testing.T) {
	c := CalculateMetrics(60000, nil, nil, nil, nil, nil, nil, nil, SurgicalExtras{}, nil)

	for name, v := range map[string]float64{
		"monthlyRevenue":           c.MonthlyRevenue,
		"monthlyOperatingExpenses": c.MonthlyOperatingExpenses,
		"monthlyMarketingExpenses": c.MonthlyMarketingExpenses,
		"totalMonthlyExpenses":     c.TotalMonthlyExpenses,
		"monthlyProfit":            c.MonthlyProfit,
		"annualRevenue":            c.AnnualRevenue,
		"annualOperatingExpenses":  c.AnnualOperatingExpenses,
		"annualMarketingExpenses":  c.AnnualMarketingExpenses,
		"breakEvenMonths":          c.BreakEvenMonths,
	} {
		nearlyEqual(t, name, v, 0)
	}
	nearlyEqual(t, "annualProfit", c.AnnualProfit, -60000)
}

func TestCalculateMetrics_BreakEvenSentinel(t *testing.T) {
	plans := []PricingPlan{{Name: "Basic", Price: 100, Customers: 1}}

	loss := CalculateMetrics(1000, plans, nil, []OperatingCost{{Amount: 150, IsFixed: true}}, nil, nil, nil, nil, SurgicalExtras{}, nil)
	if loss.BreakEvenMonths != 0 || math.IsInf(loss.BreakEvenMonths, 0) {
		t.Fatalf("breakEvenMonths = %v, want exactly 0 for a loss", loss.BreakEvenMonths)
	}
	if loss.BreakEven.Status != BreakEvenUnprofitable {
		t.Fatalf("status = %q, want %q", loss.BreakEven.Status, BreakEvenUnprofitable)
	}

	flat := CalculateMetrics(1000, plans, nil, []OperatingCost{{Amount: 100, IsFixed: true}}, nil, nil, nil, nil, SurgicalExtras{}, nil)
	if flat.BreakEvenMonths != 0 {
		t.Fatalf("breakEvenMonths = %v, want exactly 0 at zero profit", flat.BreakEvenMonths)
	}
}

func TestComputeBreakEven_Tags(t *testing.T) {
	if got := ComputeBreakEven(0, 500); got.Status != BreakEvenAlready || got.CompatMonths() != 0 {
		t.Fatalf("no capex: %+v", got)
	}
	if got := ComputeBreakEven(1000, -1); got.Status != BreakEvenUnprofitable || got.CompatMonths() != 0 {
		t.Fatalf("loss: %+v", got)
	}
	got := ComputeBreakEven(1000, 250)
	if got.Status != BreakEvenReached {
		t.Fatalf("profit: %+v", got)
	}
	nearlyEqual(t, "months", got.CompatMonths(), 4)
}

func TestSnapshotMetrics_MatchesPositionalCall(t *testing.T) {
	s := sampleSnapshot()
	want := CalculateMetrics(s.CapitalExpenditure, s.Plans, s.AddOns, s.OperatingCosts, s.MarketingCosts,
		s.TechSupport, s.PlanAddons, s.SurgicalTiers, s.SurgicalExtras, s.Onboarding)

	if got := s.Metrics(); got != want {
		t.Fatalf("Metrics() = %+v, want %+v", got, want)
	}
	if again := s.Metrics(); again != want {
		t.Fatalf("Metrics() is not deterministic: %+v", again)
	}
}

func sampleSnapshot() Snapshot {
	plans := []PricingPlan{
		{ID: "basic", Name: "Basic Plan", Price: 99, Customers: 20, DisplayOrder: 1},
		{ID: "pro", Name: "Professional Plan", Price: 382, Customers: 20, DisplayOrder: 2},
		{ID: "ent", Name: "Enterprise Plan", Price: 655, Customers: 10, DisplayOrder: 3},
	}
	rows := DefaultPlanRows(plans)
	addOns := DefaultAddOns()
	for i := range addOns {
		addOns[i].ID = "a" + string(rune('0'+i))
	}
	return Snapshot{
		CapitalExpenditure: DefaultCapitalExpenditure,
		Plans:              plans,
		AddOns:             addOns,
		OperatingCosts:     DefaultOperatingCosts(),
		MarketingCosts:     DefaultMarketingCosts(),
		TechSupport:        rows.TechSupport,
		PlanAddons:         rows.PlanAddons,
		SurgicalTiers:      rows.SurgicalTiers,
		SurgicalExtras:     DefaultSurgicalExtras(),
		Onboarding:         rows.Onboarding,
	}
}
