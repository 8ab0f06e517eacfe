package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/forecast/internal/db"
	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.Up(database, db.DriverSQLite, "../../migrations"))
	return New(database, db.DriverSQLite)
}

func TestRebind(t *testing.T) {
	sqlite := &Store{}
	pg := &Store{postgres: true}

	q := `SELECT 1 FROM t WHERE a = ? AND b = ?`
	assert.Equal(t, q, sqlite.Rebind(q))
	assert.Equal(t, `SELECT 1 FROM t WHERE a = $1 AND b = $2`, pg.Rebind(q))
}

func TestScenarioCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateScenario(ctx, "Base case", 60000)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Base case", created.Name)
	assert.Equal(t, 60000.0, created.CapitalExpenditure)

	updated, err := s.UpdateScenario(ctx, created.ID, "Aggressive", 90000)
	require.NoError(t, err)
	assert.Equal(t, "Aggressive", updated.Name)
	assert.Equal(t, 90000.0, updated.CapitalExpenditure)

	list, err := s.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	_, err = s.GetScenario(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateScenario(ctx, "missing", "x", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteScenario(ctx, created.ID))
	_, err = s.GetScenario(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteScenario(ctx, created.ID), ErrNotFound)
}

func TestReplaceCollectionsAndLoadSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc, err := s.CreateScenario(ctx, "Snapshot", 1000)
	require.NoError(t, err)

	plans, err := s.ReplacePlans(ctx, sc.ID, []forecast.PricingPlan{
		{Name: "Basic Plan", Price: 100, Customers: 10, DisplayOrder: 1},
		{Name: "Pro Plan", Price: 200, Customers: 5, DisplayOrder: 2},
	})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.NotEmpty(t, plans[0].ID)

	_, err = s.ReplaceAddOns(ctx, sc.ID, []forecast.AddOnFeature{
		{Name: "Portal", Price: 50, Customers: 2, IsRevenue: true, OperatingCostPerCustomer: 5, Category: forecast.CategoryRevenue},
		{Name: "Extra Storage (5GB pack)", Price: 20, Customers: 3, IsRevenue: true},
	})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceOperatingCosts(ctx, sc.ID, []forecast.OperatingCost{
		{Name: "Team", Amount: 500, IsFixed: true},
		{Name: "Servers", UnitPrice: 10, Units: 5},
	}))
	require.NoError(t, s.ReplaceMarketingCosts(ctx, sc.ID, []forecast.MarketingCost{
		{Name: "Agents", Rate: 10, PlanID: plans[1].ID, Customers: 2},
		{Name: "Ads", CostType: forecast.MarketingFixed, FixedAmount: 75},
	}))
	require.NoError(t, s.ReplaceTechSupport(ctx, sc.ID, []forecast.TechSupportRow{
		{PlanID: plans[0].ID, Tier: forecast.TierPriority, TierPrice: 39, Customers: 2, SeatAddonPrice: 10, ExtraSeats: 1},
	}))
	require.NoError(t, s.ReplacePlanAddons(ctx, sc.ID, []forecast.PlanAddonRow{
		{PlanID: plans[0].ID, AddonType: forecast.AddonAdditionalStaff, Price: 35, Quantity: 2},
	}))
	require.NoError(t, s.ReplaceSurgicalTiers(ctx, sc.ID, []forecast.SurgicalTierRow{
		{PlanID: plans[0].ID, BasePrice: 129, TierKey: forecast.SurgicalTier11To25, AddonPrice: 150, Customers: 1},
	}))
	require.NoError(t, s.SaveSurgicalExtras(ctx, sc.ID, forecast.SurgicalExtras{AdditionalProviderPrice: 75, AdditionalProviderQuantity: 2}))

	override := 50.0
	require.NoError(t, s.ReplaceOnboarding(ctx, sc.ID, []forecast.OnboardingRow{
		{PlanID: plans[0].ID, UpgradeType: forecast.UpgradeSession, Price: 299, Customers: 1},
		{PlanID: plans[1].ID, UpgradeType: forecast.UpgradeBundle, Price: 799, Customers: 1, DeliveryCost: &override},
	}))

	snap, err := s.LoadSnapshot(ctx, sc.ID)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, snap.CapitalExpenditure)
	assert.Equal(t, plans, snap.Plans)
	require.Len(t, snap.AddOns, 2)
	assert.Equal(t, forecast.CategoryRevenue, snap.AddOns[0].Category)
	assert.Equal(t, forecast.CategoryCostOnly, snap.AddOns[1].EffectiveCategory())
	require.Len(t, snap.OperatingCosts, 2)
	assert.True(t, snap.OperatingCosts[0].IsFixed)
	assert.False(t, snap.OperatingCosts[1].IsFixed)
	require.Len(t, snap.MarketingCosts, 2)
	assert.Equal(t, forecast.MarketingCommission, snap.MarketingCosts[0].CostType)
	assert.Equal(t, forecast.MarketingFixed, snap.MarketingCosts[1].CostType)
	require.Len(t, snap.Onboarding, 2)
	assert.Nil(t, snap.Onboarding[0].DeliveryCost)
	require.NotNil(t, snap.Onboarding[1].DeliveryCost)
	assert.Equal(t, 50.0, *snap.Onboarding[1].DeliveryCost)
	assert.Equal(t, 75.0, snap.SurgicalExtras.AdditionalProviderPrice)

	// plans 2000, add-on 100, support 88, seats 70, surgical 279+150, onboarding 1098
	calc := snap.Metrics()
	assert.InDelta(t, 3785.0, calc.MonthlyRevenue, 1e-9)
	// 500 + 50 operating, 10 add-on upkeep
	assert.InDelta(t, 560.0, calc.MonthlyOperatingExpenses, 1e-9)
	// 10% of 200 x 2 commission, 75 fixed
	assert.InDelta(t, 115.0, calc.MonthlyMarketingExpenses, 1e-9)
}

func TestReplaceSameIDsIntoTwoScenarios(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateScenario(ctx, "A", 0)
	require.NoError(t, err)
	b, err := s.CreateScenario(ctx, "B", 0)
	require.NoError(t, err)

	plans, err := s.ReplacePlans(ctx, a.ID, []forecast.PricingPlan{{Name: "Basic Plan", Price: 99, Customers: 20}})
	require.NoError(t, err)
	addOns, err := s.ReplaceAddOns(ctx, a.ID, []forecast.AddOnFeature{{Name: "Client Portal", Price: 49, Customers: 3, IsRevenue: true}})
	require.NoError(t, err)
	costs := []forecast.OperatingCost{{ID: "team", Name: "Team", Amount: 500, IsFixed: true}}
	require.NoError(t, s.ReplaceOperatingCosts(ctx, a.ID, costs))
	marketing := []forecast.MarketingCost{{ID: "ads", Name: "Ads", CostType: forecast.MarketingFixed, FixedAmount: 50}}
	require.NoError(t, s.ReplaceMarketingCosts(ctx, a.ID, marketing))
	onboarding := []forecast.OnboardingRow{{ID: "kickoff", PlanID: plans[0].ID, UpgradeType: forecast.UpgradeSession, Price: 299, Customers: 1}}
	require.NoError(t, s.ReplaceOnboarding(ctx, a.ID, onboarding))

	// copy A's rows verbatim into B
	_, err = s.ReplacePlans(ctx, b.ID, plans)
	require.NoError(t, err)
	_, err = s.ReplaceAddOns(ctx, b.ID, addOns)
	require.NoError(t, err)
	require.NoError(t, s.ReplaceOperatingCosts(ctx, b.ID, costs))
	require.NoError(t, s.ReplaceMarketingCosts(ctx, b.ID, marketing))
	require.NoError(t, s.ReplaceOnboarding(ctx, b.ID, onboarding))

	snapA, err := s.LoadSnapshot(ctx, a.ID)
	require.NoError(t, err)
	snapB, err := s.LoadSnapshot(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, snapA.Plans, snapB.Plans)
	assert.Equal(t, snapA.AddOns, snapB.AddOns)
	assert.Equal(t, plans[0].ID, snapB.Onboarding[0].PlanID)
	assert.Equal(t, snapA.Metrics(), snapB.Metrics())

	// replacing B leaves A untouched
	_, err = s.ReplacePlans(ctx, b.ID, nil)
	require.NoError(t, err)
	left, err := s.Plans(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestReplaceIsAllOrNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc, err := s.CreateScenario(ctx, "Support", 0)
	require.NoError(t, err)

	first := []forecast.TechSupportRow{{PlanID: "p1", Tier: forecast.TierUrgent, TierPrice: 99, Customers: 1}}
	require.NoError(t, s.ReplaceTechSupport(ctx, sc.ID, first))

	dup := []forecast.TechSupportRow{
		{PlanID: "p1", Tier: forecast.TierPriority, TierPrice: 39, Customers: 1},
		{PlanID: "p1", Tier: forecast.TierPriority, TierPrice: 49, Customers: 1},
	}
	require.Error(t, s.ReplaceTechSupport(ctx, sc.ID, dup))

	rows, err := s.TechSupport(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, first, rows)
}

func TestReplaceUnknownScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReplacePlans(ctx, "missing", []forecast.PricingPlan{{Name: "Basic"}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.SaveSurgicalExtras(ctx, "missing", forecast.SurgicalExtras{}), ErrNotFound)
	_, err = s.LoadSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSurgicalExtras_MissingIsZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc, err := s.CreateScenario(ctx, "No extras", 0)
	require.NoError(t, err)

	extras, err := s.SurgicalExtras(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, forecast.SurgicalExtras{}, extras)

	require.NoError(t, s.SaveSurgicalExtras(ctx, sc.ID, forecast.SurgicalExtras{AutomationPricePer1000: 25, AutomationOverageThousands: 4}))
	require.NoError(t, s.SaveSurgicalExtras(ctx, sc.ID, forecast.SurgicalExtras{AutomationPricePer1000: 30, AutomationOverageThousands: 1}))

	extras, err = s.SurgicalExtras(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, extras.AutomationPricePer1000)
	assert.Equal(t, 1.0, extras.AutomationOverageThousands)
}

func TestSimulations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc, err := s.CreateScenario(ctx, "Bundles", 0)
	require.NoError(t, err)

	saved, err := s.SaveSimulation(ctx, sc.ID, "portal into pro", forecast.BundleSimulation{
		Name:           "Pro bundle",
		BundleConfig:   map[string][]string{"pro": {"portal"}},
		AdjustedPrices: map[string]float64{"pro": 250},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pro bundle", saved.Name)
	assert.Equal(t, []string{"portal"}, saved.BundleConfig["pro"])
	assert.Equal(t, 250.0, saved.AdjustedPrices["pro"])
	assert.Empty(t, saved.AdjustedCustomers)

	list, err := s.ListSimulations(ctx, sc.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	_, err = s.GetSimulation(ctx, sc.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.SaveSimulation(ctx, "missing", "", forecast.BundleSimulation{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
