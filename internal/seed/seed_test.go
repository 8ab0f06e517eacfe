package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/forecast/internal/db"
	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/migrations"
	"github.com/Simplici0/forecast/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	database, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "seed-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.Up(database, db.DriverSQLite, "../../migrations"))
	return store.New(database, db.DriverSQLite)
}

func TestRunIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	cfg := Config{
		AdminEmail:      "admin@forecast.local",
		AdminPassword:   "12345",
		DefaultScenario: DefaultScenarioName,
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, st, cfg)
		require.NoError(t, err, "iteration %d", i)
		if i == 0 {
			assert.Equal(t, 2, stats.Inserts, "admin and default scenario")
			continue
		}
		assert.Zero(t, stats.Inserts, "iteration %d", i)
		assert.Zero(t, stats.Updates, "iteration %d", i)
	}

	var count int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&count))
	assert.Equal(t, 1, count)

	scenarios, err := st.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, DefaultScenarioName, scenarios[0].Name)

	var hash string
	require.NoError(t, st.DB().QueryRow(`SELECT password_hash FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("12345")))
}

func TestRunRotatesAdminPassword(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := Run(ctx, st, Config{AdminEmail: "admin@forecast.local", AdminPassword: "old"})
	require.NoError(t, err)

	stats, err := Run(ctx, st, Config{AdminEmail: "admin@forecast.local", AdminPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, Stats{Updates: 1}, stats)

	var hash string
	require.NoError(t, st.DB().QueryRow(`SELECT password_hash FROM users`).Scan(&hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("new")))
}

func TestRunWithoutAdminCredentials(t *testing.T) {
	st := newTestStore(t)

	stats, err := Run(context.Background(), st, Config{})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestScenarioSeedsDefaultCatalog(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	sc, err := Scenario(ctx, st, "Defaults", forecast.DefaultCapitalExpenditure)
	require.NoError(t, err)

	snap, err := st.LoadSnapshot(ctx, sc.ID)
	require.NoError(t, err)

	assert.Equal(t, forecast.DefaultCapitalExpenditure, snap.CapitalExpenditure)
	require.Len(t, snap.Plans, 3)
	assert.Len(t, snap.AddOns, len(forecast.DefaultAddOns()))
	assert.Len(t, snap.MarketingCosts, len(forecast.DefaultMarketingCosts()))
	// two support tiers and two onboarding upgrades per plan
	assert.Len(t, snap.TechSupport, 6)
	assert.Len(t, snap.Onboarding, 6)
	assert.Len(t, snap.SurgicalTiers, 3*len(forecast.SurgicalTiers))
	// staff seats everywhere, provider seats except Basic
	assert.Len(t, snap.PlanAddons, 5)
	assert.Equal(t, forecast.DefaultSurgicalExtras(), snap.SurgicalExtras)

	for _, r := range snap.TechSupport {
		assert.NotEmpty(t, r.PlanID)
	}

	calc := snap.Metrics()
	assert.Greater(t, calc.MonthlyRevenue, 0.0)
}

func TestScenarioDiscardedWhenCatalogFails(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.DB().ExecContext(ctx, `DROP TABLE onboarding_rows`)
	require.NoError(t, err)

	_, err = Scenario(ctx, st, "Broken", forecast.DefaultCapitalExpenditure)
	require.ErrorContains(t, err, "seed onboarding")

	list, err := st.ListScenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	var plans int
	require.NoError(t, st.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM pricing_plans`).Scan(&plans))
	assert.Zero(t, plans)
}
