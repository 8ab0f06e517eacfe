package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/store"
)

// DefaultScenarioName names the scenario created on an empty database.
const DefaultScenarioName = "Base Scenario"

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
	// DefaultScenario is created with the default catalog when no scenario
	// exists. Empty disables it.
	DefaultScenario string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, st *store.Store, cfg Config) (Stats, error) {
	tx, err := st.DB().BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(ctx, tx, st, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	if cfg.DefaultScenario != "" {
		if err := ensureDefaultScenario(ctx, st, cfg.DefaultScenario, &stats); err != nil {
			return Stats{}, err
		}
	}

	return stats, nil
}

// seedAdmin inserts the admin user, or refreshes its hash when the configured
// password changed.
func seedAdmin(ctx context.Context, tx *sql.Tx, st *store.Store, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var hash string
	err := tx.QueryRowContext(ctx, st.Rebind(`SELECT password_hash FROM users WHERE email = ?`), email).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		newHash, err := HashPassword(password)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, st.Rebind(`INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`), uuid.NewString(), email, newHash); err != nil {
			return fmt.Errorf("insert admin user: %w", err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check admin user existence: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
		return nil
	}

	newHash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, st.Rebind(`UPDATE users SET password_hash = ? WHERE email = ?`), newHash, email); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	stats.Updates++
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}

func ensureDefaultScenario(ctx context.Context, st *store.Store, name string, stats *Stats) error {
	scenarios, err := st.ListScenarios(ctx)
	if err != nil {
		return fmt.Errorf("check scenario existence: %w", err)
	}
	if len(scenarios) > 0 {
		return nil
	}

	if _, err := Scenario(ctx, st, name, forecast.DefaultCapitalExpenditure); err != nil {
		return err
	}
	stats.Inserts++
	return nil
}

// Scenario creates a scenario populated with the default catalog: plans,
// add-ons, cost lines and the per-plan support, seat, surgical and onboarding
// rows. A scenario whose catalog fails to seed is deleted again.
func Scenario(ctx context.Context, st *store.Store, name string, capitalExpenditure float64) (store.Scenario, error) {
	sc, err := st.CreateScenario(ctx, name, capitalExpenditure)
	if err != nil {
		return store.Scenario{}, fmt.Errorf("create scenario %q: %w", name, err)
	}

	if err := seedCatalog(ctx, st, sc.ID); err != nil {
		if delErr := st.DeleteScenario(context.WithoutCancel(ctx), sc.ID); delErr != nil {
			return store.Scenario{}, errors.Join(err, fmt.Errorf("discard scenario %s: %w", sc.ID, delErr))
		}
		return store.Scenario{}, err
	}
	return st.GetScenario(ctx, sc.ID)
}

func seedCatalog(ctx context.Context, st *store.Store, scenarioID string) error {
	plans, err := st.ReplacePlans(ctx, scenarioID, forecast.DefaultPlans())
	if err != nil {
		return fmt.Errorf("seed plans: %w", err)
	}
	if _, err := st.ReplaceAddOns(ctx, scenarioID, forecast.DefaultAddOns()); err != nil {
		return fmt.Errorf("seed add-ons: %w", err)
	}
	if err := st.ReplaceOperatingCosts(ctx, scenarioID, forecast.DefaultOperatingCosts()); err != nil {
		return fmt.Errorf("seed operating costs: %w", err)
	}
	if err := st.ReplaceMarketingCosts(ctx, scenarioID, forecast.DefaultMarketingCosts()); err != nil {
		return fmt.Errorf("seed marketing costs: %w", err)
	}

	rows := forecast.DefaultPlanRows(plans)
	if err := st.ReplaceTechSupport(ctx, scenarioID, rows.TechSupport); err != nil {
		return fmt.Errorf("seed tech support: %w", err)
	}
	if err := st.ReplacePlanAddons(ctx, scenarioID, rows.PlanAddons); err != nil {
		return fmt.Errorf("seed plan add-ons: %w", err)
	}
	if err := st.ReplaceSurgicalTiers(ctx, scenarioID, rows.SurgicalTiers); err != nil {
		return fmt.Errorf("seed surgical tiers: %w", err)
	}
	if err := st.SaveSurgicalExtras(ctx, scenarioID, forecast.DefaultSurgicalExtras()); err != nil {
		return fmt.Errorf("seed surgical extras: %w", err)
	}
	if err := st.ReplaceOnboarding(ctx, scenarioID, rows.Onboarding); err != nil {
		return fmt.Errorf("seed onboarding: %w", err)
	}
	return nil
}
