package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/forecast/internal/forecast"
)

// Plans returns the scenario's plans in display order.
func (s *Store) Plans(ctx context.Context, scenarioID string) ([]forecast.PricingPlan, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT id, name, price, customers, display_order
		FROM pricing_plans
		WHERE scenario_id = ?
		ORDER BY display_order, position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	plans := make([]forecast.PricingPlan, 0)
	for rows.Next() {
		var p forecast.PricingPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Customers, &p.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

// ReplacePlans overwrites the scenario's plans. Rows without an id get one;
// the stored rows are returned.
func (s *Store) ReplacePlans(ctx context.Context, scenarioID string, plans []forecast.PricingPlan) ([]forecast.PricingPlan, error) {
	stored := make([]forecast.PricingPlan, len(plans))
	err := s.replace(ctx, "pricing_plans", scenarioID, func(tx *sql.Tx) error {
		for i, p := range plans {
			if p.ID == "" {
				p.ID = newID()
			}
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO pricing_plans (id, scenario_id, name, price, customers, display_order, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`), p.ID, scenarioID, p.Name, p.Price, p.Customers, p.DisplayOrder, i); err != nil {
				return fmt.Errorf("insert plan %q: %w", p.Name, err)
			}
			stored[i] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// AddOns returns the scenario's add-on features.
func (s *Store) AddOns(ctx context.Context, scenarioID string) ([]forecast.AddOnFeature, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT id, name, price, customers, is_revenue, operating_cost_per_customer, category
		FROM add_on_features
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query add-ons: %w", err)
	}
	defer rows.Close()

	addOns := make([]forecast.AddOnFeature, 0)
	for rows.Next() {
		var (
			f        forecast.AddOnFeature
			category string
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Price, &f.Customers, &f.IsRevenue, &f.OperatingCostPerCustomer, &category); err != nil {
			return nil, fmt.Errorf("scan add-on: %w", err)
		}
		f.Category = forecast.AddOnCategory(category)
		addOns = append(addOns, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate add-ons: %w", err)
	}
	return addOns, nil
}

// ReplaceAddOns overwrites the scenario's add-on features.
func (s *Store) ReplaceAddOns(ctx context.Context, scenarioID string, addOns []forecast.AddOnFeature) ([]forecast.AddOnFeature, error) {
	stored := make([]forecast.AddOnFeature, len(addOns))
	err := s.replace(ctx, "add_on_features", scenarioID, func(tx *sql.Tx) error {
		for i, f := range addOns {
			if f.ID == "" {
				f.ID = newID()
			}
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO add_on_features (id, scenario_id, name, price, customers, is_revenue, operating_cost_per_customer, category, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`), f.ID, scenarioID, f.Name, f.Price, f.Customers, f.IsRevenue, f.OperatingCostPerCustomer, string(f.Category), i); err != nil {
				return fmt.Errorf("insert add-on %q: %w", f.Name, err)
			}
			stored[i] = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// OperatingCosts returns the scenario's operating cost lines.
func (s *Store) OperatingCosts(ctx context.Context, scenarioID string) ([]forecast.OperatingCost, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT id, name, amount, is_fixed, unit_price, units
		FROM operating_costs
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query operating costs: %w", err)
	}
	defer rows.Close()

	costs := make([]forecast.OperatingCost, 0)
	for rows.Next() {
		var c forecast.OperatingCost
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.IsFixed, &c.UnitPrice, &c.Units); err != nil {
			return nil, fmt.Errorf("scan operating cost: %w", err)
		}
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operating costs: %w", err)
	}
	return costs, nil
}

// ReplaceOperatingCosts overwrites the scenario's operating cost lines.
func (s *Store) ReplaceOperatingCosts(ctx context.Context, scenarioID string, costs []forecast.OperatingCost) error {
	return s.replace(ctx, "operating_costs", scenarioID, func(tx *sql.Tx) error {
		for i, c := range costs {
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO operating_costs (id, scenario_id, name, amount, is_fixed, unit_price, units, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`), idOrNew(c.ID), scenarioID, c.Name, c.Amount, c.IsFixed, c.UnitPrice, c.Units, i); err != nil {
				return fmt.Errorf("insert operating cost %q: %w", c.Name, err)
			}
		}
		return nil
	})
}

// MarketingCosts returns the scenario's marketing lines.
func (s *Store) MarketingCosts(ctx context.Context, scenarioID string) ([]forecast.MarketingCost, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT id, name, rate, price_plan, plan_id, customers, cost_type, fixed_amount
		FROM marketing_costs
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query marketing costs: %w", err)
	}
	defer rows.Close()

	costs := make([]forecast.MarketingCost, 0)
	for rows.Next() {
		var (
			m        forecast.MarketingCost
			costType string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Rate, &m.PricePlan, &m.PlanID, &m.Customers, &costType, &m.FixedAmount); err != nil {
			return nil, fmt.Errorf("scan marketing cost: %w", err)
		}
		m.CostType = forecast.MarketingCostType(costType)
		costs = append(costs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate marketing costs: %w", err)
	}
	return costs, nil
}

// ReplaceMarketingCosts overwrites the scenario's marketing lines. An empty
// cost type is stored as commission.
func (s *Store) ReplaceMarketingCosts(ctx context.Context, scenarioID string, costs []forecast.MarketingCost) error {
	return s.replace(ctx, "marketing_costs", scenarioID, func(tx *sql.Tx) error {
		for i, m := range costs {
			costType := m.CostType
			if costType == "" {
				costType = forecast.MarketingCommission
			}
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO marketing_costs (id, scenario_id, name, rate, price_plan, plan_id, customers, cost_type, fixed_amount, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`), idOrNew(m.ID), scenarioID, m.Name, m.Rate, m.PricePlan, m.PlanID, m.Customers, string(costType), m.FixedAmount, i); err != nil {
				return fmt.Errorf("insert marketing cost %q: %w", m.Name, err)
			}
		}
		return nil
	})
}

// TechSupport returns the scenario's tech support rows.
func (s *Store) TechSupport(ctx context.Context, scenarioID string) ([]forecast.TechSupportRow, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT plan_id, plan_name, tier, tier_price, customers, seat_addon_price, extra_seats
		FROM tech_support_revenue
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query tech support: %w", err)
	}
	defer rows.Close()

	out := make([]forecast.TechSupportRow, 0)
	for rows.Next() {
		var (
			r    forecast.TechSupportRow
			tier string
		)
		if err := rows.Scan(&r.PlanID, &r.PlanName, &tier, &r.TierPrice, &r.Customers, &r.SeatAddonPrice, &r.ExtraSeats); err != nil {
			return nil, fmt.Errorf("scan tech support: %w", err)
		}
		r.Tier = forecast.SupportTier(tier)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tech support: %w", err)
	}
	return out, nil
}

// ReplaceTechSupport overwrites the scenario's tech support rows. A repeated
// (plan, tier) pair violates the table's unique key.
func (s *Store) ReplaceTechSupport(ctx context.Context, scenarioID string, rows []forecast.TechSupportRow) error {
	return s.replace(ctx, "tech_support_revenue", scenarioID, func(tx *sql.Tx) error {
		for i, r := range rows {
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO tech_support_revenue (id, scenario_id, plan_id, plan_name, tier, tier_price, customers, seat_addon_price, extra_seats, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`), newID(), scenarioID, r.PlanID, r.PlanName, string(r.Tier), r.TierPrice, r.Customers, r.SeatAddonPrice, r.ExtraSeats, i); err != nil {
				return fmt.Errorf("insert tech support %s/%s: %w", r.PlanID, r.Tier, err)
			}
		}
		return nil
	})
}

// PlanAddons returns the scenario's staff and provider seat rows.
func (s *Store) PlanAddons(ctx context.Context, scenarioID string) ([]forecast.PlanAddonRow, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT plan_id, plan_name, addon_type, price, quantity
		FROM plan_addon_rows
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query plan add-ons: %w", err)
	}
	defer rows.Close()

	out := make([]forecast.PlanAddonRow, 0)
	for rows.Next() {
		var (
			r         forecast.PlanAddonRow
			addonType string
		)
		if err := rows.Scan(&r.PlanID, &r.PlanName, &addonType, &r.Price, &r.Quantity); err != nil {
			return nil, fmt.Errorf("scan plan add-on: %w", err)
		}
		r.AddonType = forecast.PlanAddonType(addonType)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan add-ons: %w", err)
	}
	return out, nil
}

// ReplacePlanAddons overwrites the scenario's seat rows.
func (s *Store) ReplacePlanAddons(ctx context.Context, scenarioID string, rows []forecast.PlanAddonRow) error {
	return s.replace(ctx, "plan_addon_rows", scenarioID, func(tx *sql.Tx) error {
		for i, r := range rows {
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO plan_addon_rows (id, scenario_id, plan_id, plan_name, addon_type, price, quantity, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`), newID(), scenarioID, r.PlanID, r.PlanName, string(r.AddonType), r.Price, r.Quantity, i); err != nil {
				return fmt.Errorf("insert plan add-on %s/%s: %w", r.PlanID, r.AddonType, err)
			}
		}
		return nil
	})
}

// SurgicalTiers returns the scenario's surgical volume rows.
func (s *Store) SurgicalTiers(ctx context.Context, scenarioID string) ([]forecast.SurgicalTierRow, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT plan_id, plan_name, base_price, tier_key, addon_price, customers
		FROM surgical_tier_rows
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query surgical tiers: %w", err)
	}
	defer rows.Close()

	out := make([]forecast.SurgicalTierRow, 0)
	for rows.Next() {
		var (
			r   forecast.SurgicalTierRow
			key string
		)
		if err := rows.Scan(&r.PlanID, &r.PlanName, &r.BasePrice, &key, &r.AddonPrice, &r.Customers); err != nil {
			return nil, fmt.Errorf("scan surgical tier: %w", err)
		}
		r.TierKey = forecast.SurgicalTierKey(key)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate surgical tiers: %w", err)
	}
	return out, nil
}

// ReplaceSurgicalTiers overwrites the scenario's surgical volume rows.
func (s *Store) ReplaceSurgicalTiers(ctx context.Context, scenarioID string, rows []forecast.SurgicalTierRow) error {
	return s.replace(ctx, "surgical_tier_rows", scenarioID, func(tx *sql.Tx) error {
		for i, r := range rows {
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO surgical_tier_rows (id, scenario_id, plan_id, plan_name, base_price, tier_key, addon_price, customers, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`), newID(), scenarioID, r.PlanID, r.PlanName, r.BasePrice, string(r.TierKey), r.AddonPrice, r.Customers, i); err != nil {
				return fmt.Errorf("insert surgical tier %s/%s: %w", r.PlanID, r.TierKey, err)
			}
		}
		return nil
	})
}

// SurgicalExtras returns the scenario's overage lines; a missing row reads as
// zero extras.
func (s *Store) SurgicalExtras(ctx context.Context, scenarioID string) (forecast.SurgicalExtras, error) {
	var e forecast.SurgicalExtras
	err := s.db.QueryRowContext(ctx, s.Rebind(`
		SELECT additional_provider_price, additional_provider_quantity, automation_price_per_1000, automation_overage_thousands
		FROM surgical_extras
		WHERE scenario_id = ?
	`), scenarioID).Scan(&e.AdditionalProviderPrice, &e.AdditionalProviderQuantity, &e.AutomationPricePer1000, &e.AutomationOverageThousands)
	if errors.Is(err, sql.ErrNoRows) {
		return forecast.SurgicalExtras{}, nil
	}
	if err != nil {
		return forecast.SurgicalExtras{}, fmt.Errorf("query surgical extras: %w", err)
	}
	return e, nil
}

// SaveSurgicalExtras upserts the scenario's overage lines.
func (s *Store) SaveSurgicalExtras(ctx context.Context, scenarioID string, e forecast.SurgicalExtras) error {
	if _, err := s.GetScenario(ctx, scenarioID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.Rebind(`
		INSERT INTO surgical_extras (scenario_id, additional_provider_price, additional_provider_quantity, automation_price_per_1000, automation_overage_thousands)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (scenario_id) DO UPDATE SET
			additional_provider_price = excluded.additional_provider_price,
			additional_provider_quantity = excluded.additional_provider_quantity,
			automation_price_per_1000 = excluded.automation_price_per_1000,
			automation_overage_thousands = excluded.automation_overage_thousands,
			updated_at = CURRENT_TIMESTAMP
	`), scenarioID, e.AdditionalProviderPrice, e.AdditionalProviderQuantity, e.AutomationPricePer1000, e.AutomationOverageThousands); err != nil {
		return fmt.Errorf("upsert surgical extras: %w", err)
	}
	return nil
}

// Onboarding returns the scenario's onboarding upgrade rows.
func (s *Store) Onboarding(ctx context.Context, scenarioID string) ([]forecast.OnboardingRow, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT id, plan_id, plan_name, upgrade_type, price, customers, delivery_cost
		FROM onboarding_rows
		WHERE scenario_id = ?
		ORDER BY position
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query onboarding: %w", err)
	}
	defer rows.Close()

	out := make([]forecast.OnboardingRow, 0)
	for rows.Next() {
		var (
			r           forecast.OnboardingRow
			upgradeType string
			delivery    sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.PlanID, &r.PlanName, &upgradeType, &r.Price, &r.Customers, &delivery); err != nil {
			return nil, fmt.Errorf("scan onboarding: %w", err)
		}
		r.UpgradeType = forecast.UpgradeType(upgradeType)
		if delivery.Valid {
			v := delivery.Float64
			r.DeliveryCost = &v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate onboarding: %w", err)
	}
	return out, nil
}

// ReplaceOnboarding overwrites the scenario's onboarding upgrade rows.
func (s *Store) ReplaceOnboarding(ctx context.Context, scenarioID string, rows []forecast.OnboardingRow) error {
	return s.replace(ctx, "onboarding_rows", scenarioID, func(tx *sql.Tx) error {
		for i, r := range rows {
			var delivery sql.NullFloat64
			if r.DeliveryCost != nil {
				delivery = sql.NullFloat64{Float64: *r.DeliveryCost, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, s.Rebind(`
				INSERT INTO onboarding_rows (id, scenario_id, plan_id, plan_name, upgrade_type, price, customers, delivery_cost, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`), idOrNew(r.ID), scenarioID, r.PlanID, r.PlanName, string(r.UpgradeType), r.Price, r.Customers, delivery, i); err != nil {
				return fmt.Errorf("insert onboarding %s/%s: %w", r.PlanID, r.UpgradeType, err)
			}
		}
		return nil
	})
}

func idOrNew(id string) string {
	if id == "" {
		return newID()
	}
	return id
}
