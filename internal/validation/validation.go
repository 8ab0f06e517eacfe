// Package validation checks forecast inputs before they reach the store or the
// engine. The engine itself accepts any values.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Simplici0/forecast/internal/forecast"
)

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("finite", finite)
	return v
}

// finite rejects NaN and infinities, which YAML accepts as .nan and .inf.
func finite(fl validator.FieldLevel) bool {
	switch f := fl.Field(); f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return true
	}
}

// Struct checks one payload and returns a readable error.
func Struct(v *validator.Validate, payload any) error {
	if err := v.Struct(payload); err != nil {
		return describe(err)
	}
	return nil
}

// Rows checks every row, prefixing failures with the row index.
func Rows[T any](v *validator.Validate, rows []T) error {
	for i := range rows {
		if err := v.Struct(rows[i]); err != nil {
			return fmt.Errorf("row %d: %w", i, describe(err))
		}
	}
	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "gte":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", field, fe.Param())
	case "finite":
		return fmt.Errorf("%s must be a finite number", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// uniqueIDs rejects a repeated row id within one collection. Empty ids are
// assigned by the store and never collide.
func uniqueIDs[T any](rows []T, id func(T) string) error {
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		key := id(r)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("row %d: duplicate id %s", i, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func Plans(rows []forecast.PricingPlan) error {
	return uniqueIDs(rows, func(p forecast.PricingPlan) string { return p.ID })
}

func AddOns(rows []forecast.AddOnFeature) error {
	return uniqueIDs(rows, func(f forecast.AddOnFeature) string { return f.ID })
}

func OperatingCosts(rows []forecast.OperatingCost) error {
	return uniqueIDs(rows, func(c forecast.OperatingCost) string { return c.ID })
}

func MarketingCosts(rows []forecast.MarketingCost) error {
	return uniqueIDs(rows, func(m forecast.MarketingCost) string { return m.ID })
}

func Onboarding(rows []forecast.OnboardingRow) error {
	return uniqueIDs(rows, func(r forecast.OnboardingRow) string { return r.ID })
}

// TechSupport rejects a second row for the same plan and tier.
func TechSupport(rows []forecast.TechSupportRow) error {
	type key struct {
		plan string
		tier forecast.SupportTier
	}
	seen := make(map[key]struct{}, len(rows))
	for i, r := range rows {
		k := key{r.PlanID, r.Tier}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("row %d: duplicate %s tier for plan %s", i, r.Tier, r.PlanID)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// SurgicalTiers enforces one base price per plan, one row per tier and
// the catalog add-on price for every non-custom tier.
func SurgicalTiers(rows []forecast.SurgicalTierRow) error {
	base := make(map[string]float64)
	type key struct {
		plan string
		tier forecast.SurgicalTierKey
	}
	seen := make(map[key]struct{}, len(rows))

	for i, r := range rows {
		if price, ok := base[r.PlanID]; ok && price != r.BasePrice {
			return fmt.Errorf("row %d: plan %s mixes base prices %g and %g", i, r.PlanID, price, r.BasePrice)
		}
		base[r.PlanID] = r.BasePrice

		k := key{r.PlanID, r.TierKey}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("row %d: duplicate tier %s for plan %s", i, r.TierKey, r.PlanID)
		}
		seen[k] = struct{}{}

		tier, ok := forecast.LookupSurgicalTier(r.TierKey)
		if !ok {
			return fmt.Errorf("row %d: unknown tier %s", i, r.TierKey)
		}
		if !tier.Custom && r.AddonPrice != tier.AddonPrice {
			return fmt.Errorf("row %d: tier %s add-on price is fixed at %g", i, r.TierKey, tier.AddonPrice)
		}
	}
	return nil
}

// Snapshot checks every collection of a scenario, including the cross-row
// rules for tech support and surgical tiers.
func Snapshot(v *validator.Validate, snap forecast.Snapshot) error {
	if math.IsNaN(snap.CapitalExpenditure) || math.IsInf(snap.CapitalExpenditure, 0) {
		return errors.New("capital_expenditure must be a finite number")
	}
	if snap.CapitalExpenditure < 0 {
		return errors.New("capital_expenditure must be at least 0")
	}

	checks := []struct {
		name string
		err  error
	}{
		{"plans", Rows(v, snap.Plans)},
		{"plans", Plans(snap.Plans)},
		{"add_ons", Rows(v, snap.AddOns)},
		{"add_ons", AddOns(snap.AddOns)},
		{"operating_costs", Rows(v, snap.OperatingCosts)},
		{"operating_costs", OperatingCosts(snap.OperatingCosts)},
		{"marketing_costs", Rows(v, snap.MarketingCosts)},
		{"marketing_costs", MarketingCosts(snap.MarketingCosts)},
		{"tech_support", Rows(v, snap.TechSupport)},
		{"tech_support", TechSupport(snap.TechSupport)},
		{"plan_addons", Rows(v, snap.PlanAddons)},
		{"surgical_tiers", Rows(v, snap.SurgicalTiers)},
		{"surgical_tiers", SurgicalTiers(snap.SurgicalTiers)},
		{"surgical_extras", Struct(v, snap.SurgicalExtras)},
		{"onboarding", Rows(v, snap.Onboarding)},
		{"onboarding", Onboarding(snap.Onboarding)},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("%s: %w", c.name, c.err)
		}
	}
	return nil
}
