package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/validation"
)

// replaceRows decodes a JSON array, validates each row and the optional
// cross-row rule, replaces the stored collection and responds with what was
// stored.
func replaceRows[T any](
	s *server,
	w http.ResponseWriter,
	r *http.Request,
	name string,
	check func([]T) error,
	save func(ctx context.Context, scenarioID string, rows []T) error,
	load func(ctx context.Context, scenarioID string) ([]T, error),
) {
	id := chi.URLParam(r, "id")

	var rows []T
	if !s.decode(w, r, &rows) {
		return
	}
	if err := validation.Rows(s.validate, rows); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if check != nil {
		if err := check(rows); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := save(r.Context(), id, rows); err != nil {
		s.storeError(w, r, "failed to save "+name, err)
		return
	}

	stored, err := load(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "failed to load "+name, err)
		return
	}
	s.log.Info("collection replaced", "scenario", id, "collection", name, "rows", len(stored))
	writeJSON(w, http.StatusOK, stored)
}

func (s *server) handleReplacePlans(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "plans", validation.Plans,
		func(ctx context.Context, id string, rows []forecast.PricingPlan) error {
			_, err := s.store.ReplacePlans(ctx, id, rows)
			return err
		},
		s.store.Plans,
	)
}

func (s *server) handleReplaceAddOns(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "add-ons", validation.AddOns,
		func(ctx context.Context, id string, rows []forecast.AddOnFeature) error {
			_, err := s.store.ReplaceAddOns(ctx, id, rows)
			return err
		},
		s.store.AddOns,
	)
}

func (s *server) handleReplaceOperatingCosts(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "operating costs", validation.OperatingCosts, s.store.ReplaceOperatingCosts, s.store.OperatingCosts)
}

func (s *server) handleReplaceMarketingCosts(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "marketing costs", validation.MarketingCosts, s.store.ReplaceMarketingCosts, s.store.MarketingCosts)
}

func (s *server) handleReplaceTechSupport(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "tech support", validation.TechSupport, s.store.ReplaceTechSupport, s.store.TechSupport)
}

func (s *server) handleReplacePlanAddons(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "plan add-ons", nil, s.store.ReplacePlanAddons, s.store.PlanAddons)
}

func (s *server) handleReplaceSurgicalTiers(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "surgical tiers", validation.SurgicalTiers, s.store.ReplaceSurgicalTiers, s.store.SurgicalTiers)
}

func (s *server) handleReplaceOnboarding(w http.ResponseWriter, r *http.Request) {
	replaceRows(s, w, r, "onboarding", validation.Onboarding, s.store.ReplaceOnboarding, s.store.Onboarding)
}

func (s *server) handleSaveSurgicalExtras(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var extras forecast.SurgicalExtras
	if !s.decode(w, r, &extras) {
		return
	}
	if err := validation.Struct(s.validate, extras); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveSurgicalExtras(r.Context(), id, extras); err != nil {
		s.storeError(w, r, "failed to save surgical extras", err)
		return
	}
	writeJSON(w, http.StatusOK, extras)
}
