package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/store"
	"github.com/Simplici0/forecast/internal/validation"
)

type simulateRequest struct {
	forecast.BundleSimulation
	Description string `json:"description"`
}

type simulationResponse struct {
	Simulation *store.Simulation         `json:"simulation,omitempty"`
	Current    forecast.Calculations     `json:"current"`
	Result     forecast.SimulationResult `json:"result"`
	Comparison []forecast.MetricChange   `json:"comparison"`
	PlanPrices []forecast.MetricChange   `json:"plan_prices"`
}

func runSimulation(snap forecast.Snapshot, sim forecast.BundleSimulation) simulationResponse {
	current := snap.Metrics()
	result := snap.Simulate(sim)
	return simulationResponse{
		Current:    current,
		Result:     result,
		Comparison: forecast.Compare(current, result.Calculations),
		PlanPrices: forecast.ComparePlanPrices(snap.Plans, sim.AdjustedPrices),
	}
}

// handleSimulate evaluates a bundle simulation against the stored scenario.
// With ?save=true the configuration is stored as well.
func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.Struct(s.validate, req.BundleSimulation); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	resp := runSimulation(snap, req.BundleSimulation)

	if r.URL.Query().Get("save") == "true" {
		saved, err := s.store.SaveSimulation(r.Context(), chi.URLParam(r, "id"), req.Description, req.BundleSimulation)
		if err != nil {
			s.storeError(w, r, "failed to save simulation", err)
			return
		}
		resp.Simulation = &saved
		writeJSON(w, http.StatusCreated, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetScenario(r.Context(), id); err != nil {
		s.storeError(w, r, "failed to load scenario", err)
		return
	}

	sims, err := s.store.ListSimulations(r.Context(), id)
	if err != nil {
		s.internalError(w, r, "failed to list simulations", err)
		return
	}
	writeJSON(w, http.StatusOK, sims)
}

// handleGetSimulation re-runs a saved configuration against the current
// scenario inputs.
func (s *server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := s.store.GetSimulation(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "simID"))
	if err != nil {
		s.storeError(w, r, "failed to load simulation", err)
		return
	}

	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	resp := runSimulation(snap, sim.BundleSimulation)
	resp.Simulation = &sim
	writeJSON(w, http.StatusOK, resp)
}

type commissionRequest struct {
	Scenarios []forecast.CommissionScenario `json:"scenarios" validate:"omitempty,dive"`
}

// handleCommissions evaluates affiliate commission scenarios against the
// scenario's plan and add-on catalog.
func (s *server) handleCommissions(w http.ResponseWriter, r *http.Request) {
	var req commissionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.Struct(s.validate, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, forecast.EvaluateCommissions(snap.Plans, snap.AddOns, req.Scenarios))
}
