package main

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/report"
	"github.com/Simplici0/forecast/internal/seed"
	"github.com/Simplici0/forecast/internal/validation"
)

type scenarioRequest struct {
	Name               string   `json:"name" validate:"required"`
	CapitalExpenditure *float64 `json:"capital_expenditure" validate:"omitempty,finite,gte=0"`
	// Empty scenarios skip the default catalog.
	Empty bool `json:"empty"`
}

type scenarioPatch struct {
	Name               *string  `json:"name" validate:"omitempty,min=1"`
	CapitalExpenditure *float64 `json:"capital_expenditure" validate:"omitempty,finite,gte=0"`
}

func (s *server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.store.ListScenarios(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to list scenarios", err)
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := validation.Struct(s.validate, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	capex := forecast.DefaultCapitalExpenditure
	if req.CapitalExpenditure != nil {
		capex = *req.CapitalExpenditure
	}

	if req.Empty {
		sc, err := s.store.CreateScenario(r.Context(), req.Name, capex)
		if err != nil {
			s.internalError(w, r, "failed to create scenario", err)
			return
		}
		writeJSON(w, http.StatusCreated, sc)
		return
	}

	sc, err := seed.Scenario(r.Context(), s.store, req.Name, capex)
	if err != nil {
		s.internalError(w, r, "failed to create scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (s *server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, "failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *server) handleUpdateScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch scenarioPatch
	if !s.decode(w, r, &patch) {
		return
	}
	if err := validation.Struct(s.validate, patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sc, err := s.store.GetScenario(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "failed to load scenario", err)
		return
	}
	if patch.Name != nil {
		sc.Name = *patch.Name
	}
	if patch.CapitalExpenditure != nil {
		sc.CapitalExpenditure = *patch.CapitalExpenditure
	}

	sc, err = s.store.UpdateScenario(r.Context(), id, sc.Name, sc.CapitalExpenditure)
	if err != nil {
		s.storeError(w, r, "failed to update scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteScenario(r.Context(), id); err != nil {
		s.storeError(w, r, "failed to delete scenario", err)
		return
	}
	s.log.Info("scenario deleted", "scenario", id)
	w.WriteHeader(http.StatusNoContent)
}

// loadSnapshot reads the scenario named in the URL, writing the error response
// itself when it fails.
func (s *server) loadSnapshot(w http.ResponseWriter, r *http.Request) (forecast.Snapshot, bool) {
	snap, err := s.store.LoadSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, "failed to load scenario", err)
		return forecast.Snapshot{}, false
	}
	return snap, true
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleForecast(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Metrics())
}

func (s *server) handleOnboardingSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, forecast.SummarizeOnboarding(snap.Onboarding, forecast.DefaultOnboardingDelivery()))
}

func (s *server) reportDocument(w http.ResponseWriter, r *http.Request) (report.Document, bool) {
	sc, err := s.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, r, "failed to load scenario", err)
		return report.Document{}, false
	}
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return report.Document{}, false
	}
	return report.Document{Title: sc.Name, Snapshot: snap}, true
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.reportDocument(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Markdown(&buf, doc); err != nil {
		s.internalError(w, r, "failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.reportDocument(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.HTML(&buf, doc); err != nil {
		s.internalError(w, r, "failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
