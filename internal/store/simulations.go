package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/forecast/internal/forecast"
)

// Simulation is a saved bundle simulation configuration.
type Simulation struct {
	ID          string `json:"id"`
	ScenarioID  string `json:"scenario_id"`
	Description string `json:"description"`
	forecast.BundleSimulation
	CreatedAt string `json:"created_at"`
}

// SaveSimulation stores a bundle simulation under scenarioID.
func (s *Store) SaveSimulation(ctx context.Context, scenarioID, description string, sim forecast.BundleSimulation) (Simulation, error) {
	if _, err := s.GetScenario(ctx, scenarioID); err != nil {
		return Simulation{}, err
	}

	bundle, err := json.Marshal(nonNilStrings(sim.BundleConfig))
	if err != nil {
		return Simulation{}, fmt.Errorf("encode bundle config: %w", err)
	}
	prices, err := json.Marshal(nonNilFloats(sim.AdjustedPrices))
	if err != nil {
		return Simulation{}, fmt.Errorf("encode adjusted prices: %w", err)
	}
	customers, err := json.Marshal(nonNilFloats(sim.AdjustedCustomers))
	if err != nil {
		return Simulation{}, fmt.Errorf("encode adjusted customers: %w", err)
	}

	id := newID()
	if _, err := s.db.ExecContext(ctx, s.Rebind(`
		INSERT INTO bundle_simulations (id, scenario_id, name, description, bundle_config, adjusted_plan_prices, adjusted_plan_customers)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, scenarioID, sim.Name, description, string(bundle), string(prices), string(customers)); err != nil {
		return Simulation{}, fmt.Errorf("insert simulation: %w", err)
	}
	return s.GetSimulation(ctx, scenarioID, id)
}

// ListSimulations returns the scenario's saved simulations, newest first.
func (s *Store) ListSimulations(ctx context.Context, scenarioID string) ([]Simulation, error) {
	rows, err := s.db.QueryContext(ctx, s.Rebind(`
		SELECT id, scenario_id, name, description, bundle_config, adjusted_plan_prices, adjusted_plan_customers, created_at
		FROM bundle_simulations
		WHERE scenario_id = ?
		ORDER BY created_at DESC, name
	`), scenarioID)
	if err != nil {
		return nil, fmt.Errorf("query simulations: %w", err)
	}
	defer rows.Close()

	sims := make([]Simulation, 0)
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulations: %w", err)
	}
	return sims, nil
}

// GetSimulation returns one saved simulation or ErrNotFound.
func (s *Store) GetSimulation(ctx context.Context, scenarioID, id string) (Simulation, error) {
	row := s.db.QueryRowContext(ctx, s.Rebind(`
		SELECT id, scenario_id, name, description, bundle_config, adjusted_plan_prices, adjusted_plan_customers, created_at
		FROM bundle_simulations
		WHERE scenario_id = ? AND id = ?
	`), scenarioID, id)
	sim, err := scanSimulation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Simulation{}, ErrNotFound
	}
	return sim, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSimulation(row rowScanner) (Simulation, error) {
	var (
		sim                       Simulation
		bundle, prices, customers string
	)
	if err := row.Scan(&sim.ID, &sim.ScenarioID, &sim.Name, &sim.Description, &bundle, &prices, &customers, &sim.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Simulation{}, err
		}
		return Simulation{}, fmt.Errorf("scan simulation: %w", err)
	}
	if err := json.Unmarshal([]byte(bundle), &sim.BundleConfig); err != nil {
		return Simulation{}, fmt.Errorf("decode bundle config of %s: %w", sim.ID, err)
	}
	if err := json.Unmarshal([]byte(prices), &sim.AdjustedPrices); err != nil {
		return Simulation{}, fmt.Errorf("decode adjusted prices of %s: %w", sim.ID, err)
	}
	if err := json.Unmarshal([]byte(customers), &sim.AdjustedCustomers); err != nil {
		return Simulation{}, fmt.Errorf("decode adjusted customers of %s: %w", sim.ID, err)
	}
	return sim, nil
}

func nonNilStrings(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}

func nonNilFloats(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
