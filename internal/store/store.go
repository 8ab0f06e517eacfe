package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/forecast/internal/forecast"
)

// ErrNotFound is returned when a scenario or simulation does not exist.
var ErrNotFound = errors.New("not found")

// Store persists scenarios and their forecast inputs.
type Store struct {
	db       *sql.DB
	postgres bool
}

// New wraps db. driver selects the placeholder style ("postgres" uses $n).
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, postgres: driver == "postgres"}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Scenario is one named set of forecast inputs.
type Scenario struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	CapitalExpenditure float64 `json:"capital_expenditure"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// Rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (s *Store) Rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newID() string {
	return uuid.NewString()
}

// ListScenarios returns all scenarios, most recently updated first.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, capital_expenditure, created_at, updated_at
		FROM forecast_scenarios
		ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := make([]Scenario, 0)
	for rows.Next() {
		var sc Scenario
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CapitalExpenditure, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return scenarios, nil
}

// GetScenario returns the scenario with id or ErrNotFound.
func (s *Store) GetScenario(ctx context.Context, id string) (Scenario, error) {
	var sc Scenario
	err := s.db.QueryRowContext(ctx, s.Rebind(`
		SELECT id, name, capital_expenditure, created_at, updated_at
		FROM forecast_scenarios
		WHERE id = ?
	`), id).Scan(&sc.ID, &sc.Name, &sc.CapitalExpenditure, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Scenario{}, ErrNotFound
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("query scenario %s: %w", id, err)
	}
	return sc, nil
}

// CreateScenario inserts an empty scenario.
func (s *Store) CreateScenario(ctx context.Context, name string, capitalExpenditure float64) (Scenario, error) {
	id := newID()
	if _, err := s.db.ExecContext(ctx, s.Rebind(`
		INSERT INTO forecast_scenarios (id, name, capital_expenditure)
		VALUES (?, ?, ?)
	`), id, name, capitalExpenditure); err != nil {
		return Scenario{}, fmt.Errorf("insert scenario: %w", err)
	}
	return s.GetScenario(ctx, id)
}

// UpdateScenario renames a scenario and sets its capital expenditure.
func (s *Store) UpdateScenario(ctx context.Context, id, name string, capitalExpenditure float64) (Scenario, error) {
	res, err := s.db.ExecContext(ctx, s.Rebind(`
		UPDATE forecast_scenarios
		SET name = ?, capital_expenditure = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`), name, capitalExpenditure, id)
	if err != nil {
		return Scenario{}, fmt.Errorf("update scenario %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Scenario{}, ErrNotFound
	}
	return s.GetScenario(ctx, id)
}

// DeleteScenario removes a scenario. Its rows and saved simulations go with it.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.Rebind(`DELETE FROM forecast_scenarios WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete scenario %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadSnapshot reads every input of a scenario in one pass.
func (s *Store) LoadSnapshot(ctx context.Context, scenarioID string) (forecast.Snapshot, error) {
	sc, err := s.GetScenario(ctx, scenarioID)
	if err != nil {
		return forecast.Snapshot{}, err
	}

	snap := forecast.Snapshot{CapitalExpenditure: sc.CapitalExpenditure}
	if snap.Plans, err = s.Plans(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.AddOns, err = s.AddOns(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.OperatingCosts, err = s.OperatingCosts(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.MarketingCosts, err = s.MarketingCosts(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.TechSupport, err = s.TechSupport(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.PlanAddons, err = s.PlanAddons(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.SurgicalTiers, err = s.SurgicalTiers(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.SurgicalExtras, err = s.SurgicalExtras(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	if snap.Onboarding, err = s.Onboarding(ctx, scenarioID); err != nil {
		return forecast.Snapshot{}, err
	}
	return snap, nil
}

// replace deletes every row of table owned by scenarioID and calls insert
// within the same transaction. The scenario's updated_at is touched.
func (s *Store) replace(ctx context.Context, table, scenarioID string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.Rebind(`UPDATE forecast_scenarios SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`), scenarioID)
	if err != nil {
		return fmt.Errorf("touch scenario %s: %w", scenarioID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, s.Rebind(`DELETE FROM `+table+` WHERE scenario_id = ?`), scenarioID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s transaction: %w", table, err)
	}
	return nil
}
