package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/forecast/internal/forecast"
	"github.com/Simplici0/forecast/internal/validation"
)

// decodeFile reads path into v. Files ending in .json are decoded as JSON,
// everything else as YAML.
func decodeFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// scenarioFile is the on-disk scenario: a name plus every forecast input.
type scenarioFile struct {
	Name              string `json:"name" yaml:"name"`
	forecast.Snapshot `yaml:",inline"`
}

func loadScenario(v *validator.Validate, path string) (scenarioFile, error) {
	var sf scenarioFile
	if err := decodeFile(path, &sf); err != nil {
		return scenarioFile{}, err
	}
	if err := validation.Snapshot(v, sf.Snapshot); err != nil {
		return scenarioFile{}, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	if sf.Name == "" {
		sf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sf, nil
}

func loadSimulation(v *validator.Validate, path string) (forecast.BundleSimulation, error) {
	var sim forecast.BundleSimulation
	if err := decodeFile(path, &sim); err != nil {
		return forecast.BundleSimulation{}, err
	}
	if err := validation.Struct(v, sim); err != nil {
		return forecast.BundleSimulation{}, fmt.Errorf("invalid simulation %s: %w", path, err)
	}
	return sim, nil
}

type commissionFile struct {
	Scenarios []forecast.CommissionScenario `json:"scenarios" yaml:"scenarios" validate:"omitempty,dive"`
}

func loadCommissions(v *validator.Validate, path string) ([]forecast.CommissionScenario, error) {
	var cf commissionFile
	if err := decodeFile(path, &cf); err != nil {
		return nil, err
	}
	if err := validation.Struct(v, cf); err != nil {
		return nil, fmt.Errorf("invalid commissions %s: %w", path, err)
	}
	return cf.Scenarios, nil
}
