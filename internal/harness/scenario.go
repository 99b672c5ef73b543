package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance case: a circuit, optional settings, and the
// properties its compiled plan must have.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Circuit is the path of the circuit file.
	Circuit string `yaml:"circuit"`

	// Config is the optional path of a YAML or CUE settings file.
	Config string `yaml:"config,omitempty"`

	// Assertions validate the compiled plan.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion is one property of the compiled plan.
type Assertion struct {
	// Type selects the check; see the Assert constants.
	Type string `yaml:"type"`

	// Count is used by epr_count, max_epr and block_count.
	Count int `yaml:"count,omitempty"`

	// Max is used by max_latency.
	Max float64 `yaml:"max,omitempty"`

	// Protocols is used by protocols.
	Protocols []string `yaml:"protocols,omitempty"`
}

// Assertion type constants.
const (
	AssertEPRCount   = "epr_count"
	AssertMaxEPR     = "max_epr"
	AssertBlockCount = "block_count"
	AssertProtocols  = "protocols"
	AssertMaxLatency = "max_latency"
	AssertEquivalent = "equivalent"
	AssertLoweredEPR = "lowered_epr"
)

// LoadScenario reads and parses a scenario YAML file, resolving circuit
// and config paths against the file's directory. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Circuit != "" && !filepath.IsAbs(scenario.Circuit) {
		scenario.Circuit = filepath.Join(base, scenario.Circuit)
	}
	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(base, scenario.Config)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Circuit == "" {
		return fmt.Errorf("circuit is required")
	}
	if _, err := os.Stat(s.Circuit); os.IsNotExist(err) {
		return fmt.Errorf("circuit file not found: %s", s.Circuit)
	}
	if s.Config != "" {
		if _, err := os.Stat(s.Config); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", s.Config)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEPRCount, AssertMaxEPR, AssertBlockCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertProtocols:
		for _, p := range a.Protocols {
			if p != "cat" && p != "teleport" {
				return fmt.Errorf("assertions[%d]: unknown protocol %q", index, p)
			}
		}
	case AssertMaxLatency:
		if a.Max <= 0 {
			return fmt.Errorf("assertions[%d]: max must be positive for max_latency", index)
		}
	case AssertEquivalent, AssertLoweredEPR:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
