package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/apriori/internal/dataset"
)

// Scenario defines one mining run and what its result must look like.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID fixes the run identifier. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Dataset is the input table, inline or as an ARFF file.
	Dataset DatasetSpec `yaml:"dataset"`

	// Missing selects missing-value handling: drop, fill or keep.
	Missing string `yaml:"missing,omitempty"`

	// Bin maps numeric attribute names to range widths.
	Bin map[string]int `yaml:"bin,omitempty"`

	// Thresholds configures the miner.
	Thresholds ThresholdSpec `yaml:"thresholds"`

	// Assertions validate the outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// DatasetSpec is either an ARFF path or an inline table.
type DatasetSpec struct {
	// ARFF is resolved relative to the scenario file.
	ARFF string `yaml:"arff,omitempty"`

	Relation   string          `yaml:"relation,omitempty"`
	Attributes []AttributeSpec `yaml:"attributes,omitempty"`
	Rows       [][]string      `yaml:"rows,omitempty"`
}

// AttributeSpec declares one inline attribute.
// An attribute without values is numeric.
type AttributeSpec struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values,omitempty"`
}

// ThresholdSpec configures support and confidence.
type ThresholdSpec struct {
	Support          float64 `yaml:"support"`
	Confidence       float64 `yaml:"confidence"`
	FilterSupport    *bool   `yaml:"filter_support,omitempty"`
	FilterConfidence *bool   `yaml:"filter_confidence,omitempty"`
}

// Assertion validates part of a scenario's outcome.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Item is a level-1 item text (item, absent).
	Item string `yaml:"item,omitempty"`

	// Items is an itemset in rule order (itemset, absent).
	Items []string `yaml:"items,omitempty"`

	// Count is the expected support count (item, itemset).
	Count *int `yaml:"count,omitempty"`

	// Confidence is the expected confidence ratio (itemset).
	Confidence *float64 `yaml:"confidence,omitempty"`

	// Value is the expected number (cycles, remaining_rows).
	Value *int `yaml:"value,omitempty"`

	// Code is the expected mining error code (error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertCycles        = "cycles"
	AssertItem          = "item"
	AssertItemset       = "itemset"
	AssertAbsent        = "absent"
	AssertRemainingRows = "remaining_rows"
	AssertError         = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected and a relative ARFF path is resolved against
// the scenario's directory.
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

	if a := scenario.Dataset.ARFF; a != "" && !filepath.IsAbs(a) {
		scenario.Dataset.ARFF = filepath.Join(filepath.Dir(path), a)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	d := s.Dataset
	inline := len(d.Attributes) > 0
	switch {
	case d.ARFF != "" && inline:
		return fmt.Errorf("dataset: use either arff or inline attributes, not both")
	case d.ARFF != "":
		if _, err := os.Stat(d.ARFF); err != nil {
			return fmt.Errorf("dataset: arff file not found: %s", d.ARFF)
		}
	case !inline:
		return fmt.Errorf("dataset: arff or attributes is required")
	}
	for i, a := range d.Attributes {
		if a.Name == "" {
			return fmt.Errorf("dataset.attributes[%d]: name is required", i)
		}
	}

	if _, err := dataset.ParseMissingMode(s.Missing); err != nil {
		return fmt.Errorf("missing: %w", err)
	}
	for name, step := range s.Bin {
		if step <= 0 {
			return fmt.Errorf("bin.%s: width must be positive", name)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCycles, AssertRemainingRows:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertItem:
		if a.Item == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: item and count are required for item", index)
		}
	case AssertItemset:
		if len(a.Items) < 2 {
			return fmt.Errorf("assertions[%d]: itemset needs at least 2 items", index)
		}
		if a.Count == nil && a.Confidence == nil {
			return fmt.Errorf("assertions[%d]: itemset needs count or confidence", index)
		}
	case AssertAbsent:
		if a.Item == "" && len(a.Items) == 0 {
			return fmt.Errorf("assertions[%d]: item or items is required for absent", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
