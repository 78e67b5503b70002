package service

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"depot_dispatch_backend/internal/dispatch/domain"
)

//go:embed reasons.yaml
var defaultReasonsYAML []byte

// Reason is one categorical reason code a dispatcher can attach to an action.
type Reason struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// ReasonCatalog holds the selectable reason codes per workflow action.
type ReasonCatalog struct {
	Actions map[string][]Reason `yaml:"actions"`
}

// LoadReasonCatalog parses a reason catalog from YAML.
func LoadReasonCatalog(data []byte) (*ReasonCatalog, error) {
	var catalog ReasonCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse reason catalog: %w", err)
	}
	if len(catalog.Actions) == 0 {
		return nil, fmt.Errorf("reason catalog defines no actions")
	}
	return &catalog, nil
}

// DefaultReasonCatalog returns the embedded catalog.
func DefaultReasonCatalog() *ReasonCatalog {
	catalog, err := LoadReasonCatalog(defaultReasonsYAML)
	if err != nil {
		// The embedded catalog is part of the build; failing to parse it is
		// a programming error.
		panic(err)
	}
	return catalog
}

// Valid reports whether the code is selectable for the action.
func (c *ReasonCatalog) Valid(action domain.Action, code string) bool {
	for _, reason := range c.Actions[string(action)] {
		if reason.Code == code {
			return true
		}
	}
	return false
}

// For returns the reasons for an action.
func (c *ReasonCatalog) For(action domain.Action) []Reason {
	reasons := c.Actions[string(action)]
	result := make([]Reason, len(reasons))
	copy(result, reasons)
	return result
}
