// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"serverest-suite/internal/scenarios/suite"
)

const CatalogVersion = "1.0"

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for _, e := range cat.Scenarios {
		if e.Timeout == "" {
			continue
		}
		d, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %s: invalid timeout %q", e.ID, e.Timeout)
		}
		if d < 0 {
			return nil, fmt.Errorf("catalog entry %s: negative timeout %q", e.ID, e.Timeout)
		}
	}
	return &cat, nil
}

// Save writes the catalog as indented JSON.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// FromScenarios builds a catalog listing every registered scenario.
// Entries already present in prev keep their Enabled, Timeout and extra tags.
func FromScenarios(scenarios []suite.Scenario, prev *Catalog) *Catalog {
	cat := &Catalog{
		Version:     CatalogVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Scenarios:   make([]Entry, 0, len(scenarios)),
	}
	for _, sc := range scenarios {
		entry := Entry{ID: sc.ID, DisplayName: sc.Name, Suite: sc.Suite}
		if old, ok := prev.Lookup(sc.ID); ok {
			entry.Enabled = old.Enabled
			entry.Timeout = old.Timeout
			entry.Tags = old.Tags
		}
		cat.Scenarios = append(cat.Scenarios, entry)
	}
	return cat
}

// Select keeps, in order, the scenarios the catalog does not disable and
// whose tags (code tags plus catalog tags) satisfy expr.
func Select(scenarios []suite.Scenario, expr TagExpression, cat *Catalog) []suite.Scenario {
	var out []suite.Scenario
	for _, sc := range scenarios {
		tags := sc.Tags
		if e, ok := cat.Lookup(sc.ID); ok {
			if !e.IsEnabled() {
				continue
			}
			tags = append(append([]string{}, sc.Tags...), normalizeAll(e.Tags)...)
		}
		if expr.Matches(tags) {
			out = append(out, sc)
		}
	}
	return out
}
