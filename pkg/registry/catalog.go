// pkg/registry/catalog.go
package registry

import "time"

// Catalog is the on-disk scenario catalog. It lets a team disable flaky
// scenarios, attach extra tags or give a slow scenario more time without
// touching code.
type Catalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Scenarios   []Entry `json:"scenarios"`
}

type Entry struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Suite       string   `json:"suite"`
	Tags        []string `json:"tags,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	Timeout     string   `json:"timeout,omitempty"` // Go duration, e.g. "45s"
}

// IsEnabled defaults to true when the entry does not say otherwise.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// TimeoutDuration parses Timeout, returning 0 when unset or malformed.
func (e Entry) TimeoutDuration() time.Duration {
	if e.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Lookup finds the entry for a scenario id. A nil catalog has no entries.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	for _, e := range c.Scenarios {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Timeout returns the catalog timeout for id, or 0.
func (c *Catalog) Timeout(id string) time.Duration {
	e, ok := c.Lookup(id)
	if !ok {
		return 0
	}
	return e.TimeoutDuration()
}
