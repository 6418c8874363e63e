// Package suite defines the scenario contract, the per-run session and the
// assertion helpers shared by every ServeRest test suite.
package suite

import (
	"context"
	"strings"
)

// Tags used across suites.
const (
	TagRegression = "@regression"
	TagSmoke      = "@smoke"
	TagAuth       = "@auth"
	TagWrite      = "@write"
)

// Scenario is one independent API test case.
type Scenario struct {
	ID    string
	Suite string
	Name  string
	Tags  []string
	Run   func(ctx context.Context, s *Session) error
}

// HasTag reports whether the scenario carries tag (with or without the leading @).
func (sc Scenario) HasTag(tag string) bool {
	tag = "@" + strings.TrimPrefix(tag, "@")
	for _, t := range sc.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags builds a tag list that always includes @regression.
func Tags(extra ...string) []string {
	return append([]string{TagRegression}, extra...)
}
