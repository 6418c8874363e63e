package models

import "time"

// ScenarioStatus is the outcome of one scenario.
type ScenarioStatus string

const (
	StatusPassed  ScenarioStatus = "passed"
	StatusFailed  ScenarioStatus = "failed"
	StatusSkipped ScenarioStatus = "skipped"
)

// ScenarioResult records one scenario execution.
type ScenarioResult struct {
	ID        string         `json:"id"`
	Suite     string         `json:"suite"`
	Name      string         `json:"name"`
	Tags      []string       `json:"tags,omitempty"`
	Status    ScenarioStatus `json:"status"`
	ErrorCode string         `json:"errorCode,omitempty"`
	Message   string         `json:"message,omitempty"`
	Started   time.Time      `json:"started"`
	Duration  time.Duration  `json:"duration"`
}

// RunSummary aggregates a suite run.
type RunSummary struct {
	RunID    string           `json:"runId"`
	Env      string           `json:"env"`
	BaseURL  string           `json:"baseUrl"`
	Started  time.Time        `json:"started"`
	Finished time.Time        `json:"finished"`
	Passed   int              `json:"passed"`
	Failed   int              `json:"failed"`
	Skipped  int              `json:"skipped"`
	Results  []ScenarioResult `json:"results"`
}

// Total is the number of scenarios in the run.
func (s RunSummary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Succeeded reports whether no scenario failed.
func (s RunSummary) Succeeded() bool {
	return s.Failed == 0
}

// Duration is the wall-clock time of the run.
func (s RunSummary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// BySuite groups results by suite name, keeping run order inside each suite.
func (s RunSummary) BySuite() map[string][]ScenarioResult {
	out := make(map[string][]ScenarioResult)
	for _, r := range s.Results {
		out[r.Suite] = append(out[r.Suite], r)
	}
	return out
}
