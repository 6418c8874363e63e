package report

import (
	"context"
	"time"

	"serverest-suite/internal/common/database"
	"serverest-suite/internal/models"
)

type resultDocument struct {
	models.ScenarioResult
	RunID      string    `json:"runId"`
	Env        string    `json:"env"`
	BaseURL    string    `json:"baseUrl"`
	Timestamp  time.Time `json:"@timestamp"`
	DurationMs int64     `json:"durationMs"`
}

// ElasticsearchSink indexes one document per scenario result. Document ids are
// "<runId>-<scenarioId>", so re-sending a run overwrites instead of duplicating.
type ElasticsearchSink struct {
	es    *database.ElasticsearchClient
	index string
}

func NewElasticsearchSink(es *database.ElasticsearchClient, index string) *ElasticsearchSink {
	return &ElasticsearchSink{es: es, index: index}
}

func (s *ElasticsearchSink) Name() string {
	return "elasticsearch"
}

func (s *ElasticsearchSink) Write(ctx context.Context, summary *models.RunSummary) error {
	for _, r := range summary.Results {
		doc := resultDocument{
			ScenarioResult: r,
			RunID:          summary.RunID,
			Env:            summary.Env,
			BaseURL:        summary.BaseURL,
			Timestamp:      r.Started,
			DurationMs:     r.Duration.Milliseconds(),
		}
		if err := s.es.IndexDocument(ctx, s.index, summary.RunID+"-"+r.ID, doc); err != nil {
			return err
		}
	}
	return nil
}
