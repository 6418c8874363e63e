// Package runner executes selected scenarios on a bounded worker pool and
// hands the run summary to the configured sinks.
package runner

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"serverest-suite/internal/common/errors"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/common/metrics"
	"serverest-suite/internal/common/observability"
	"serverest-suite/internal/models"
	"serverest-suite/internal/report"
	"serverest-suite/internal/scenarios/suite"
	"serverest-suite/pkg/registry"
)

const msgFailFastSkip = "skipped after an earlier failure (fail-fast)"

type Options struct {
	Env             string
	BaseURL         string
	Parallelism     int
	FailFast        bool
	ScenarioTimeout time.Duration
	Catalog         *registry.Catalog
	Sinks           []report.Sink
	Observability   *observability.Observability
	Logger          logger.Logger
}

type Runner struct {
	session *suite.Session
	opts    Options
	logger  logger.Logger
}

func New(session *suite.Session, opts Options) *Runner {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.ScenarioTimeout <= 0 {
		opts.ScenarioTimeout = time.Minute
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{session: session, opts: opts, logger: log}
}

// Run executes scenarios and returns the summary with results in the given
// order. The returned error only reports sink failures; scenario failures are
// in the summary.
func (r *Runner) Run(ctx context.Context, scenarios []suite.Scenario) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:   uuid.New().String(),
		Env:     r.opts.Env,
		BaseURL: r.opts.BaseURL,
		Started: time.Now().UTC(),
		Results: make([]models.ScenarioResult, len(scenarios)),
	}
	log := r.logger.WithFields(map[string]interface{}{"runId": summary.RunID, "env": summary.Env})
	log.Info("Starting run", map[string]interface{}{
		"baseUrl":     summary.BaseURL,
		"scenarios":   len(scenarios),
		"parallelism": r.opts.Parallelism,
	})

	var stopped atomic.Bool
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.opts.Parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sc := scenarios[i]
				if stopped.Load() || ctx.Err() != nil {
					summary.Results[i] = skipped(sc, skipReason(ctx))
					continue
				}
				res := r.runOne(ctx, log, sc)
				summary.Results[i] = res
				if res.Status == models.StatusFailed && r.opts.FailFast {
					stopped.Store(true)
				}
			}
		}()
	}
	for i := range scenarios {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, res := range summary.Results {
		switch res.Status {
		case models.StatusPassed:
			summary.Passed++
		case models.StatusFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}
	summary.Finished = time.Now().UTC()

	log.Info("Run finished", map[string]interface{}{
		"passed":   summary.Passed,
		"failed":   summary.Failed,
		"skipped":  summary.Skipped,
		"duration": summary.Duration().String(),
	})

	// results are persisted even when the run itself was interrupted
	return summary, r.writeSinks(context.WithoutCancel(ctx), log, summary)
}

func (r *Runner) runOne(ctx context.Context, log logger.Logger, sc suite.Scenario) models.ScenarioResult {
	timeout := r.opts.Catalog.Timeout(sc.ID)
	if timeout <= 0 {
		timeout = r.opts.ScenarioTimeout
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	metrics.ScenariosActive.Inc()
	defer metrics.ScenariosActive.Dec()

	res := models.ScenarioResult{
		ID:      sc.ID,
		Suite:   sc.Suite,
		Name:    sc.Name,
		Tags:    sc.Tags,
		Started: time.Now().UTC(),
	}
	err := r.execute(sctx, sc)
	res.Duration = time.Since(res.Started)

	scLog := log.WithFields(map[string]interface{}{
		"scenario": sc.ID,
		"duration": res.Duration.String(),
	})
	if err != nil {
		stdErr := errors.Normalize(err)
		res.Status = models.StatusFailed
		res.ErrorCode = string(stdErr.Code)
		res.Message = err.Error()
		scLog.WithError(err).Warn("Scenario failed", map[string]interface{}{"errorCode": res.ErrorCode})
	} else {
		res.Status = models.StatusPassed
		scLog.Debug("Scenario passed", nil)
	}

	metrics.ObserveScenario(sc.Suite, err == nil, res.ErrorCode, res.Duration)
	r.opts.Observability.RecordScenario(ctx, sc.Suite, string(res.Status), res.Duration)
	return res
}

// execute runs the scenario, turning a panic into SCENARIO_PANIC.
func (r *Runner) execute(ctx context.Context, sc suite.Scenario) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.NewScenarioPanicError(sc.ID, rec)
		}
	}()
	if sc.Run == nil {
		return errors.NewScenarioNotFoundError(sc.ID)
	}
	return sc.Run(ctx, r.session)
}

func (r *Runner) writeSinks(ctx context.Context, log logger.Logger, summary *models.RunSummary) error {
	var errs []error
	for _, s := range r.opts.Sinks {
		if err := s.Write(ctx, summary); err != nil {
			log.WithError(err).Error("Writing results failed", map[string]interface{}{"sink": s.Name()})
			errs = append(errs, errors.NewSinkWriteFailedError(s.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}

func skipped(sc suite.Scenario, reason string) models.ScenarioResult {
	return models.ScenarioResult{
		ID:      sc.ID,
		Suite:   sc.Suite,
		Name:    sc.Name,
		Tags:    sc.Tags,
		Status:  models.StatusSkipped,
		Message: reason,
		Started: time.Now().UTC(),
	}
}

func skipReason(ctx context.Context) string {
	if ctx.Err() != nil {
		return "skipped: run cancelled"
	}
	return msgFailFastSkip
}
