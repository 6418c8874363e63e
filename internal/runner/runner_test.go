package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serverest-suite/internal/common/config"
	"serverest-suite/internal/common/errors"
	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/models"
	"serverest-suite/internal/report"
	"serverest-suite/internal/scenarios"
	"serverest-suite/internal/scenarios/suite"
	"serverest-suite/internal/serverest"
	"serverest-suite/internal/serverest/fake"
	"serverest-suite/internal/session"
	"serverest-suite/pkg/registry"
)

func scenario(id string, run func(ctx context.Context, s *suite.Session) error) suite.Scenario {
	return suite.Scenario{ID: id, Suite: "stub", Name: id, Tags: suite.Tags(), Run: run}
}

func pass(context.Context, *suite.Session) error { return nil }

func fail(context.Context, *suite.Session) error {
	return errors.NewAssertionFailedError("expected %q", "x")
}

type recordingSink struct {
	calls   int32
	summary *models.RunSummary
	err     error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Write(_ context.Context, summary *models.RunSummary) error {
	atomic.AddInt32(&s.calls, 1)
	s.summary = summary
	return s.err
}

func TestRun_KeepsSelectionOrderAndCounts(t *testing.T) {
	var list []suite.Scenario
	for i := 0; i < 12; i++ {
		delay := time.Duration(12-i) * time.Millisecond
		run := pass
		if i%4 == 3 {
			run = fail
		}
		list = append(list, scenario(fmt.Sprintf("stub.ct%02d", i), func(ctx context.Context, s *suite.Session) error {
			time.Sleep(delay)
			return run(ctx, s)
		}))
	}

	sink := &recordingSink{}
	r := New(nil, Options{Env: "dev", BaseURL: "http://localhost:3000", Parallelism: 4, Sinks: []report.Sink{sink}, Logger: logger.NewTestLogger(t)})
	summary, err := r.Run(context.Background(), list)
	require.NoError(t, err)

	require.Len(t, summary.Results, 12)
	for i, res := range summary.Results {
		assert.Equal(t, fmt.Sprintf("stub.ct%02d", i), res.ID)
		assert.Positive(t, res.Duration)
	}
	assert.Equal(t, 9, summary.Passed)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, string(errors.ErrCodeAssertionFailed), summary.Results[3].ErrorCode)
	assert.Contains(t, summary.Results[3].Message, `expected "x"`)
	assert.False(t, summary.Succeeded())

	assert.Len(t, summary.RunID, 36)
	assert.Equal(t, "dev", summary.Env)
	assert.False(t, summary.Finished.Before(summary.Started))
	assert.Equal(t, int32(1), atomic.LoadInt32(&sink.calls))
	assert.Same(t, summary, sink.summary)
}

func TestRun_RespectsParallelism(t *testing.T) {
	var active, peak int32
	run := func(context.Context, *suite.Session) error {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	}
	var list []suite.Scenario
	for i := 0; i < 10; i++ {
		list = append(list, scenario(fmt.Sprintf("p.%d", i), run))
	}

	_, err := New(nil, Options{Parallelism: 2}).Run(context.Background(), list)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRun_PanicAndMissingRun(t *testing.T) {
	list := []suite.Scenario{
		scenario("stub.panic", func(context.Context, *suite.Session) error { panic("nil map") }),
		{ID: "stub.empty", Suite: "stub"},
		scenario("stub.ok", pass),
	}
	summary, err := New(nil, Options{Parallelism: 2}).Run(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, models.StatusFailed, summary.Results[0].Status)
	assert.Equal(t, string(errors.ErrCodeScenarioPanic), summary.Results[0].ErrorCode)
	assert.Contains(t, summary.Results[0].Message, "nil map")
	assert.Equal(t, string(errors.ErrCodeScenarioNotFound), summary.Results[1].ErrorCode)
	assert.Equal(t, models.StatusPassed, summary.Results[2].Status)
}

func TestRun_CatalogTimeoutOverridesDefault(t *testing.T) {
	slow := scenario("stub.slow", func(ctx context.Context, _ *suite.Session) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})
	cat := &registry.Catalog{Scenarios: []registry.Entry{{ID: "stub.slow", Timeout: "30ms"}}}

	start := time.Now()
	summary, err := New(nil, Options{ScenarioTimeout: time.Minute, Catalog: cat}).Run(context.Background(), []suite.Scenario{slow})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, string(errors.ErrCodeRequestTimeout), summary.Results[0].ErrorCode)
}

func TestRun_FailFastSkipsRemaining(t *testing.T) {
	var ran int32
	counting := func(ctx context.Context, s *suite.Session) error {
		atomic.AddInt32(&ran, 1)
		return nil
	}
	list := []suite.Scenario{
		scenario("ff.1", fail),
		scenario("ff.2", counting),
		scenario("ff.3", counting),
	}

	summary, err := New(nil, Options{Parallelism: 1, FailFast: true}).Run(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
	assert.Equal(t, msgFailFastSkip, summary.Results[1].Message)
}

func TestRun_CancelledContextSkipsEverything(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	summary, err := New(nil, Options{Sinks: []report.Sink{sink}}).Run(ctx, []suite.Scenario{scenario("c.1", pass), scenario("c.2", pass)})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, "skipped: run cancelled", summary.Results[0].Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&sink.calls))
}

func TestRun_SinkErrorsAreJoined(t *testing.T) {
	boom := stderrors.New("disk full")
	bad := &recordingSink{err: boom}
	good := &recordingSink{}

	summary, err := New(nil, Options{Sinks: []report.Sink{bad, good}}).Run(context.Background(), []suite.Scenario{scenario("s.1", pass)})
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.ErrorIs(t, err, boom)
	assert.True(t, errors.Is(err, errors.ErrCodeSinkWriteFailed))
	assert.Equal(t, int32(1), atomic.LoadInt32(&good.calls))
}

func TestRun_AgainstFakeServeRest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)
	srv := httptest.NewServer(fake.New(log).Handler())
	defer srv.Close()

	env := config.Environment{BaseURL: srv.URL, Timeout: config.DefaultTimeout}
	api := serverest.New(commonhttp.NewClient(env, commonhttp.Options{Logger: log}))
	sess := suite.NewSession(api, log, session.NewMemoryCache(time.Minute), "SenhaSegura@123")

	selected := registry.Select(scenarios.All(), registry.ParseTags("@smoke"), nil)
	require.NotEmpty(t, selected)

	summary, err := New(sess, Options{Env: "test", BaseURL: srv.URL, Parallelism: 4, Logger: log}).Run(context.Background(), selected)
	require.NoError(t, err)
	assert.Equal(t, len(selected), summary.Passed, "%+v", summary.Results)
}
