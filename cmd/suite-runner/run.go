package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"serverest-suite/internal/common/aws"
	"serverest-suite/internal/common/config"
	"serverest-suite/internal/common/database"
	commonhttp "serverest-suite/internal/common/http"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/common/observability"
	"serverest-suite/internal/models"
	"serverest-suite/internal/notify"
	"serverest-suite/internal/report"
	"serverest-suite/internal/runner"
	"serverest-suite/internal/scenarios"
	"serverest-suite/internal/scenarios/suite"
	"serverest-suite/internal/serverest"
	"serverest-suite/internal/session"
	"serverest-suite/pkg/registry"
)

// errRunFailed makes the process exit 1 without printing an extra error.
var errRunFailed = errors.New("one or more scenarios failed")

type runOptions struct {
	tags        []string
	parallel    int
	failFast    bool
	reportDir   string
	metricsAddr string
}

func newRunCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the selected scenarios and write reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("parallel") {
				cfg.Runner.Parallelism = opts.parallel
			}
			if flags.Changed("fail-fast") {
				cfg.Runner.FailFast = opts.failFast
			}
			if flags.Changed("report-dir") {
				cfg.Runner.ReportDir = opts.reportDir
			}
			if cfg.Runner.Parallelism < 1 {
				return fmt.Errorf("--parallel must be at least 1")
			}
			return runSuite(cmd, cfg, tagExpression(cmd, cfg, opts.tags), opts.metricsAddr)
		},
	}
	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, `tag expression, e.g. "@smoke,~@write"`)
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "number of concurrent scenarios (default: runner.parallelism)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "skip remaining scenarios after the first failure")
	cmd.Flags().StringVar(&opts.reportDir, "report-dir", "", "directory for junit.xml and summary.json")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics and /health on this address while running, e.g. :9090")
	return cmd
}

func runSuite(cmd *cobra.Command, cfg *config.Config, expr registry.TagExpression, metricsAddr string) error {
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	if metricsAddr != "" {
		srv := startMetricsServer(metricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	selected := registry.Select(scenarios.All(), expr, cat)
	if len(selected) == 0 {
		return fmt.Errorf("no scenarios match %q", expr.String())
	}

	tokens, closeTokens := tokenCache(ctx, cfg, log)
	defer closeTokens()

	transport := commonhttp.NewClient(cfg.Target, commonhttp.OptionsFromConfig(cfg.HTTP, log))
	sess := suite.NewSession(serverest.New(transport), log, tokens, cfg.Runner.DefaultPassword)

	sinks, closeSinks, err := buildSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	r := runner.New(sess, runner.Options{
		Env:             cfg.Env,
		BaseURL:         cfg.Target.BaseURL,
		Parallelism:     cfg.Runner.Parallelism,
		FailFast:        cfg.Runner.FailFast,
		ScenarioTimeout: cfg.ScenarioTimeout(),
		Catalog:         cat,
		Sinks:           sinks,
		Observability:   obs,
		Logger:          log,
	})
	summary, sinkErr := r.Run(ctx, selected)
	if sinkErr != nil {
		log.WithError(sinkErr).Warn("Some result sinks failed", nil)
	}

	printSummary(cmd.OutOrStdout(), summary)
	if !summary.Succeeded() {
		return errRunFailed
	}
	return nil
}

func startMetricsServer(addr string, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", map[string]interface{}{"error": err.Error(), "addr": addr})
		}
	}()
	log.Info("Metrics server listening", map[string]interface{}{"addr": addr})
	return srv
}

// tokenCache uses Redis when enabled and reachable, memory otherwise.
func tokenCache(ctx context.Context, cfg *config.Config, log logger.Logger) (session.TokenCache, func()) {
	ttl := time.Duration(cfg.Redis.TokenTTL) * time.Second
	if !cfg.Redis.Enabled {
		return session.NewMemoryCache(ttl), func() {}
	}
	rdb := database.NewRedis(cfg.Redis)
	if err := retryWithBackoff(ctx, func() error { return rdb.Ping(ctx) }, 3, 500*time.Millisecond, log, "Redis connection"); err != nil {
		log.Warn("Redis unavailable, caching tokens in memory", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return session.NewMemoryCache(ttl), func() {}
	}
	return session.NewRedisCache(rdb, ttl), func() { _ = rdb.Close() }
}

func buildSinks(ctx context.Context, cfg *config.Config, log logger.Logger) ([]report.Sink, func(), error) {
	sinks, err := report.FileSinks(cfg.Runner.ReportDir, cfg.Runner.ReportFormats)
	if err != nil {
		return nil, nil, err
	}
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(ctx, func() error {
			var err error
			if pg == nil {
				if pg, err = database.NewPostgres(cfg.Postgres); err != nil {
					return err
				}
			}
			return pg.Ping(ctx)
		}, 5, time.Second, log, "PostgreSQL connection")
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("postgres history: %w", err)
		}
		closers = append(closers, func() { _ = pg.Close() })

		pgSink := report.NewPostgresSink(pg)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, pgSink)
	}

	if cfg.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Elasticsearch)
		if err == nil {
			err = retryWithBackoff(ctx, func() error { return es.Ping(ctx) }, 5, time.Second, log, "Elasticsearch connection")
		}
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("elasticsearch history: %w", err)
		}
		sinks = append(sinks, report.NewElasticsearchSink(es, cfg.Elasticsearch.Index))
	}

	n := cfg.Notifications
	if n.SNS.Enabled || n.SES.Enabled {
		var (
			publisher notify.Publisher
			mailer    notify.Mailer
		)
		if n.SNS.Enabled {
			c, err := aws.NewSNSClient(ctx, n.Region)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("sns client: %w", err)
			}
			publisher = c
		}
		if n.SES.Enabled {
			c, err := aws.NewSESClient(ctx, n.Region)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("ses client: %w", err)
			}
			mailer = c
		}
		sinks = append(sinks, notify.New(n, publisher, mailer, log))
	}

	return sinks, closeAll, nil
}

// retryWithBackoff retries operation with exponential backoff, giving up early
// when ctx is done.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func printSummary(w io.Writer, summary *models.RunSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUITE\tPASSED\tFAILED\tSKIPPED")
	bySuite := summary.BySuite()
	seen := make(map[string]bool)
	for _, r := range summary.Results {
		if seen[r.Suite] {
			continue
		}
		seen[r.Suite] = true
		var p, f, s int
		for _, res := range bySuite[r.Suite] {
			switch res.Status {
			case models.StatusPassed:
				p++
			case models.StatusFailed:
				f++
			default:
				s++
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Suite, p, f, s)
	}
	_ = tw.Flush()

	for _, r := range summary.Results {
		if r.Status == models.StatusFailed {
			fmt.Fprintf(w, "FAIL %s %s [%s]\n     %s\n", r.ID, r.Name, r.ErrorCode, strings.ReplaceAll(r.Message, "\n", " "))
		}
	}
	fmt.Fprintf(w, "\nrun %s against %s: %d passed, %d failed, %d skipped in %s\n",
		summary.RunID, summary.BaseURL, summary.Passed, summary.Failed, summary.Skipped,
		summary.Duration().Round(time.Millisecond))
}
