// Package observability exposes scenario instruments through an OpenTelemetry
// meter backed by the Prometheus exporter.
package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"serverest-suite/internal/common/logger"
)

type Observability struct {
	meterProvider    *metric.MeterProvider
	meter            otelmetric.Meter
	scenarioCounter  otelmetric.Int64Counter
	scenarioDuration otelmetric.Float64Histogram
}

// New registers the exporter with the default Prometheus registerer.
func New(serviceName string, log logger.Logger) *Observability {
	return NewWithRegisterer(serviceName, promclient.DefaultRegisterer, log)
}

// NewWithRegisterer is New with an explicit registerer. When the exporter
// cannot be created the returned value records nothing.
func NewWithRegisterer(serviceName string, reg promclient.Registerer, log logger.Logger) *Observability {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	scenarioCounter, _ := meter.Int64Counter(
		"scenarios_executed",
		otelmetric.WithDescription("Number of scenarios executed"),
	)

	scenarioDuration, _ := meter.Float64Histogram(
		"scenarios_duration",
		otelmetric.WithDescription("Scenario execution duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:    provider,
		meter:            meter,
		scenarioCounter:  scenarioCounter,
		scenarioDuration: scenarioDuration,
	}
}

func (o *Observability) RecordScenario(ctx context.Context, suite, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("suite", suite),
		attribute.String("status", status),
	)
	if o.scenarioCounter != nil {
		o.scenarioCounter.Add(ctx, 1, attrs)
	}
	if o.scenarioDuration != nil {
		o.scenarioDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
