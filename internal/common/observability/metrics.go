package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter and tracer providers.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider shutdowner
	meter          otelmetric.Meter
	replyCounter   otelmetric.Int64Counter
	replyDuration  otelmetric.Float64Histogram
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// New wires the meter provider to the Prometheus exporter; when
// jaegerEndpoint is non-empty spans are exported there as well.
func New(serviceName, jaegerEndpoint string) (*Observability, error) {
	o := &Observability{}

	exporter, err := prometheus.New()
	if err != nil {
		return o, err
	}
	o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(o.meterProvider)

	o.meter = o.meterProvider.Meter(serviceName)
	o.replyCounter, _ = o.meter.Int64Counter(
		"chat.replies",
		otelmetric.WithDescription("Replies delivered by outcome"),
	)
	o.replyDuration, _ = o.meter.Float64Histogram(
		"chat.reply.duration",
		otelmetric.WithDescription("Pipeline duration per reply"),
		otelmetric.WithUnit("ms"),
	)

	if jaegerEndpoint != "" {
		tp, err := newTracerProvider(serviceName, jaegerEndpoint)
		if err != nil {
			return o, err
		}
		o.tracerProvider = tp
	}
	return o, nil
}

// RecordReply counts one delivered reply and its pipeline duration.
func (o *Observability) RecordReply(ctx context.Context, outcome string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("outcome", outcome))
	if o.replyCounter != nil {
		o.replyCounter.Add(ctx, 1, attrs)
	}
	if o.replyDuration != nil {
		o.replyDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
