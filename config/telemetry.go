package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const tracerShutdownTimeout = 5 * time.Second

// InitTracer traces submit actions and the outbound payment call to Jaeger.
// Every span carries the form deployment it came from, and trace context is
// propagated to the payment API on the outbound request. With telemetry
// disabled it installs nothing and returns a no-op shutdown.
func InitTracer(app *AppConfig, logger *slog.Logger) (func(), error) {
	cfg := app.Telemetry
	if cfg == nil || !cfg.Enabled {
		return func() {}, nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerURL)))
	if err != nil {
		return nil, fmt.Errorf("creating jaeger exporter for %s: %w", cfg.JaegerURL, err)
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(deploymentAttributes(app)...))
	if err != nil {
		return nil, fmt.Errorf("describing tracer resource: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("tracing enabled", "service", cfg.ServiceName, "collector", cfg.JaegerURL)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("flushing payment form traces", "error", err)
		}
	}, nil
}

func deploymentAttributes(app *AppConfig) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(app.Telemetry.ServiceName)}
	if app.Form != nil {
		attrs = append(attrs,
			attribute.String("payment_form.identifier_field", app.Form.IdentifierField),
			attribute.String("payment_form.endpoint_url", app.Form.EndpointURL),
		)
	}
	return attrs
}
