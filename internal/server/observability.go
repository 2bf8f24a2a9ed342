package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/observability/metrics"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/observability/tracer"
)

// ObservabilityShutdownFunc is the function type returned by InitObservability
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry and application metrics
func InitObservability(ctx context.Context, serviceName, otlpEndpoint string, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	otelShutdown, err := tracer.InitOtelProviders(ctx, serviceName, otlpEndpoint, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics.InitAppMetrics(logger)
	logger.Info("Observability initialized", zap.String("service", serviceName))

	return otelShutdown, nil
}
