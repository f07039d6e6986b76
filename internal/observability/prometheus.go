package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"fitcheck/internal/errors"
)

// SetupPrometheusExporter creates a Prometheus metric reader for the
// meter provider.
func SetupPrometheusExporter() (sdkmetric.Reader, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create Prometheus exporter", err)
	}
	return exporter, nil
}

// StartPrometheusServer serves /metrics on its own port.
func StartPrometheusServer(port int, logger *errors.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Prometheus metrics server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError(err, "Prometheus metrics server failed")
		}
	}()

	return server
}
