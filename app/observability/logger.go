// Package observability wires logging, metrics and tracing for the service.
package observability

import (
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "survivor-pool"

// NewLogger returns the process logger. Development environments log at debug level.
func NewLogger(environment string) *slog.Logger {
	return newLogger(os.Stdout, environment)
}

func newLogger(w io.Writer, environment string) *slog.Logger {
	level := slog.LevelInfo
	if environment == "development" || environment == "test" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("service", ServiceName),
		slog.String("environment", environment),
	)
}

// Tracer returns a named tracer from the global provider.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(ServiceName + "/" + component)
}
