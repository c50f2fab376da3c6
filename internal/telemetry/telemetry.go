// Package telemetry provides OpenTelemetry meter access for the core.
// The core records against the global provider; exporter wiring belongs to
// the hosting process, and with no provider installed every instrument is a
// no-op.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationScope = "github.com/lodestar-dev/lodestar"

// Meter returns a meter for the given instrumentation scope, defaulting to
// the module scope.
func Meter(name string) metric.Meter {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Meter(name)
}
