package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/pkg/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	assert.False(t, telemetry.Enabled())

	shutdown, err := telemetry.Setup(t.Context(), "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestEnabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://localhost:4317")

	assert.True(t, telemetry.Enabled())
}
