package tracing

import (
	"bytes"
	"context"
	"testing"

	"ranking/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupNone(t *testing.T) {
	shutdown, err := setup(config.TraceConfig{Exporter: "none"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupUnknownExporter(t *testing.T) {
	_, err := setup(config.TraceConfig{Exporter: "zipkin"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

func TestSetupStdoutExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	shutdown, err := setup(config.TraceConfig{Exporter: "stdout", SampleRatio: 1}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("ranking").Start(context.Background(), "ranking.Run")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "ranking.Run")
	assert.Contains(t, buf.String(), ServiceName)
}
