package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Equal(t, noop.Meter{}, p.Meter("x"))
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "tesselate"})
	assert.Error(t, err)
}

func TestProvider_ExportsOnFlush(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	var buf bytes.Buffer
	p, err := New(Config{Enabled: true, ServiceName: "tesselate-test", MetricWriter: &buf})
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	counter, err := p.Meter("test").Int64Counter("test.moves")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Flush(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "test.moves")
	assert.Contains(t, out, "tesselate-test")

	global, err := otel.Meter("global").Int64Counter("test.global")
	require.NoError(t, err)
	global.Add(context.Background(), 1)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "test.global", "global meter provider is the installed one")
}

func TestNew_EnabledWithoutLogWriter(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	p, err := New(Config{Enabled: true, ServiceName: "tesselate", MetricWriter: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Nil(t, p.LoggerProvider(), "log pipeline needs a writer")
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_ExportsLogsOnFlush(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	var metrics, logs bytes.Buffer
	p, err := New(Config{
		Enabled:      true,
		ServiceName:  "tesselate-test",
		MetricWriter: &metrics,
		LogWriter:    &logs,
	})
	require.NoError(t, err)
	require.NotNil(t, p.LoggerProvider())

	var rec otellog.Record
	rec.SetBody(otellog.StringValue("triangle claimed"))
	rec.SetSeverity(otellog.SeverityInfo)
	p.LoggerProvider().Logger("test").Emit(context.Background(), rec)

	require.NoError(t, p.Flush(context.Background()))
	assert.Contains(t, logs.String(), "triangle claimed")
	assert.Contains(t, logs.String(), "tesselate-test")

	require.NoError(t, p.Shutdown(context.Background()))
}
