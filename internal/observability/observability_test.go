package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	jobs := NewJobLogger(logger, "describe")

	done := jobs.Start(context.Background(), slog.String("prompt_id", "p1"))
	done(nil)
	assert.Contains(t, buf.String(), "background job completed")
	assert.Contains(t, buf.String(), "prompt_id=p1")

	buf.Reset()
	jobs.Start(context.Background())(errors.New("upstream down"))
	assert.Contains(t, buf.String(), "background job failed")
	assert.Contains(t, buf.String(), "upstream down")
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordHelpers(t *testing.T) {
	before := counterValue(t, PromptInteractions.WithLabelValues("view", "true"))
	RecordInteraction("view", true)
	assert.Equal(t, before+1, counterValue(t, PromptInteractions.WithLabelValues("view", "true")))

	added := counterValue(t, FavoriteToggles.WithLabelValues("added"))
	RecordFavoriteToggle(true)
	assert.Equal(t, added+1, counterValue(t, FavoriteToggles.WithLabelValues("added")))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "test", "noop")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
}
