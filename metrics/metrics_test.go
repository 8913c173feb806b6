package metrics_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlspec/metrics"
	"github.com/katalvlaran/lvlspec/pipeline"
)

func TestCollector_Observes(t *testing.T) {
	c := metrics.New()
	c.StepDone(3, 20*time.Millisecond, &pipeline.StepResult{KLPooled: 0.25, KLPerSample: 0.5, MeanToll: 0.1})
	c.StepFailed(4, time.Millisecond, pipeline.KindMissingStepData)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.StepsTotal.WithLabelValues("ok", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StepsTotal.WithLabelValues("failed", "missing step data")))
	assert.Equal(t, 0.25, testutil.ToFloat64(c.KLPooled))
	assert.Equal(t, 0.5, testutil.ToFloat64(c.KLPerSample))
	assert.Equal(t, 0.1, testutil.ToFloat64(c.MeanToll))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.LastStep))
	assert.Equal(t, 1, testutil.CollectAndCount(c.StepDuration))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.LastStep.Set(7)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.LastStep))
}

func TestCollector_Exposition(t *testing.T) {
	c := metrics.New()
	c.KLPooled.Set(0.125)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "lvlspec_kl_pooled 0.125")

	path := filepath.Join(t.TempDir(), "lvlspec.prom")
	require.NoError(t, c.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "lvlspec_kl_pooled 0.125"))
}
