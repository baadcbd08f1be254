package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.AnalysesTotal)
	assert.NotNil(t, r.EnrichLookupsTotal)
	assert.NotNil(t, r.ImportRowsTotal)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordAnalysis(t *testing.T) {
	r := NewRegistry()
	r.RecordAnalysis("textile", "small", 2*time.Millisecond)
	r.RecordAnalysis("textile", "small", time.Millisecond)
	r.RecordAnalysisError("validation")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.AnalysesTotal.WithLabelValues("textile", "small")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AnalysisErrors.WithLabelValues("validation")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.AnalysisDuration))
}

func TestRecordLookup(t *testing.T) {
	r := NewRegistry()
	r.RecordLookup("ok", 3)
	r.RecordLookup("timeout", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.EnrichLookupsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.EnrichLookupsTotal.WithLabelValues("timeout")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.EnrichSuppliersTotal))
}

func TestRecordImport(t *testing.T) {
	r := NewRegistry()
	r.RecordImport(5, 2)
	assert.Equal(t, 5.0, testutil.ToFloat64(r.ImportRowsTotal.WithLabelValues("imported")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ImportRowsTotal.WithLabelValues("skipped")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordAnalysis("metal", "large", time.Millisecond)

	path := filepath.Join(t.TempDir(), "plant.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `plant_analyses_total{industry="metal",scale="large"} 1`)
}

func TestWriteTextfile_BadDir(t *testing.T) {
	r := NewRegistry()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "plant.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics: write textfile")
}
