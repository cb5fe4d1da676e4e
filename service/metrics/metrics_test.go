package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.UnitStarted()
	m.UnitStarted()
	m.ObserveIteration(0, "0-1", 10*time.Millisecond, false)
	m.ObserveIteration(0, "0-1", 20*time.Millisecond, true)
	m.ObserveIteration(1, "2", time.Second, false)
	m.UnitFinished()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.iterations.WithLabelValues("0", "0-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("0", "0-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.iterations.WithLabelValues("1", "2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unitsRunning))

	filename := filepath.Join(t.TempDir(), "cpulaunch.prom")
	assert.NoError(t, m.WriteFile(filename))
	data, err := os.ReadFile(filename)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `cpulaunch_iterations_total{cpuset="0-1",task="0"} 2`)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.UnitStarted()
	m.ObserveIteration(0, "0", time.Second, true)
	m.UnitFinished()
	assert.NoError(t, m.WriteFile("ignored"))
}
