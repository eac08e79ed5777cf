package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObserveProcessSetsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	ObserveProcess(42, "worker.py", 55.5, 128)
	assert.Equal(t, 55.5, testutil.ToFloat64(procCPUPercent.WithLabelValues("42", "worker.py")))
	assert.Equal(t, 128.0, testutil.ToFloat64(procMemoryMB.WithLabelValues("42", "worker.py")))

	ResetProcesses(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(trackedProcesses))
	assert.Equal(t, 0, testutil.CollectAndCount(procCPUPercent))
}

func TestIncAlert(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	IncAlert("worker.py", "cpu")
	IncAlert("worker.py", "cpu")
	assert.Equal(t, 2.0, testutil.ToFloat64(alertsTotal.WithLabelValues("worker.py", "cpu")))
}

func TestHandlerNotNil(t *testing.T) {
	assert.NotNil(t, Handler())
}
