// Package metrics exposes the monitor's live state to Prometheus when
// the dashboard server is running.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors, registered via Register.
var (
	regOK atomic.Bool

	procCPUPercent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "procmon",
			Subsystem: "process",
			Name:      "cpu_percent",
			Help:      "CPU usage percentage of tracked processes.",
		}, []string{"pid", "name"},
	)
	procMemoryMB = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "procmon",
			Subsystem: "process",
			Name:      "memory_mb",
			Help:      "Resident memory in MB of tracked processes.",
		}, []string{"pid", "name"},
	)
	trackedProcesses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "procmon",
			Subsystem: "monitor",
			Name:      "tracked_processes",
			Help:      "Number of processes matched by the active filter.",
		},
	)
	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procmon",
			Subsystem: "monitor",
			Name:      "alerts_total",
			Help:      "Threshold alerts fired, by process name and kind.",
		}, []string{"name", "kind"},
	)
	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "procmon",
			Subsystem: "monitor",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one poll tick.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers all collectors with r. Safe to call multiple
// times; already-registered collectors are skipped.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{procCPUPercent, procMemoryMB, trackedProcesses, alertsTotal, tickDuration}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves Prometheus metrics for the default gatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Helpers below no-op until Register has been called.

// ObserveProcess updates the per-process gauges for one sample.
func ObserveProcess(pid int32, name string, cpuPercent, memoryMB float64) {
	if !regOK.Load() {
		return
	}
	label := strconv.Itoa(int(pid))
	procCPUPercent.WithLabelValues(label, name).Set(cpuPercent)
	procMemoryMB.WithLabelValues(label, name).Set(memoryMB)
}

// ResetProcesses clears per-process gauges before a fresh tick so
// vanished processes do not linger.
func ResetProcesses(count int) {
	if !regOK.Load() {
		return
	}
	procCPUPercent.Reset()
	procMemoryMB.Reset()
	trackedProcesses.Set(float64(count))
}

// IncAlert counts one fired alert.
func IncAlert(name, kind string) {
	if regOK.Load() {
		alertsTotal.WithLabelValues(name, kind).Inc()
	}
}

// ObserveTick records the wall time of one poll tick.
func ObserveTick(seconds float64) {
	if regOK.Load() {
		tickDuration.Observe(seconds)
	}
}
