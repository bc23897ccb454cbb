package metrics

import (
	"sync"

	"github.com/AzielCF/az-console/pkg/wizardmonitor"
	"github.com/AzielCF/az-console/pkg/workerpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	WizardEvents   *prometheus.CounterVec
	OpenSessions   prometheus.Gauge
	PoolDispatched prometheus.Counter
	PoolDropped    prometheus.Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// Default returns the process-wide metrics registered on the default registry.
func Default() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = New(prometheus.DefaultRegisterer)
	})
	return metricsInstance
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WizardEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "azconsole_wizard_events_total",
			Help: "Wizard events by kind and status",
		}, []string{"kind", "status"}),
		OpenSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "azconsole_wizard_open_sessions",
			Help: "Current number of open wizard sessions",
		}),
		PoolDispatched: f.NewCounter(prometheus.CounterOpts{
			Name: "azconsole_autosave_jobs_dispatched_total",
			Help: "Autosave jobs accepted by the worker pool",
		}),
		PoolDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "azconsole_autosave_jobs_dropped_total",
			Help: "Autosave jobs the worker pool could not queue",
		}),
	}
}

// Attach feeds the monitor's counters into the wizard events vector.
func (m *Metrics) Attach(mon *wizardmonitor.Monitor) {
	if m == nil || mon == nil {
		return
	}
	mon.OnIncrement = func(kind, status string) {
		m.WizardEvents.WithLabelValues(kind, status).Inc()
	}
}

func (m *Metrics) SetOpenSessions(n int) {
	if m == nil || m.OpenSessions == nil {
		return
	}
	m.OpenSessions.Set(float64(n))
}

func (m *Metrics) RecordDispatch(accepted bool) {
	if m == nil {
		return
	}
	if accepted {
		m.PoolDispatched.Inc()
		return
	}
	m.PoolDropped.Inc()
}

type dispatcher interface {
	TryDispatch(job workerpool.Job) bool
}

// MeteredDispatcher counts accepted and dropped jobs of the wrapped pool.
type MeteredDispatcher struct {
	Next    dispatcher
	Metrics *Metrics
}

func (d MeteredDispatcher) TryDispatch(job workerpool.Job) bool {
	ok := d.Next.TryDispatch(job)
	d.Metrics.RecordDispatch(ok)
	return ok
}
