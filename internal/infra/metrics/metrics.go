package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jasper-launcher/internal/domain/model"
)

const namespace = "jasper_launcher"

// Recorder publishes launcher metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	stackState      *prometheus.GaugeVec
	settingsSaves   *prometheus.CounterVec
	eventSubs       prometheus.Gauge
}

// NewRecorder registers every collector, including Go runtime and process
// collectors, on a fresh registry.
func NewRecorder(startTime time.Time) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compose_commands_total",
			Help:      "docker compose invocations by command and result",
		}, []string{"command", "result"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compose_command_duration_seconds",
			Help:      "docker compose invocation duration",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"command"}),
		stackState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stack_state",
			Help:      "1 for the current stack state, 0 otherwise",
		}, []string{"state"}),
		settingsSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_writes_total",
			Help:      "settings writes by kind (save, patch) and result",
		}, []string{"kind", "result"}),
		eventSubs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_subscribers",
			Help:      "open event stream subscriptions",
		}),
	}

	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "seconds since the launcher started",
	}, func() float64 { return time.Since(startTime).Seconds() })

	r.registry.MustRegister(
		r.commandsTotal,
		r.commandDuration,
		r.stackState,
		r.settingsSaves,
		r.eventSubs,
		uptime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.SetStackState(model.StackStopped)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveCommand records one finished compose invocation.
func (r *Recorder) ObserveCommand(run model.CommandRun) {
	result := "success"
	if !run.Succeeded() {
		result = "failure"
	}
	r.commandsTotal.WithLabelValues(run.Command, result).Inc()
	r.commandDuration.WithLabelValues(run.Command).Observe(run.Duration.Seconds())
}

// SetStackState marks state as current.
func (r *Recorder) SetStackState(state model.StackState) {
	for _, s := range []model.StackState{model.StackStopped, model.StackStarting, model.StackRunning, model.StackStopping} {
		value := 0.0
		if s == state {
			value = 1
		}
		r.stackState.WithLabelValues(s.String()).Set(value)
	}
}

// ObserveSettingsWrite counts a save or patch.
func (r *Recorder) ObserveSettingsWrite(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.settingsSaves.WithLabelValues(kind, result).Inc()
}

// SetEventSubscribers records the number of open event streams.
func (r *Recorder) SetEventSubscribers(n int) {
	r.eventSubs.Set(float64(n))
}
