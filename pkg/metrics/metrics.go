// Package metrics exports Prometheus metrics for the reactive core: binding
// evaluations, input dispatch and repeater rebuilds.
//
// A *Metrics implements the observer interfaces of the property, input and
// repeater packages, so it is wired in by passing it where those packages
// accept an observer.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/scene/pkg/input"
	"github.com/vango-dev/scene/pkg/item"
	"github.com/vango-dev/scene/pkg/property"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "scene").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: fine grained buckets from 1µs to 100ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "scene",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 6),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	bindingEvaluations *prometheus.HistogramVec
	bindingCycles      prometheus.Counter
	inputEvents        *prometheus.CounterVec
	grabTransitions    *prometheus.CounterVec
	dispatchDuration   prometheus.Histogram
	repeaterRebuilds   *prometheus.HistogramVec
	repeaterInstances  *prometheus.GaugeVec
	scriptSteps        *prometheus.CounterVec
}

// New registers the collectors with the configured registry. Registering
// twice with the same registry panics.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		bindingEvaluations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "binding_evaluation_seconds",
			Help:        "Duration of binding evaluations",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"property"}),

		bindingCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "binding_cycles_total",
			Help:        "Total number of binding cycles detected",
			ConstLabels: config.ConstLabels,
		}),

		inputEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "input_events_total",
			Help:        "Total number of pointer events dispatched, by kind and result",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "result", "grabbed"}),

		grabTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "grab_transitions_total",
			Help:        "Total number of mouse grab transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"transition"}),

		dispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Duration of window event dispatch, repeater sync included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		repeaterRebuilds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "repeater_rebuild_seconds",
			Help:        "Duration of repeater rebuilds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"repeater"}),

		repeaterInstances: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "repeater_instances",
			Help:        "Number of instances after the last rebuild",
			ConstLabels: config.ConstLabels,
		}, []string{"repeater"}),

		scriptSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "script_steps_total",
			Help:        "Total number of scene script steps, by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),
	}
}

// BindingEvaluated implements property.Observer. Properties without a name
// share the "unnamed" label.
func (m *Metrics) BindingEvaluated(name string, d time.Duration) {
	if strings.HasPrefix(name, "property#") {
		name = "unnamed"
	}
	m.bindingEvaluations.WithLabelValues(name).Observe(d.Seconds())
}

// BindingCycle implements property.Observer.
func (m *Metrics) BindingCycle(*property.CycleError) {
	m.bindingCycles.Inc()
}

// EventDispatched implements input.Observer.
func (m *Metrics) EventDispatched(kind item.MouseEventKind, result item.InputEventResult, grabbed bool) {
	m.inputEvents.WithLabelValues(kind.String(), result.String(), strconv.FormatBool(grabbed)).Inc()
}

// GrabChanged implements input.Observer.
func (m *Metrics) GrabChanged(from, to input.Grab) {
	var transition string
	switch {
	case from.IsFree():
		transition = "acquire"
	case to.IsFree():
		transition = "release"
	default:
		transition = "move"
	}
	m.grabTransitions.WithLabelValues(transition).Inc()
}

// RepeaterRebuilt implements repeater.Observer.
func (m *Metrics) RepeaterRebuilt(name string, instances int, d time.Duration) {
	m.repeaterRebuilds.WithLabelValues(name).Observe(d.Seconds())
	m.repeaterInstances.WithLabelValues(name).Set(float64(instances))
}

// DispatchObserved records one window dispatch.
func (m *Metrics) DispatchObserved(d time.Duration) {
	m.dispatchDuration.Observe(d.Seconds())
}

// ScriptStep records a script step outcome: "ok" or "failed".
func (m *Metrics) ScriptStep(outcome string) {
	m.scriptSteps.WithLabelValues(outcome).Inc()
}
