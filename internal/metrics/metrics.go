// Package metrics exposes Prometheus-format metrics without pulling in the
// client library.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// Registry holds the service's metric families.
type Registry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter is a monotonically increasing metric.
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge is a metric that can go up and down.
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram buckets observations cumulatively.
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *Registry
	once     sync.Once
)

// Get returns the global registry, initialising the default metric set on
// first use.
func Get() *Registry {
	once.Do(func() {
		registry = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		registerDefaults(registry)
	})
	return registry
}

// registerDefaults declares the service's metric families.
func registerDefaults(r *Registry) {
	r.NewCounter("shiftwise_http_requests_total", "HTTP requests handled", []string{"method", "path", "status"})
	r.NewHistogram("shiftwise_http_request_duration_seconds", "HTTP request latency",
		[]string{"method", "path"},
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0})

	r.NewCounter("shiftwise_constraint_evaluations_total", "Constraint evaluations", []string{"constraint", "result"})
	r.NewHistogram("shiftwise_evaluation_duration_seconds", "Assignment evaluation latency",
		[]string{},
		[]float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0})

	r.NewCounter("shiftwise_plan_transitions_total", "Plan status transitions", []string{"from", "to"})
	r.NewCounter("shiftwise_simulation_runs_total", "What-if simulation runs", []string{"status"})
	r.NewGauge("shiftwise_plan_coverage_percentage", "Coverage of the last evaluated plan", []string{"plan_id"})
	r.NewGauge("shiftwise_db_connections", "Database connections", []string{"state"})
}

// NewCounter registers a counter.
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &Counter{Name: name, Help: help, Labels: labels, values: make(map[string]float64)}
	r.counters[name] = c
	return c
}

// NewGauge registers a gauge.
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := &Gauge{Name: name, Help: help, Labels: labels, values: make(map[string]float64)}
	r.gauges[name] = g
	return g
}

// NewHistogram registers a histogram.
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = h
	return h
}

// Counter returns a registered counter, nil if absent.
func (r *Registry) Counter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// Gauge returns a registered gauge, nil if absent.
func (r *Registry) Gauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// Histogram returns a registered histogram, nil if absent.
func (r *Registry) Histogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc adds one.
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add adds value.
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set stores value.
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Add adds value.
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] += value
}

// Observe records one observation.
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)
	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}
	// Bin into the first matching bucket; the exposition handler cumulates.
	binned := false
	for i, bucket := range h.Buckets {
		if value <= bucket {
			h.counts[key][i]++
			binned = true
			break
		}
	}
	if !binned {
		h.counts[key][len(h.Buckets)]++
	}
	h.sums[key] += value
}

// ObserveEvaluation records one constraint-manager evaluation.
func ObserveEvaluation(feasible bool, duration time.Duration) {
	result := "feasible"
	if !feasible {
		result = "infeasible"
	}
	Get().Counter("shiftwise_constraint_evaluations_total").Inc("all", result)
	Get().Histogram("shiftwise_evaluation_duration_seconds").Observe(duration.Seconds())
}

// IncPlanTransition counts one plan status change.
func IncPlanTransition(from, to string) {
	Get().Counter("shiftwise_plan_transitions_total").Inc(from, to)
}

// IncSimulationRun counts one simulation run.
func IncSimulationRun(status string) {
	Get().Counter("shiftwise_simulation_runs_total").Inc(status)
}

// SetPlanCoverage stores a plan's coverage percentage.
func SetPlanCoverage(planID string, coverage float64) {
	Get().Gauge("shiftwise_plan_coverage_percentage").Set(coverage, planID)
}

// labelKey joins label values into a map key.
func labelKey(values []string) string {
	return strings.Join(values, ",")
}

// formatLabels renders a label set in exposition format.
func formatLabels(names []string, key string) string {
	values := strings.Split(key, ",")
	pairs := make([]string, 0, len(names))
	for i, name := range names {
		if i < len(values) {
			pairs = append(pairs, fmt.Sprintf("%s=%q", name, values[i]))
		}
	}
	return strings.Join(pairs, ",")
}

// Handler serves the registry in Prometheus text exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		r := Get()
		r.mu.RLock()
		defer r.mu.RUnlock()

		for _, name := range sortedCounterNames(r) {
			c := r.counters[name]
			fmt.Fprintf(w, "# HELP %s %s\n", c.Name, c.Help)
			fmt.Fprintf(w, "# TYPE %s counter\n", c.Name)
			c.mu.RLock()
			for key, value := range c.values {
				if key == "" {
					fmt.Fprintf(w, "%s %f\n", c.Name, value)
				} else {
					fmt.Fprintf(w, "%s{%s} %f\n", c.Name, formatLabels(c.Labels, key), value)
				}
			}
			c.mu.RUnlock()
		}

		for _, g := range r.gauges {
			fmt.Fprintf(w, "# HELP %s %s\n", g.Name, g.Help)
			fmt.Fprintf(w, "# TYPE %s gauge\n", g.Name)
			g.mu.RLock()
			for key, value := range g.values {
				if key == "" {
					fmt.Fprintf(w, "%s %f\n", g.Name, value)
				} else {
					fmt.Fprintf(w, "%s{%s} %f\n", g.Name, formatLabels(g.Labels, key), value)
				}
			}
			g.mu.RUnlock()
		}

		for _, h := range r.histograms {
			fmt.Fprintf(w, "# HELP %s %s\n", h.Name, h.Help)
			fmt.Fprintf(w, "# TYPE %s histogram\n", h.Name)
			h.mu.RLock()
			for key, counts := range h.counts {
				cumulative := 0
				for i, bucket := range h.Buckets {
					cumulative += counts[i]
					if key == "" {
						fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.Name, fmt.Sprintf("%g", bucket), cumulative)
					} else {
						fmt.Fprintf(w, "%s_bucket{%s,le=%q} %d\n", h.Name, formatLabels(h.Labels, key), fmt.Sprintf("%g", bucket), cumulative)
					}
				}
				cumulative += counts[len(h.Buckets)]
				if key == "" {
					fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.Name, cumulative)
					fmt.Fprintf(w, "%s_sum %f\n", h.Name, h.sums[key])
					fmt.Fprintf(w, "%s_count %d\n", h.Name, cumulative)
				} else {
					labels := formatLabels(h.Labels, key)
					fmt.Fprintf(w, "%s_bucket{%s,le=\"+Inf\"} %d\n", h.Name, labels, cumulative)
					fmt.Fprintf(w, "%s_sum{%s} %f\n", h.Name, labels, h.sums[key])
					fmt.Fprintf(w, "%s_count{%s} %d\n", h.Name, labels, cumulative)
				}
			}
			h.mu.RUnlock()
		}
	})
}

// sortedCounterNames keeps the exposition output stable.
func sortedCounterNames(r *Registry) []string {
	names := make([]string, 0, len(r.counters))
	for name := range r.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
