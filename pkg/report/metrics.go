/*
Copyright 2026 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unikorn-cloud/books-contract/pkg/harness"
)

const (
	metricsNamespace = "books_contract"
)

// Metrics records run outcomes in a private registry, so a run can be
// exported as a node exporter textfile without any global state.
type Metrics struct {
	registry *prometheus.Registry

	outcomes    *prometheus.CounterVec
	divergences prometheus.Counter
	duration    *prometheus.HistogramVec
}

// NewMetrics creates an empty set of run metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scenarios_total",
			Help:      "Scenarios executed by result and role.",
		}, []string{"result", "role"}),
		divergences: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "known_divergences_total",
			Help:      "Failed scenarios accounted for by a known issue.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scenario_duration_seconds",
			Help:      "Scenario wall time including prior requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
	}
}

// Observe records the outcomes.
func (m *Metrics) Observe(outcomes ...*harness.Outcome) {
	for _, outcome := range outcomes {
		result := string(outcome.Result())

		m.outcomes.WithLabelValues(result, roleName(outcome)).Inc()
		m.duration.WithLabelValues(result).Observe(outcome.Duration.Seconds())

		if outcome.KnownDivergence() {
			m.divergences.Inc()
		}
	}
}

// WriteTextfile atomically writes the metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
