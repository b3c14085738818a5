package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts audit activity on a private registry so a run can be
// exported as a node-exporter textfile. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry     *prometheus.Registry
	filesScanned *prometheus.CounterVec
	findings     *prometheus.CounterVec
	readErrors   prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suppressaudit",
			Name:      "files_scanned_total",
			Help:      "Source files audited, by language.",
		}, []string{"language"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suppressaudit",
			Name:      "findings_total",
			Help:      "Suppression directives found, by language and directive family.",
		}, []string{"language", "category"}),
		readErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "suppressaudit",
			Name:      "read_errors_total",
			Help:      "Files skipped because they could not be read.",
		}),
	}
	m.registry.MustRegister(m.filesScanned, m.findings, m.readErrors)
	return m
}

// Registry exposes the underlying registry for callers that serve or gather it.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeFile(lang string, issues []Issue) {
	if m == nil {
		return
	}
	m.filesScanned.WithLabelValues(lang).Inc()
	for _, is := range issues {
		m.findings.WithLabelValues(lang, string(is.Category)).Inc()
	}
}

func (m *Metrics) observeReadError() {
	if m == nil {
		return
	}
	m.readErrors.Inc()
}

// WriteTextfile writes the current values in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
