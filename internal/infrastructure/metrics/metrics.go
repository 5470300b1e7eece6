package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCreated  = "created"
	OutcomeReplayed = "replayed"
)

type Metrics struct {
	registry *prometheus.Registry

	qrRendered     *prometheus.CounterVec
	paymentsIssued *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		qrRendered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spd_qr_rendered_total",
				Help: "Total number of QR payment codes rendered",
			},
			[]string{"format", "outcome"},
		),
		paymentsIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spd_payments_issued_total",
				Help: "Total number of issue requests for stored payment descriptors",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRender(format string, err error) {
	m.qrRendered.WithLabelValues(format, outcome(err)).Inc()
}

func (m *Metrics) ObserveIssue(result string) {
	m.paymentsIssued.WithLabelValues(result).Inc()
}

func (m *Metrics) Rendered(format, result string) prometheus.Counter {
	return m.qrRendered.WithLabelValues(format, result)
}

func (m *Metrics) Issued(result string) prometheus.Counter {
	return m.paymentsIssued.WithLabelValues(result)
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
