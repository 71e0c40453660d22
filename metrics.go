package sqlkit

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records statement durations by statement type and outcome.
type Metrics struct {
	duration *prometheus.HistogramVec
}

// NewMetrics registers the statement histogram with reg. A nil reg leaves it
// unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sqlkit_statement_duration_seconds",
		Help:    "Duration of statements executed through sqlkit templates.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type", "outcome"})
	if reg != nil {
		if err := reg.Register(h); err != nil {
			return nil, err
		}
	}
	return &Metrics{duration: h}, nil
}

func (m *Metrics) observe(query string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.duration.WithLabelValues(operationType(query), outcome).Observe(d.Seconds())
}

func operationType(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
