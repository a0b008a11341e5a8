package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the MRZ codec service.
type Metrics struct {
	ZonesDecoded    prometheus.Counter
	ZonesEncoded    prometheus.Counter
	CodecErrors     *prometheus.CounterVec
	Mismatches      *prometheus.CounterVec
	CacheHits       prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New registers all metrics on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ZonesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrz_zones_decoded_total",
			Help: "Total number of machine readable zones decoded",
		}),
		ZonesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrz_zones_encoded_total",
			Help: "Total number of machine readable zones encoded",
		}),
		CodecErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrz_codec_errors_total",
			Help: "Rejected codec input by error kind",
		}, []string{"kind"}),
		Mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mrz_check_digit_mismatches_total",
			Help: "Check digit mismatches by reported field",
		}, []string{"field"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "mrz_report_cache_hits_total",
			Help: "Decode requests answered from the report cache",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mrz_request_duration_seconds",
			Help:    "Duration of codec API requests",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"route"}),
	}
}

// IncrementDecoded records a successfully decoded zone.
func (m *Metrics) IncrementDecoded() {
	m.ZonesDecoded.Inc()
}

// IncrementEncoded records a successfully encoded zone.
func (m *Metrics) IncrementEncoded() {
	m.ZonesEncoded.Inc()
}

// IncrementCodecError records a rejected input of the given kind.
func (m *Metrics) IncrementCodecError(kind string) {
	if kind == "" {
		kind = "other"
	}
	m.CodecErrors.WithLabelValues(kind).Inc()
}

// ObserveMismatches records each label of a mismatch report.
func (m *Metrics) ObserveMismatches(labels []string) {
	for _, label := range labels {
		m.Mismatches.WithLabelValues(label).Inc()
	}
}

// IncrementCacheHit records a decode answered from cache.
func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}

// ObserveRequest records the duration of a request on route.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route string, start time.Time) {
	m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
