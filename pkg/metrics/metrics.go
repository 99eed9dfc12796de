package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HistogramBuckets are in milliseconds. Member operations are local database
// writes, so the range stops at 5s.
var HistogramBuckets = []float64{
	1, 2, 5, 10, 25, 50, 75, 100, 150, 200, 300, 500,
	750, 1000, 2000, 5000,
}

// Metric is a definition for the name, description, type, ID, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	var metric prometheus.Collector
	switch m.Type {
	case "counter_vec":
		metric = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "counter":
		metric = prometheus.NewCounter(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "gauge_vec":
		metric = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "gauge":
		metric = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "histogram_vec":
		metric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "histogram":
		metric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   HistogramBuckets,
			},
		)
	case "summary_vec":
		metric = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "summary":
		metric = prometheus.NewSummary(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	}
	return metric
}

// Business metrics, registered on the default registry and served by the
// same /metrics handler as the HTTP metrics.
var (
	// MemberOps counts member lifecycle operations by outcome.
	MemberOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "tristar",
		Name:      "member_ops_total",
		Help:      "Member lifecycle operations partitioned by operation and result.",
	}, []string{"op", "result"})

	// StoreDivergence counts mirror mutations whose durable write failed.
	StoreDivergence = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "tristar",
		Name:      "store_divergence_total",
		Help:      "Mirror mutations whose durable write failed and were not rolled back.",
	}, []string{"op"})

	ProjectionSyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "tristar",
		Name:      "projection_sync_total",
		Help:      "Projection file writes partitioned by section and result.",
	}, []string{"section", "result"})

	MirrorMembers = prometheus.NewGauge(prometheus.GaugeOpts{
		Subsystem: "tristar",
		Name:      "mirror_members",
		Help:      "Members currently held in the in-memory mirror.",
	})

	BusinessProcess = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "tristar",
		Name:      "bp_dur_ms",
		Help:      "Business process latency in milliseconds.",
		Buckets:   HistogramBuckets,
	}, []string{"type", "subtype"})
)

func init() {
	prometheus.MustRegister(MemberOps, StoreDivergence, ProjectionSyncs, MirrorMembers, BusinessProcess)
}

// ObserveProcess records the elapsed time of a business process since start.
func ObserveProcess(kind, subtype string, start time.Time) {
	BusinessProcess.WithLabelValues(kind, subtype).Observe(MillisecondsSince(start))
}

const (
	RefererKey = "X-Referer"
)
