package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los contadores e histogramas del servicio.
type Metrics struct {
	DiscoverRequests   *prometheus.CounterVec
	RankingDuration    *prometheus.HistogramVec
	RankedCandidates   prometheus.Histogram
	SkippedCandidates  prometheus.Counter
	SignalsCreated     prometheus.Counter
	SignalsAccepted    prometheus.Counter
	PodsFormed         prometheus.Counter
	QuizCompletions    prometheus.Counter
	CacheHits          *prometheus.CounterVec
}

// NewMetrics construye las metricas con el namespace del servicio.
func NewMetrics() *Metrics {
	return &Metrics{
		DiscoverRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "discover",
			Name:      "requests_total",
			Help:      "Discovery feed requests by kind.",
		}, []string{"kind"}),
		RankingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orbit",
			Subsystem: "discover",
			Name:      "ranking_duration_seconds",
			Help:      "Time spent scoring and sorting a candidate pool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		RankedCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orbit",
			Subsystem: "discover",
			Name:      "ranked_candidates",
			Help:      "Eligible candidates per ranking run.",
			Buckets:   []float64{0, 5, 10, 20, 50, 100},
		}),
		SkippedCandidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "discover",
			Name:      "skipped_candidates_total",
			Help:      "Candidates excluded for malformed profiles.",
		}),
		SignalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "signals",
			Name:      "created_total",
			Help:      "Group signals created by cluster discovery.",
		}),
		SignalsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "signals",
			Name:      "accepted_total",
			Help:      "Individual signal acceptances.",
		}),
		PodsFormed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "signals",
			Name:      "pods_formed_total",
			Help:      "Pods formed when every invitee accepted.",
		}),
		QuizCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "quiz",
			Name:      "completions_total",
			Help:      "Vibe check completions.",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "discover",
			Name:      "cache_total",
			Help:      "Feed cache lookups by result.",
		}, []string{"result"}),
	}
}

// Register registra todas las metricas en el registry dado.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.DiscoverRequests,
		m.RankingDuration,
		m.RankedCandidates,
		m.SkippedCandidates,
		m.SignalsCreated,
		m.SignalsAccepted,
		m.PodsFormed,
		m.QuizCompletions,
		m.CacheHits,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
