package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the archive module. All methods are
// nil-safe so engines can run without metrics in tests.
type Metrics struct {
	// Archives created by format and algorithm
	ArchivesCreated *prometheus.CounterVec

	// Archive creation failures by stage
	CreateFailures *prometheus.CounterVec

	// Compressed/original size ratio per created archive
	CompressionRatio prometheus.Histogram

	// Full retrieval latency including decompression and filtering
	RetrieveLatency prometheus.Histogram

	// Records returned per retrieval call
	RecordsRetrieved prometheus.Counter

	// Read-path record cache hits and misses
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance with all archive module metrics registered.
func New() *Metrics {
	return &Metrics{
		ArchivesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_archives_created_total",
			Help: "Total archives created by serialization format and compression algorithm",
		}, []string{"format", "algorithm"}),

		CreateFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_archive_create_failures_total",
			Help: "Total archive creation failures by stage",
		}, []string{"stage"}), // stage: "serialize", "compress", "store"

		CompressionRatio: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chronicle_archive_compression_ratio",
			Help:    "Compressed to original size ratio of created archives",
			Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9, 1, 1.1},
		}),

		RetrieveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chronicle_archive_retrieve_duration_seconds",
			Help:    "Duration of archive retrieval including decompression and filtering",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		RecordsRetrieved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_archive_records_retrieved_total",
			Help: "Total audit records returned by retrieval calls",
		}),

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_archive_cache_lookups_total",
			Help: "Record cache lookups by outcome",
		}, []string{"outcome"}), // outcome: "hit", "miss"
	}
}

// IncArchivesCreated records a successful archive creation.
func (m *Metrics) IncArchivesCreated(format, algorithm string) {
	if m != nil {
		m.ArchivesCreated.WithLabelValues(format, algorithm).Inc()
	}
}

// IncCreateFailure records a failed archive creation at the given stage.
func (m *Metrics) IncCreateFailure(stage string) {
	if m != nil {
		m.CreateFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveCompressionRatio records the size ratio of a created archive.
func (m *Metrics) ObserveCompressionRatio(ratio float64) {
	if m != nil {
		m.CompressionRatio.Observe(ratio)
	}
}

// ObserveRetrieveLatency records the duration of a retrieval call.
func (m *Metrics) ObserveRetrieveLatency(d time.Duration) {
	if m != nil {
		m.RetrieveLatency.Observe(d.Seconds())
	}
}

// AddRecordsRetrieved records the number of records a retrieval returned.
func (m *Metrics) AddRecordsRetrieved(n int) {
	if m != nil {
		m.RecordsRetrieved.Add(float64(n))
	}
}

// IncCacheLookup records a record cache hit or miss.
func (m *Metrics) IncCacheLookup(outcome string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(outcome).Inc()
	}
}
