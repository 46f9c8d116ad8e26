package health

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	PollCycles        prometheus.Counter
	ChangesDetected   *prometheus.CounterVec // by category
	ExtractionNoData  *prometheus.CounterVec // by category
	PublishesCreated  prometheus.Counter
	PublishesEdited   prometheus.Counter
	PublishFailures   *prometheus.CounterVec // by kind: not_found|other
	StateSaveFailures prometheus.Counter
	CyclesSkipped     prometheus.Counter     // previous cycle still running

	// Histograms (seconds)
	CycleDuration prometheus.Observer
)

// InitMetrics registers metrics (idempotent).
func InitMetrics() {
	once.Do(func() {
		PollCycles = promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_poll_cycles_total", Help: "Poll cycles run"})
		ChangesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockwatch_changes_detected_total", Help: "Detected snapshot changes"},
			[]string{"category"})
		ExtractionNoData = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockwatch_extraction_nodata_total", Help: "Extractions that yielded no data"},
			[]string{"category"})
		PublishesCreated = promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_publishes_created_total", Help: "Webhook messages created"})
		PublishesEdited = promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_publishes_edited_total", Help: "Webhook messages edited in place"})
		PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stockwatch_publish_failures_total", Help: "Failed publish attempts"},
			[]string{"kind"})
		StateSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_state_save_failures_total", Help: "Failed held-state saves"})
		CyclesSkipped = promauto.NewCounter(prometheus.CounterOpts{
			Name: "stockwatch_cycles_skipped_total", Help: "Ticks skipped because the previous cycle was still running"})
		CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "stockwatch_cycle_duration_seconds", Help: "Poll cycle duration seconds",
			Buckets: prometheus.DefBuckets})
	})
}
