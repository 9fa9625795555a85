package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	batchesRecordedTotal   atomic.Uint64
	consolidationsTotal    atomic.Uint64
	checkinsRecordedTotal  atomic.Uint64
	checkinsAdjustedTotal  atomic.Uint64
	consolidationFailTotal atomic.Uint64

	consolidationDuration = newHistogram([]float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250})
)

// IncBatchesRecorded counts stored recommendation batches.
func IncBatchesRecorded() {
	batchesRecordedTotal.Add(1)
}

// ObserveConsolidation records one consolidation run and its duration in milliseconds.
func ObserveConsolidation(durationMs float64, err error) {
	if err != nil {
		consolidationFailTotal.Add(1)
		return
	}
	consolidationsTotal.Add(1)
	if durationMs < 0 {
		durationMs = 0
	}
	consolidationDuration.Observe(durationMs)
}

// IncCheckinRecorded counts stored check-ins; adjusted marks plans moved off the baseline.
func IncCheckinRecorded(adjusted bool) {
	checkinsRecordedTotal.Add(1)
	if adjusted {
		checkinsAdjustedTotal.Add(1)
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "protocol_batches_recorded_total", "Recommendation batches stored", batchesRecordedTotal.Load())
	writeCounter(&buf, "protocol_consolidations_total", "Successful protocol consolidations", consolidationsTotal.Load())
	writeCounter(&buf, "protocol_consolidation_failures_total", "Protocol consolidations rejected", consolidationFailTotal.Load())
	writeCounter(&buf, "checkins_recorded_total", "Daily check-ins stored", checkinsRecordedTotal.Load())
	writeCounter(&buf, "checkins_adjusted_total", "Check-ins whose plan was adjusted", checkinsAdjustedTotal.Load())
	writeHistogram(&buf, "consolidation_duration_ms", "Protocol consolidation duration in milliseconds", consolidationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per bucket; writeHistogram accumulates them.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
