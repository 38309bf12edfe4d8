// Package metrics exposes Prometheus text-format metrics for the
// classification pipeline. The set is small enough that maintaining the
// format by hand is lighter than a client dependency.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name  string
	help  string
	value atomic.Uint64
}

func (c *counter) inc() { c.value.Add(1) }

func (c *counter) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "# HELP %s %s\n", c.name, c.help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", c.name)
	fmt.Fprintf(buf, "%s %d\n", c.name, c.value.Load())
}

var (
	classificationStarted   = &counter{name: "classification_started_total", help: "Total classifications started"}
	classificationCompleted = &counter{name: "classification_completed_total", help: "Total classifications completed"}
	classificationFailed    = &counter{name: "classification_failed_total", help: "Total classifications failed"}
	ocrFallback             = &counter{name: "ocr_fallback_total", help: "Total extractions that used OCR"}
	textReduced             = &counter{name: "text_reduced_total", help: "Total petitions whose text was summarized before classification"}

	// Render order is fixed so scrapes diff cleanly.
	counters = []*counter{
		classificationStarted,
		classificationCompleted,
		classificationFailed,
		ocrFallback,
		textReduced,
	}

	classificationDuration = newHistogram(
		"classification_duration_ms",
		"Classification duration in milliseconds",
		[]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	)
)

// IncClassificationStarted increments the started counter.
func IncClassificationStarted() { classificationStarted.inc() }

// IncClassificationCompleted increments the completed counter.
func IncClassificationCompleted() { classificationCompleted.inc() }

// IncClassificationFailed increments the failed counter.
func IncClassificationFailed() { classificationFailed.inc() }

// IncOCRFallback increments the counter of extractions that went through OCR.
func IncOCRFallback() { ocrFallback.inc() }

// IncTextReduced increments the counter of petitions whose text was summarized.
func IncTextReduced() { textReduced.inc() }

// ObserveClassificationDurationMs records a classification duration in milliseconds.
func ObserveClassificationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	classificationDuration.observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders all registered metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	for _, c := range counters {
		c.write(&buf)
	}
	classificationDuration.write(&buf)
	return buf.String()
}

type histogram struct {
	name    string
	help    string
	buckets []float64

	mu     sync.Mutex
	counts []uint64
	sum    float64
	count  uint64
}

func newHistogram(name, help string, buckets []float64) *histogram {
	return &histogram{
		name:    name,
		help:    help,
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) write(buf *bytes.Buffer) {
	h.mu.Lock()
	counts := append([]uint64(nil), h.counts...)
	sum := h.sum
	count := h.count
	h.mu.Unlock()

	fmt.Fprintf(buf, "# HELP %s %s\n", h.name, h.help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", h.name)
	var cumulative uint64
	for i, bound := range h.buckets {
		cumulative += counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", h.name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", h.name, count)
	fmt.Fprintf(buf, "%s_sum %s\n", h.name, formatFloat(sum))
	fmt.Fprintf(buf, "%s_count %d\n", h.name, count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns the current time in milliseconds for duration math.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
