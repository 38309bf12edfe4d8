package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderContainsAllSeries(t *testing.T) {
	out := Render()
	for _, name := range []string{
		"classification_started_total",
		"classification_completed_total",
		"classification_failed_total",
		"ocr_fallback_total",
		"text_reduced_total",
		"classification_duration_ms_bucket",
		"classification_duration_ms_sum",
		"classification_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in render output", name)
		}
	}
}

func TestCountersIncrement(t *testing.T) {
	before := ocrFallback.value.Load()
	IncOCRFallback()
	if got := ocrFallback.value.Load(); got != before+1 {
		t.Fatalf("expected counter to advance from %d, got %d", before, got)
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram("request_duration_ms", "test histogram", []float64{10, 100, 1000})
	h.observe(5)
	h.observe(50)
	h.observe(500)
	h.observe(5000)

	var buf bytes.Buffer
	h.write(&buf)
	out := buf.String()

	for _, line := range []string{
		`request_duration_ms_bucket{le="10"} 1`,
		`request_duration_ms_bucket{le="100"} 2`,
		`request_duration_ms_bucket{le="1000"} 3`,
		`request_duration_ms_bucket{le="+Inf"} 4`,
		`request_duration_ms_sum 5555`,
		`request_duration_ms_count 4`,
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("expected %q in output:\n%s", line, out)
		}
	}
}
