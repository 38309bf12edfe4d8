package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildSearchReport(t *testing.T) {
	results := []Result{
		{
			Title: "María Pérez Rodríguez",
			ID:    "1032456789",
			Fields: []Field{
				{Label: "Contratista", Value: "María Pérez Rodríguez"},
				{Label: "Objeto", Value: "Prestación de servicios de asesoría jurídica."},
			},
		},
		{
			Title: "Construcciones El Niño S.A.S.",
			Fields: []Field{
				{Label: "Nit", Value: "900123456-7"},
			},
		},
	}

	pdf, err := BuildSearchReport("maría", results)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", pdf[:8])
	}
	if len(pdf) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(pdf))
	}
	// Two results render on two pages.
	if !strings.Contains(string(pdf), "/Count 2") {
		t.Fatalf("expected a two-page document")
	}
}

func TestBuildSearchReportEmptyResults(t *testing.T) {
	pdf, err := BuildSearchReport("nadie", nil)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF header")
	}
}
