package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is one label/value pair rendered on a result section.
type Field struct {
	Label string
	Value string
}

// Result is one search hit. Each result after the first starts a new page.
type Result struct {
	Title  string
	ID     string
	Fields []Field
}

// BuildSearchReport renders contractor search results as a PDF. Text goes
// through the cp1252 translator so Spanish accents survive the core fonts.
func BuildSearchReport(query string, results []Result) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr("ICETEX - Información de Contratista"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(6, tr("Búsqueda realizada: "))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Write(6, tr(query))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(6, tr("Resultados encontrados: "))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Write(6, fmt.Sprintf("%d", len(results)))
	pdf.Ln(10)

	for i, res := range results {
		if i > 0 {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(17, 24, 39)
		pdf.MultiCell(0, 8, tr(fmt.Sprintf("Resultado %d: %s", i+1, res.Title)), "", "L", false)
		if res.ID != "" {
			pdf.SetFont("Helvetica", "", 11)
			pdf.CellFormat(0, 6, tr("ID: "+res.ID), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)

		for _, f := range res.Fields {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(107, 114, 128)
			pdf.MultiCell(0, 5, tr(f.Label), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(17, 24, 39)
			pdf.MultiCell(0, 5, tr(f.Value), "", "L", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
