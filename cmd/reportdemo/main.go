package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/honterplatform/icetex/internal/report"
)

func main() {
	outPath := flag.String("out", "./out/sample_report.pdf", "output path for the generated PDF")
	flag.Parse()

	query := "construcciones"
	results := sampleResults()

	pdfBytes, err := report.BuildSearchReport(query, results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(*outPath, results, pdfBytes); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	if err := validateReport(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "report validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: wrote %s\n", *outPath)
}

func writeOutputs(outPath string, results []report.Result, pdfBytes []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		return err
	}

	resultsPath := filepath.Join(dir, "sample_report_results.json")
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(resultsPath, payload, 0o644); err != nil {
		return err
	}

	return nil
}

func sampleResults() []report.Result {
	return []report.Result{
		{
			Title: "Construcciones El Dorado S.A.S.",
			ID:    "900123456-7",
			Fields: []report.Field{
				{Label: "Contratista : nombre completo o razon social", Value: "Construcciones El Dorado S.A.S."},
				{Label: "Contratista: número de identificación", Value: "900123456-7"},
				{Label: "No. cto", Value: "2023-0457"},
				{Label: "Objeto del contrato", Value: "Mantenimiento preventivo y correctivo de las sedes del ICETEX a nivel nacional."},
				{Label: "Valor del contrato", Value: "$ 1.250.000.000"},
				{Label: "Plazo", Value: "12 meses"},
			},
		},
		{
			Title: "María Fernanda Pérez Rodríguez",
			ID:    "1032456789",
			Fields: []report.Field{
				{Label: "Contratista : nombre completo o razon social", Value: "María Fernanda Pérez Rodríguez"},
				{Label: "Contratista: número de identificación", Value: "1032456789"},
				{Label: "No. cto", Value: "2024-0112"},
				{Label: "Objeto del contrato", Value: "Prestación de servicios profesionales de apoyo jurídico a la Secretaría General."},
			},
		},
	}
}

func validateReport(path string) error {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF-")) {
		return fmt.Errorf("output is not a PDF")
	}
	if !bytes.Contains(pdfBytes, []byte("/Count 2")) {
		return fmt.Errorf("expected one page per result")
	}
	return nil
}
