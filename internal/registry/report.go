package registry

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/honterplatform/icetex/internal/report"
)

// Workbook headers the contractor report keys on.
const (
	contractorNameColumn = "CONTRATISTA : NOMBRE COMPLETO O RAZON SOCIAL"
	contractorIDColumn   = "CONTRATISTA: NÚMERO DE IDENTIFICACIÓN"
	contractNumberColumn = "No. \nCto"
)

func toReportResults(records []Record) []report.Result {
	out := make([]report.Result, 0, len(records))
	for i, rec := range records {
		title := rec.Get(contractorNameColumn)
		if isEmptyValue(title) {
			title = rec.Get(contractNumberColumn)
		}
		if isEmptyValue(title) {
			title = fmt.Sprintf("Resultado %d", i+1)
		}

		id := rec.Get(contractorIDColumn)
		if isEmptyValue(id) {
			id = rec.Get(contractNumberColumn)
		}
		if isEmptyValue(id) {
			id = ""
		}

		var fields []report.Field
		for _, f := range rec {
			if isEmptyValue(f.Value) {
				continue
			}
			fields = append(fields, report.Field{Label: formatLabel(f.Column), Value: f.Value})
		}

		out = append(out, report.Result{Title: title, ID: id, Fields: fields})
	}
	return out
}

func isEmptyValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "n/a", "na":
		return true
	}
	return false
}

// formatLabel turns a raw header like "OBJETO_DEL CONTRATO" into
// "Objeto Del Contrato". Embedded newlines collapse to spaces.
func formatLabel(column string) string {
	words := strings.Fields(strings.ReplaceAll(column, "_", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
