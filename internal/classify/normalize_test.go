package classify

import (
	"reflect"
	"testing"
)

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		want    Result
		wantErr bool
	}{
		{
			name: "complete document",
			doc: map[string]any{
				"dependencia":    "Secretaría General",
				"confianza":      "88%",
				"motivo":         "Trata de archivos y contratación.",
				"palabras_clave": []any{"archivos", "contratación"},
			},
			want: Result{
				Dependencia:   "Secretaría General",
				Confianza:     "88%",
				Motivo:        "Trata de archivos y contratación.",
				PalabrasClave: []string{"archivos", "contratación"},
			},
		},
		{
			name: "missing fields default",
			doc:  map[string]any{"dependencia": "Oficina de Riesgos"},
			want: Result{
				Dependencia:   "Oficina de Riesgos",
				Confianza:     "N/A",
				Motivo:        "N/A",
				PalabrasClave: []string{},
			},
		},
		{
			name: "numeric confidence gains percent sign",
			doc: map[string]any{
				"dependencia":    "Vicepresidencia Financiera",
				"confianza":      float64(72.5),
				"motivo":         "Presupuesto.",
				"palabras_clave": []any{},
			},
			want: Result{
				Dependencia:   "Vicepresidencia Financiera",
				Confianza:     "72.5%",
				Motivo:        "Presupuesto.",
				PalabrasClave: []string{},
			},
		},
		{
			name: "scalar keyword becomes slice",
			doc: map[string]any{
				"dependencia":    "Vicepresidencia Financiera",
				"confianza":      "90%",
				"motivo":         "Presupuesto.",
				"palabras_clave": "presupuesto",
			},
			want: Result{
				Dependencia:   "Vicepresidencia Financiera",
				Confianza:     "90%",
				Motivo:        "Presupuesto.",
				PalabrasClave: []string{"presupuesto"},
			},
		},
		{
			name: "null keywords become empty slice",
			doc: map[string]any{
				"dependencia":    "Vicepresidencia Financiera",
				"confianza":      "90%",
				"motivo":         "Presupuesto.",
				"palabras_clave": nil,
			},
			want: Result{
				Dependencia:   "Vicepresidencia Financiera",
				Confianza:     "90%",
				Motivo:        "Presupuesto.",
				PalabrasClave: []string{},
			},
		},
		{
			name: "mixed keyword types are stringified",
			doc: map[string]any{
				"dependencia":    "Vicepresidencia Financiera",
				"confianza":      "90%",
				"motivo":         "Presupuesto.",
				"palabras_clave": []any{"pago", float64(2024)},
			},
			want: Result{
				Dependencia:   "Vicepresidencia Financiera",
				Confianza:     "90%",
				Motivo:        "Presupuesto.",
				PalabrasClave: []string{"pago", "2024"},
			},
		},
		{
			name: "keywords object is rejected",
			doc: map[string]any{
				"dependencia":    "Vicepresidencia Financiera",
				"confianza":      "90%",
				"motivo":         "Presupuesto.",
				"palabras_clave": map[string]any{"k": "v"},
			},
			wantErr: true,
		},
		{
			name:    "empty dependencia is rejected",
			doc:     map[string]any{"dependencia": ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeResult(tt.doc)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeResult: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeResultDoc(t *testing.T) {
	if _, err := decodeResultDoc("not json"); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	if _, err := decodeResultDoc(`["array"]`); err == nil {
		t.Fatalf("expected error for non-object JSON")
	}
	doc, err := decodeResultDoc(`{"dependencia": "Oficina de Riesgos"}`)
	if err != nil {
		t.Fatalf("decodeResultDoc: %v", err)
	}
	if doc["dependencia"] != "Oficina de Riesgos" {
		t.Fatalf("unexpected doc %#v", doc)
	}
}
