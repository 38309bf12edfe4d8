package classify

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// decodeResultDoc parses the raw model output as a JSON object.
func decodeResultDoc(content string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// normalizeResult fills missing fields, coerces loose scalar types the model
// sometimes produces, and validates the final shape. The model output is
// untrusted input; anything the schema still rejects after coercion becomes
// an error for the caller to turn into the sentinel result.
func normalizeResult(doc map[string]any) (Result, error) {
	for _, field := range []string{"dependencia", "confianza", "motivo"} {
		if _, ok := doc[field]; !ok {
			doc[field] = "N/A"
		}
	}
	if _, ok := doc["palabras_clave"]; !ok {
		doc["palabras_clave"] = []any{}
	}

	doc["dependencia"] = coerceString(doc["dependencia"])
	doc["confianza"] = coerceConfidence(doc["confianza"])
	doc["motivo"] = coerceString(doc["motivo"])
	doc["palabras_clave"] = coerceKeywords(doc["palabras_clave"])

	if err := resultSchemaCompiled.Validate(doc); err != nil {
		return Result{}, err
	}

	keywords := []string{}
	for _, k := range doc["palabras_clave"].([]any) {
		keywords = append(keywords, k.(string))
	}
	return Result{
		Dependencia:   doc["dependencia"].(string),
		Confianza:     doc["confianza"].(string),
		Motivo:        doc["motivo"].(string),
		PalabrasClave: keywords,
	}, nil
}

func coerceString(v any) any {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return "N/A"
	default:
		return v
	}
}

// coerceConfidence turns a bare number into a percentage string.
func coerceConfidence(v any) any {
	switch c := v.(type) {
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64) + "%"
	case nil:
		return "N/A"
	default:
		return coerceString(v)
	}
}

func coerceKeywords(v any) any {
	switch kw := v.(type) {
	case nil:
		return []any{}
	case string:
		return []any{kw}
	case []any:
		out := make([]any, 0, len(kw))
		for _, item := range kw {
			if s, ok := item.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return v
	}
}
