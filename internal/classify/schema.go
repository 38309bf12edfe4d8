package classify

import "github.com/santhosh-tekuri/jsonschema/v5"

// resultSchema is what the model must return after lenient normalization.
const resultSchema = `{
  "type": "object",
  "required": ["dependencia", "confianza", "motivo", "palabras_clave"],
  "properties": {
    "dependencia": {"type": "string", "minLength": 1},
    "confianza": {"type": "string"},
    "motivo": {"type": "string"},
    "palabras_clave": {"type": "array", "items": {"type": "string"}}
  }
}`

var resultSchemaCompiled = jsonschema.MustCompileString("classification.schema.json", resultSchema)
