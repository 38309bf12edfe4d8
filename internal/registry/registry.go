package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/honterplatform/icetex/internal/shared/telemetry"
)

// Column header keywords used to pick which columns a search runs over.
var nameColumnKeywords = []string{
	"nombre", "name", "apellido", "surname", "completo", "full",
	"primer", "segundo", "primer_nombre", "segundo_nombre",
	"razon social", "razón social", "representante legal",
}

var idColumnKeywords = []string{
	"id", "cedula", "cedula_ciudadania", "cédula", "documento", "document",
	"numero", "número", "numero_documento", "identificacion", "identificación",
	"dni", "pasaporte", "nit",
}

// Field is one cell of a matching row.
type Field struct {
	Column string
	Value  string
}

// Record is one matching row with fields in sheet order.
type Record []Field

// Get returns the value for a column, or "" when the record lacks it.
func (r Record) Get(column string) string {
	for _, f := range r {
		if f.Column == column {
			return f.Value
		}
	}
	return ""
}

// MarshalJSON renders the record as an object keyed by column name, keeping
// sheet order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Info describes the loaded workbook.
type Info struct {
	FileExists  bool     `json:"file_exists"`
	FilePath    string   `json:"file_path,omitempty"`
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	NameColumns []string `json:"name_columns,omitempty"`
	IDColumns   []string `json:"id_columns,omitempty"`
}

// Registry holds the contractor workbook in memory and answers substring
// searches over its name and ID columns.
type Registry struct {
	path string

	mu      sync.RWMutex
	columns []string
	rows    [][]string
	nameIdx []int
	idIdx   []int
}

// Load reads the workbook at path. The first sheet's first row is the header.
func Load(path string) (*Registry, error) {
	if path == "" {
		return nil, errors.New("registry: file path required")
	}
	r := &Registry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the workbook from disk, replacing the in-memory rows.
func (r *Registry) Reload() error {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return fmt.Errorf("registry: open %s: %w", filepath.Base(r.path), err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return errors.New("registry: workbook has no sheets")
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("registry: read rows: %w", err)
	}
	if len(all) == 0 {
		return errors.New("registry: sheet is empty")
	}

	columns := make([]string, len(all[0]))
	for i, c := range all[0] {
		columns[i] = strings.TrimSpace(c)
	}

	rows := make([][]string, 0, len(all)-1)
	for _, raw := range all[1:] {
		row := make([]string, len(columns))
		for i := range columns {
			if i < len(raw) {
				row[i] = strings.TrimSpace(raw[i])
			}
		}
		rows = append(rows, row)
	}

	nameIdx := detectColumns(columns, nameColumnKeywords)
	if len(nameIdx) == 0 {
		// No recognizable name columns; search the leading columns instead.
		for i := 0; i < len(columns) && i < 3; i++ {
			nameIdx = append(nameIdx, i)
		}
	}
	idIdx := detectColumns(columns, idColumnKeywords)

	r.mu.Lock()
	r.columns, r.rows, r.nameIdx, r.idIdx = columns, rows, nameIdx, idIdx
	r.mu.Unlock()

	telemetry.Info("registry.load", map[string]any{
		"path":    r.path,
		"rows":    len(rows),
		"columns": len(columns),
	})
	return nil
}

func detectColumns(columns, keywords []string) []int {
	var idx []int
	for i, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// Search returns rows whose name or ID columns contain term,
// case-insensitively.
func (r *Registry) Search(term string) []Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	searchIdx := make([]int, 0, len(r.nameIdx)+len(r.idIdx))
	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, r.nameIdx...), r.idIdx...) {
		if !seen[i] {
			seen[i] = true
			searchIdx = append(searchIdx, i)
		}
	}

	var out []Record
	for _, row := range r.rows {
		if !rowMatches(row, searchIdx, term) {
			continue
		}
		rec := make(Record, len(r.columns))
		for i, col := range r.columns {
			rec[i] = Field{Column: col, Value: row[i]}
		}
		out = append(out, rec)
	}
	return out
}

func rowMatches(row []string, idx []int, term string) bool {
	for _, i := range idx {
		if i < len(row) && strings.Contains(strings.ToLower(row[i]), term) {
			return true
		}
	}
	return false
}

// IsAvailable reports whether a workbook is loaded.
func (r *Registry) IsAvailable() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.columns) > 0
}

// Columns returns the header row of the loaded workbook.
func (r *Registry) Columns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.columns...)
}

// Info reports what was loaded and which columns searches run over.
func (r *Registry) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.nameIdx))
	for _, i := range r.nameIdx {
		names = append(names, r.columns[i])
	}
	ids := make([]string, 0, len(r.idIdx))
	for _, i := range r.idIdx {
		ids = append(ids, r.columns[i])
	}

	return Info{
		FileExists:  true,
		FilePath:    r.path,
		Rows:        len(r.rows),
		Columns:     append([]string(nil), r.columns...),
		NameColumns: names,
		IDColumns:   ids,
	}
}
