package petitions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a classified petition.
func (r *PGRepo) Create(ctx context.Context, p Petition) error {
	const query = `
INSERT INTO petitions (
	id, file_name, object_key, dependencia, confianza, motivo, palabras_clave,
	model, text_length, text_preview, extraction_method, reduced, size_bytes, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11, $12, $13, $14)`

	keywords, err := marshalKeywords(p.PalabrasClave)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.FileName,
		p.StorageKey,
		p.Dependencia,
		p.Confianza,
		p.Motivo,
		keywords,
		p.Model,
		p.TextLength,
		p.TextPreview,
		p.Method,
		p.Reduced,
		p.SizeBytes,
		p.CreatedAt,
	)
	return err
}

// GetByID returns a petition by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Petition, error) {
	const query = `
SELECT id, file_name, object_key, dependencia, confianza, motivo, palabras_clave,
       model, text_length, text_preview, extraction_method, reduced, size_bytes, created_at
FROM petitions
WHERE id = $1
LIMIT 1`

	p, err := scanPetition(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Petition{}, ErrNotFound
	}
	return p, err
}

// List returns petitions newest first, honoring limit/offset.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Petition, error) {
	const query = `
SELECT id, file_name, object_key, dependencia, confianza, motivo, palabras_clave,
       model, text_length, text_preview, extraction_method, reduced, size_bytes, created_at
FROM petitions
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Petition{}
	for rows.Next() {
		p, err := scanPetition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPetition(row rowScanner) (Petition, error) {
	var p Petition
	var keywords []byte
	if err := row.Scan(
		&p.ID,
		&p.FileName,
		&p.StorageKey,
		&p.Dependencia,
		&p.Confianza,
		&p.Motivo,
		&keywords,
		&p.Model,
		&p.TextLength,
		&p.TextPreview,
		&p.Method,
		&p.Reduced,
		&p.SizeBytes,
		&p.CreatedAt,
	); err != nil {
		return Petition{}, err
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &p.PalabrasClave); err != nil {
			return Petition{}, err
		}
	}
	return p, nil
}

func marshalKeywords(words []string) ([]byte, error) {
	if words == nil {
		words = []string{}
	}
	return json.Marshal(words)
}
