package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Store keeps templates and their invoice payloads in Postgres.
//
//	templates        (id BIGINT PRIMARY KEY, name TEXT, created_at, updated_at)
//	invoice_payloads (template_id BIGINT PRIMARY KEY REFERENCES templates, payload JSONB, updated_at)
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListTemplates(ctx context.Context) ([]invoice.Template, error) {
	query := `
		SELECT id, name
		FROM templates
		ORDER BY name ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []invoice.Template

	for rows.Next() {
		var t invoice.Template
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}

		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}

	return templates, nil
}

func (s *Store) GetPayload(ctx context.Context, templateID int64) (*invoice.Payload, error) {
	query := `
		SELECT payload
		FROM invoice_payloads
		WHERE template_id = $1
	`

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, templateID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting payload: %w", err)
	}

	var p invoice.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding payload for template %d: %w", templateID, err)
	}

	return &p, nil
}

// SaveTemplate upserts the template and its payload in one database
// transaction.
func (s *Store) SaveTemplate(ctx context.Context, t invoice.Template, p *invoice.Payload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	templateQuery := `
		INSERT INTO templates (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`
	if _, err := dbTx.ExecContext(ctx, templateQuery, t.ID, t.Name); err != nil {
		return fmt.Errorf("upserting template: %w", err)
	}

	payloadQuery := `
		INSERT INTO invoice_payloads (template_id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (template_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := dbTx.ExecContext(ctx, payloadQuery, t.ID, raw); err != nil {
		return fmt.Errorf("upserting payload: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
