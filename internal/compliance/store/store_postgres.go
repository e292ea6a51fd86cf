package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/ports"
)

// PostgresStore keeps regulation documents in JSONB with country and status
// promoted to indexed columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindActive(ctx context.Context, q ports.RegulationQuery) ([]models.Regulation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc FROM regulations
		WHERE country = ANY($1)
		  AND status = 'active'
		  AND ($2 = '' OR doc->>'sector' = $2)
		  AND ($3 = '' OR COALESCE(doc->'applicability'->'professional_types', '[]'::jsonb) ? $3)`,
		q.Countries, q.Sector, q.ProfessionalType)
	if err != nil {
		return nil, fmt.Errorf("query regulations: %w", err)
	}
	defer rows.Close()

	var out []models.Regulation
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan regulation: %w", err)
		}
		var r models.Regulation
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode regulation: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regulations: %w", err)
	}
	return out, nil
}

// Upsert is used for seeding; the engine itself never writes regulations.
func (s *PostgresStore) Upsert(ctx context.Context, r models.Regulation) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode regulation: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO regulations (id, country, status, doc) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET country = EXCLUDED.country, status = EXCLUDED.status, doc = EXCLUDED.doc`,
		r.ID.String(), r.Country, string(r.Status), raw)
	if err != nil {
		return fmt.Errorf("upsert regulation: %w", err)
	}
	return nil
}
