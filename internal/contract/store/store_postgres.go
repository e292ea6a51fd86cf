package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"africonnect/internal/contract/models"
	id "africonnect/pkg/domain"
)

const uniqueViolation = "23505"

// PostgresStore keeps each contract as one JSONB document. Party ids, status
// and version are promoted to columns for listing and the optimistic update.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func decode(raw []byte, version int64) (*models.Contract, error) {
	var c models.Contract
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode contract: %w", err)
	}
	c.Version = version
	return &c, nil
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Contract) error {
	c.Version = 1
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode contract: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO contracts (id, client_id, provider_id, status, version, created_at, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID.String(), c.ClientID.String(), c.ProviderID.String(), string(c.Status), c.Version, c.CreatedAt, raw)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("contract %s: %w", c.ID, ErrConflict)
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, contractID id.ContractID) (*models.Contract, error) {
	var raw []byte
	var version int64
	err := s.pool.QueryRow(ctx, `SELECT doc, version FROM contracts WHERE id = $1`, contractID.String()).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return decode(raw, version)
}

// Update writes c if nobody else has since the caller read it.
func (s *PostgresStore) Update(ctx context.Context, c *models.Contract) error {
	next := *c
	next.Version = c.Version + 1
	raw, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode contract: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE contracts SET status = $2, version = $3, doc = $4
		WHERE id = $1 AND version = $5`,
		c.ID.String(), string(c.Status), next.Version, raw, c.Version)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, c.ID); err != nil {
			return err
		}
		return fmt.Errorf("contract %s at version %d is stale: %w", c.ID, c.Version, ErrConflict)
	}
	c.Version = next.Version
	return nil
}

const partyFilter = `
	WHERE (($2 = 'client' AND client_id = $1)
	    OR ($2 = 'provider' AND provider_id = $1)
	    OR ($2 = '' AND (client_id = $1 OR provider_id = $1)))
	  AND ($3 = '' OR status = $3)`

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Contract, int, error) {
	args := []any{filter.UserID.String(), string(filter.Role), string(filter.Status)}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contracts`+partyFilter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contracts: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT doc, version FROM contracts`+partyFilter+`
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`,
		append(args, models.PageSize, filter.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.Contract, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc, version FROM contracts WHERE status = $1 ORDER BY created_at DESC, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list contracts by status: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*models.Contract, error) {
	defer rows.Close()
	var out []*models.Contract
	for rows.Next() {
		var raw []byte
		var version int64
		if err := rows.Scan(&raw, &version); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		c, err := decode(raw, version)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return out, nil
}
