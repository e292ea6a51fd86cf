package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"africonnect/internal/directory/models"
	id "africonnect/pkg/domain"
	txcontext "africonnect/pkg/platform/tx"
)

// PostgresStore reads user and service documents kept in JSONB columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM users WHERE id = $1`, userID.String()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetService(ctx context.Context, serviceID id.ServiceID) (*models.Service, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM services WHERE id = $1`, serviceID.String()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select service: %w", err)
	}
	var svc models.Service
	if err := json.Unmarshal(raw, &svc); err != nil {
		return nil, fmt.Errorf("decode service: %w", err)
	}
	return &svc, nil
}

func (s *PostgresStore) PutUser(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (id, doc, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		u.ID.String(), raw)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) PutService(ctx context.Context, svc *models.Service) error {
	raw, err := json.Marshal(svc)
	if err != nil {
		return fmt.Errorf("encode service: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO services (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		svc.ID.String(), raw)
	if err != nil {
		return fmt.Errorf("upsert service: %w", err)
	}
	return nil
}

func applyWalletDeltas(ctx context.Context, exec txcontext.Execer, deltas []models.WalletDelta) error {
	for _, d := range deltas {
		tag, err := exec.Exec(ctx, `
			UPDATE users
			SET doc = jsonb_set(doc, '{wallet,balance}', to_jsonb(COALESCE((doc->'wallet'->>'balance')::bigint, 0) + $2::bigint)),
			    updated_at = now()
			WHERE id = $1
			  AND (NOT $3::boolean OR COALESCE((doc->'wallet'->>'balance')::bigint, 0) + $2::bigint >= 0)`,
			d.UserID.String(), d.Amount, d.NoOverdraft)
		if err != nil {
			return fmt.Errorf("update wallet: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, d.UserID.String()).Scan(&exists); err != nil {
				return fmt.Errorf("check wallet owner: %w", err)
			}
			if exists {
				return fmt.Errorf("update wallet for %s: %w", d.UserID, models.ErrInsufficientFunds)
			}
			return fmt.Errorf("update wallet for %s: %w", d.UserID, ErrNotFound)
		}
	}
	return nil
}

// ApplyWalletDeltas applies every delta or none. It joins a transaction
// carried in ctx, so a caller can commit balances together with its own writes.
func (s *PostgresStore) ApplyWalletDeltas(ctx context.Context, deltas []models.WalletDelta) error {
	if tx, ok := txcontext.From(ctx); ok {
		return applyWalletDeltas(ctx, tx, deltas)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return applyWalletDeltas(ctx, tx, deltas)
	})
}
