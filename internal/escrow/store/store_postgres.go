package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	dirmodels "africonnect/internal/directory/models"
	"africonnect/internal/escrow/models"
	id "africonnect/pkg/domain"
	txcontext "africonnect/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore keeps transactions as JSONB documents with the columns the
// escrow-once index needs pulled out alongside.
type PostgresStore struct {
	pool    *pgxpool.Pool
	wallets WalletApplier
}

// NewPostgres expects a WalletApplier that joins the transaction carried in
// ctx, so balances commit together with the settlement.
func NewPostgres(pool *pgxpool.Pool, wallets WalletApplier) *PostgresStore {
	return &PostgresStore{pool: pool, wallets: wallets}
}

func milestoneParam(m *id.MilestoneID) any {
	if m == nil {
		return nil
	}
	return m.String()
}

func contractParam(c *id.ContractID) any {
	if c == nil {
		return nil
	}
	return c.String()
}

func decode(raw []byte) (*models.Transaction, error) {
	var tx models.Transaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

func (s *PostgresStore) Create(ctx context.Context, tx *models.Transaction) error {
	raw, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	_, err = txcontext.ExecerFrom(ctx, s.pool).Exec(ctx, `
		INSERT INTO transactions (id, type, status, contract_id, milestone_id, sender_id, recipient_id, created_at, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tx.ID.String(), string(tx.Type), string(tx.Status),
		contractParam(tx.ContractID), milestoneParam(tx.MilestoneID),
		tx.SenderID.String(), tx.RecipientID.String(), tx.CreatedAt, raw)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("transaction %s: %w", tx.ID, ErrConflict)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, txID id.TransactionID) (*models.Transaction, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM transactions WHERE id = $1`, txID.String()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select transaction: %w", err)
	}
	return decode(raw)
}

func (s *PostgresStore) ListByContract(ctx context.Context, contractID id.ContractID) ([]*models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc FROM transactions WHERE contract_id = $1 ORDER BY created_at DESC`,
		contractID.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Transaction, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindCompleted(ctx context.Context, contractID id.ContractID, milestoneID *id.MilestoneID, txType models.TransactionType) (*models.Transaction, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT doc FROM transactions
		WHERE contract_id = $1
		  AND milestone_id IS NOT DISTINCT FROM $2::uuid
		  AND type = $3
		  AND status = 'completed'
		LIMIT 1`,
		contractID.String(), milestoneParam(milestoneID), string(txType)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find completed transaction: %w", err)
	}
	return decode(raw)
}

func (s *PostgresStore) MarkTerminal(ctx context.Context, txID id.TransactionID, status models.TransactionStatus, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET status = $2,
		    doc = doc || jsonb_build_object('status', $2::text, 'failure_reason', $3::text, 'updated_at', $4::timestamptz)
		WHERE id = $1 AND status = 'pending'`,
		txID.String(), string(status), reason, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark transaction %s: %w", status, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Get(ctx, txID); err != nil {
			return err
		}
		return fmt.Errorf("transaction %s is no longer pending: %w", txID, ErrConflict)
	}
	return nil
}

// CommitSettlement completes tx and applies deltas in one database
// transaction. The partial unique index turns a concurrent second completion
// for the same pair into ErrConflict.
func (s *PostgresStore) CommitSettlement(ctx context.Context, tx *models.Transaction, deltas []dirmodels.WalletDelta) error {
	committed := *tx
	committed.Status = models.StatusCompleted
	committed.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(committed)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	err = pgx.BeginFunc(ctx, s.pool, func(pgTx pgx.Tx) error {
		tag, err := pgTx.Exec(ctx, `
			UPDATE transactions SET status = 'completed', doc = $2
			WHERE id = $1 AND status = 'pending'`,
			tx.ID.String(), raw)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("transaction %s is no longer pending: %w", tx.ID, ErrConflict)
		}
		if len(deltas) == 0 {
			return nil
		}
		return s.wallets.ApplyWalletDeltas(txcontext.WithTx(ctx, pgTx), deltas)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("completed %s exists for pair: %w", tx.Type, ErrConflict)
		}
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("commit settlement: %w", err)
	}
	tx.Status = committed.Status
	tx.UpdatedAt = committed.UpdatedAt
	return nil
}

func (s *PostgresStore) AttachSettlement(ctx context.Context, txID id.TransactionID, ref models.BlockchainRef) (*models.Transaction, error) {
	refRaw, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("encode blockchain ref: %w", err)
	}
	var raw []byte
	err = s.pool.QueryRow(ctx, `
		UPDATE transactions
		SET doc = doc || jsonb_build_object('blockchain', $2::jsonb, 'updated_at', $3::timestamptz)
		WHERE id = $1
		RETURNING doc`,
		txID.String(), string(refRaw), time.Now().UTC()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("attach settlement: %w", err)
	}
	return decode(raw)
}
