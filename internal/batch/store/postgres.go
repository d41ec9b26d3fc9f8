package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"soulmint/internal/batch/models"
	id "soulmint/pkg/domain"
	"soulmint/pkg/platform/sentinel"
	txcontext "soulmint/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists registries in the batches table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const batchColumns = `id, authority, treasury, fee_amount, cap, issued_count, completed,
	voucher_signer, created_at, updated_at, completed_at`

func (s *PostgresStore) Create(ctx context.Context, batch *models.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(batch.ID),
		batch.Authority.Bytes(),
		batch.Treasury.Bytes(),
		int64(batch.FeeAmount),
		batch.Cap,
		batch.IssuedCount,
		batch.Completed,
		nullableAccount(batch.VoucherSigner),
		batch.CreatedAt,
		batch.UpdatedAt,
		batch.CompletedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("authority %s: %w", batch.Authority, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, batchID id.BatchID) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return scanBatch(txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(batchID)))
}

func (s *PostgresStore) FindByAuthority(ctx context.Context, authority id.AccountID) (*models.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE authority = $1`
	return scanBatch(txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, authority.Bytes()))
}

// Advance locks the row, checks the expected count, stages the update and runs
// commit in the same transaction.
func (s *PostgresStore) Advance(ctx context.Context, batchID id.BatchID, expected int, now time.Time, commit CommitFunc) (*models.Batch, error) {
	var updated *models.Batch
	err := txcontext.Run(ctx, s.db, func(txCtx context.Context) error {
		exec := txcontext.Exec(txCtx, s.db)
		query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
		current, err := scanBatch(exec.QueryRowContext(txCtx, query, uuid.UUID(batchID)))
		if err != nil {
			return err
		}
		if current.IssuedCount != expected {
			return fmt.Errorf("batch %s count %d, expected %d: %w", batchID, current.IssuedCount, expected, sentinel.ErrConflict)
		}
		if err := current.CanIssue(); err != nil {
			return err
		}
		current.ApplyIssuance(now)

		res, err := exec.ExecContext(txCtx, `
			UPDATE batches
			SET issued_count = $2, completed = $3, updated_at = $4, completed_at = $5
			WHERE id = $1 AND issued_count = $6
		`, uuid.UUID(batchID), current.IssuedCount, current.Completed, current.UpdatedAt, current.CompletedAt, expected)
		if err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("update batch rows: %w", err)
		} else if n != 1 {
			return fmt.Errorf("batch %s: %w", batchID, sentinel.ErrConflict)
		}

		if commit != nil {
			if err := commit(txCtx, current.Clone()); err != nil {
				return err
			}
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (*models.Batch, error) {
	var (
		batchID          uuid.UUID
		authority, treas []byte
		voucherSigner    []byte
		fee              int64
		completedAt      sql.NullTime
		b                models.Batch
	)
	err := row.Scan(&batchID, &authority, &treas, &fee, &b.Cap, &b.IssuedCount, &b.Completed,
		&voucherSigner, &b.CreatedAt, &b.UpdatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	b.ID = id.BatchID(batchID)
	b.Authority = accountFromBytes(authority)
	b.Treasury = accountFromBytes(treas)
	b.FeeAmount = uint64(fee)
	if len(voucherSigner) > 0 {
		b.VoucherSigner = accountFromBytes(voucherSigner)
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.CompletedAt = &t
	}
	return &b, nil
}

func nullableAccount(a id.AccountID) any {
	if a.IsNil() {
		return nil
	}
	return a.Bytes()
}

func accountFromBytes(b []byte) id.AccountID {
	return id.AccountID(common.BytesToAddress(b))
}
