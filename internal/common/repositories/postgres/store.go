package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/pkg/errs"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Schema holds every ledger table. Queries and migrations name it literally.
const Schema = "stock_ledger"

const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"

	txRetryBase = 50 * time.Millisecond
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ledger runs every repository method against one querier.
type ledger struct {
	psql querier
}

var _ domain.Store = (*Store)(nil)

type Store struct {
	pool      *pgxpool.Pool
	txRetries uint64

	*ledger
}

// NewStore wraps pool. Transactions failing on a deadlock or serialization conflict are
// re-run up to txRetries more times.
func NewStore(pool *pgxpool.Pool, txRetries uint64) *Store {
	return &Store{
		pool:      pool,
		txRetries: txRetries,
		ledger:    &ledger{psql: pool},
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, l domain.Ledger) error) error {
	backoff := retry.WithMaxRetries(s.txRetries, retry.NewExponential(txRetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.runInTx(ctx, fn)
		if isTransient(err) {
			log.Warn("retrying ledger transaction", zap.Error(err))
			return retry.RetryableError(err)
		}

		return err
	})
}

func (s *Store) runInTx(ctx context.Context, fn func(ctx context.Context, l domain.Ledger) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errs.NewStack(err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Error("failed to rollback ledger transaction", zap.Error(err))
		}
	}()

	if err := fn(ctx, &ledger{psql: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgCodeDeadlockDetected || pgErr.Code == pgCodeSerializationFailure
}
