package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
)

const selectClientAccount = `SELECT
		id,
		user_id,
		telegram_id,
		language_code,
		cash_available,
		cash_blocked,
		created_at,
		updated_at
	FROM stock_ledger.client_accounts
	WHERE id = $1`

func (l *ledger) GetClientAccount(ctx context.Context, id int64) (*domain.ClientAccount, error) {
	return l.getClientAccount(ctx, selectClientAccount, id)
}

func (l *ledger) GetClientAccountForUpdate(ctx context.Context, id int64) (*domain.ClientAccount, error) {
	return l.getClientAccount(ctx, selectClientAccount+` FOR UPDATE`, id)
}

func (l *ledger) getClientAccount(ctx context.Context, query string, id int64) (*domain.ClientAccount, error) {
	account := &ClientAccount{}
	if err := l.psql.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.UserID,
		&account.TelegramID,
		&account.LanguageCode,
		&account.CashAvailable,
		&account.CashBlocked,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledgererrs.ErrClientNotFound
		}

		return nil, errs.NewStack(err)
	}

	return account.CreateDomain(), nil
}

// UpdateClientAccount writes the cash balances only.
func (l *ledger) UpdateClientAccount(ctx context.Context, account *domain.ClientAccount) error {
	query := `UPDATE stock_ledger.client_accounts
		SET cash_available = $1,
			cash_blocked = $2,
			updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`
	if err := l.psql.QueryRow(ctx, query,
		account.CashAvailable,
		account.CashBlocked,
		account.ID,
	).Scan(&account.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledgererrs.ErrClientNotFound
		}

		return errs.NewStack(err)
	}

	return nil
}
