package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
)

const (
	pgCodeForeignKeyViolation = "23503"

	selectPortfolio = `SELECT
		id,
		client_id,
		name,
		total_invested,
		current_value,
		average_price,
		is_active,
		created_at,
		updated_at
	FROM stock_ledger.portfolios
	WHERE id = $1`
)

func (l *ledger) CreatePortfolio(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `INSERT INTO stock_ledger.portfolios(
			client_id,
			name,
			total_invested,
			current_value,
			average_price,
			is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	if err := l.psql.QueryRow(ctx, query,
		portfolio.ClientID,
		portfolio.Name,
		portfolio.TotalInvested,
		portfolio.CurrentValue,
		portfolio.AveragePrice,
		portfolio.IsActive,
	).Scan(&portfolio.ID, &portfolio.CreatedAt, &portfolio.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCodeForeignKeyViolation {
			return ledgererrs.ErrClientNotFound
		}

		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) GetPortfolio(ctx context.Context, id int64) (*domain.Portfolio, error) {
	return l.getPortfolio(ctx, selectPortfolio, id)
}

func (l *ledger) GetPortfolioForUpdate(ctx context.Context, id int64) (*domain.Portfolio, error) {
	return l.getPortfolio(ctx, selectPortfolio+` FOR UPDATE`, id)
}

func (l *ledger) getPortfolio(ctx context.Context, query string, id int64) (*domain.Portfolio, error) {
	portfolio := &Portfolio{}
	if err := l.psql.QueryRow(ctx, query, id).Scan(
		&portfolio.ID,
		&portfolio.ClientID,
		&portfolio.Name,
		&portfolio.TotalInvested,
		&portfolio.CurrentValue,
		&portfolio.AveragePrice,
		&portfolio.IsActive,
		&portfolio.CreatedAt,
		&portfolio.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledgererrs.ErrPortfolioNotFound
		}

		return nil, errs.NewStack(err)
	}

	return portfolio.CreateDomain(), nil
}

// UpdatePortfolioValuation writes the aggregate fields only.
func (l *ledger) UpdatePortfolioValuation(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `UPDATE stock_ledger.portfolios
		SET total_invested = $1,
			current_value = $2,
			average_price = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`
	if err := l.psql.QueryRow(ctx, query,
		portfolio.TotalInvested,
		portfolio.CurrentValue,
		portfolio.AveragePrice,
		portfolio.ID,
	).Scan(&portfolio.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledgererrs.ErrPortfolioNotFound
		}

		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) ListActivePortfolioIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM stock_ledger.portfolios WHERE is_active ORDER BY id`

	return l.listIDs(ctx, query)
}

func (l *ledger) ListPortfolioIDsHoldingStocks(ctx context.Context, stockIDs []int64) ([]int64, error) {
	query := `SELECT DISTINCT portfolio_id
		FROM stock_ledger.holdings
		WHERE status = 'active' AND stock_id = ANY($1)
		ORDER BY portfolio_id`

	return l.listIDs(ctx, query, stockIDs)
}

func (l *ledger) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := l.psql.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.NewStack(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, errs.NewStack(err)
	}

	return ids, nil
}
