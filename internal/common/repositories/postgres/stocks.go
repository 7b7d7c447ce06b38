package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
	"github.com/shopspring/decimal"
)

func (l *ledger) GetStock(ctx context.Context, id int64) (*domain.Stock, error) {
	query := `SELECT id, symbol, name, last_price, updated_at, created_at
		FROM stock_ledger.stocks
		WHERE id = $1`
	stock := &Stock{}
	if err := l.psql.QueryRow(ctx, query, id).Scan(
		&stock.ID,
		&stock.Symbol,
		&stock.Name,
		&stock.LastPrice,
		&stock.UpdatedAt,
		&stock.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledgererrs.ErrStockNotFound
		}

		return nil, errs.NewStack(err)
	}

	return stock.CreateDomain(), nil
}

func (l *ledger) ListStocks(ctx context.Context) ([]*domain.Stock, error) {
	query := `SELECT id, symbol, name, last_price, updated_at, created_at
		FROM stock_ledger.stocks
		ORDER BY id`
	rows, err := l.psql.Query(ctx, query)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	stocks := []*domain.Stock{}
	for rows.Next() {
		stock := &Stock{}
		if err := rows.Scan(
			&stock.ID,
			&stock.Symbol,
			&stock.Name,
			&stock.LastPrice,
			&stock.UpdatedAt,
			&stock.CreatedAt,
		); err != nil {
			return nil, errs.NewStack(err)
		}

		stocks = append(stocks, stock.CreateDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStack(err)
	}

	return stocks, nil
}

func (l *ledger) UpdateStockPrice(ctx context.Context, id int64, price decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE stock_ledger.stocks
		SET last_price = $1,
			updated_at = $2
		WHERE id = $3`
	tag, err := l.psql.Exec(ctx, query, price, updatedAt, id)
	if err != nil {
		return errs.NewStack(err)
	}

	if tag.RowsAffected() == 0 {
		return ledgererrs.ErrStockNotFound
	}

	return nil
}
