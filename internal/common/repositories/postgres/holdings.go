package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
	"github.com/shopspring/decimal"
)

func (l *ledger) GetActiveHoldingForUpdate(ctx context.Context, portfolioID, stockID int64) (*domain.Holding, error) {
	query := `SELECT
			id,
			portfolio_id,
			stock_id,
			quantity,
			average_price,
			total_invested,
			last_trade_price,
			current_value,
			status,
			created_at,
			updated_at
		FROM stock_ledger.holdings
		WHERE portfolio_id = $1 AND stock_id = $2 AND status = 'active'
		FOR UPDATE`
	holding := &Holding{}
	if err := l.psql.QueryRow(ctx, query, portfolioID, stockID).Scan(
		&holding.ID,
		&holding.PortfolioID,
		&holding.StockID,
		&holding.Quantity,
		&holding.AveragePrice,
		&holding.TotalInvested,
		&holding.LastTradePrice,
		&holding.CurrentValue,
		&holding.Status,
		&holding.CreatedAt,
		&holding.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledgererrs.ErrHoldingNotFound
		}

		return nil, errs.NewStack(err)
	}

	return holding.CreateDomain(), nil
}

func (l *ledger) CreateHolding(ctx context.Context, holding *domain.Holding) error {
	query := `INSERT INTO stock_ledger.holdings(
			portfolio_id,
			stock_id,
			quantity,
			average_price,
			total_invested,
			last_trade_price,
			current_value,
			status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	if err := l.psql.QueryRow(ctx, query,
		holding.PortfolioID,
		holding.StockID,
		holding.Quantity,
		holding.AveragePrice,
		holding.TotalInvested,
		holding.LastTradePrice,
		holding.CurrentValue,
		string(holding.Status),
	).Scan(&holding.ID, &holding.CreatedAt, &holding.UpdatedAt); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) UpdateHolding(ctx context.Context, holding *domain.Holding) error {
	query := `UPDATE stock_ledger.holdings
		SET quantity = $1,
			average_price = $2,
			total_invested = $3,
			last_trade_price = $4,
			current_value = $5,
			status = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`
	if err := l.psql.QueryRow(ctx, query,
		holding.Quantity,
		holding.AveragePrice,
		holding.TotalInvested,
		holding.LastTradePrice,
		holding.CurrentValue,
		string(holding.Status),
		holding.ID,
	).Scan(&holding.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledgererrs.ErrHoldingNotFound
		}

		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) ListActiveHoldingValuations(ctx context.Context, portfolioID int64) ([]*domain.HoldingValuation, error) {
	return l.listHoldings(ctx, portfolioID, true)
}

func (l *ledger) ListHoldings(ctx context.Context, portfolioID int64) ([]*domain.HoldingValuation, error) {
	return l.listHoldings(ctx, portfolioID, false)
}

func (l *ledger) listHoldings(ctx context.Context, portfolioID int64, activeOnly bool) ([]*domain.HoldingValuation, error) {
	query := `SELECT
			h.id,
			h.portfolio_id,
			h.stock_id,
			h.quantity,
			h.average_price,
			h.total_invested,
			h.last_trade_price,
			h.current_value,
			h.status,
			h.created_at,
			h.updated_at,
			s.symbol,
			s.last_price
		FROM stock_ledger.holdings h
		JOIN stock_ledger.stocks s
			ON h.stock_id = s.id
		WHERE h.portfolio_id = $1 AND (NOT $2 OR h.status = 'active')
		ORDER BY h.id`
	rows, err := l.psql.Query(ctx, query, portfolioID, activeOnly)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	valuations := []*domain.HoldingValuation{}
	for rows.Next() {
		var (
			holding   = &Holding{}
			symbol    string
			lastPrice decimal.NullDecimal
		)

		if err := rows.Scan(
			&holding.ID,
			&holding.PortfolioID,
			&holding.StockID,
			&holding.Quantity,
			&holding.AveragePrice,
			&holding.TotalInvested,
			&holding.LastTradePrice,
			&holding.CurrentValue,
			&holding.Status,
			&holding.CreatedAt,
			&holding.UpdatedAt,
			&symbol,
			&lastPrice,
		); err != nil {
			return nil, errs.NewStack(err)
		}

		valuations = append(valuations, &domain.HoldingValuation{
			Holding:   holding.CreateDomain(),
			Symbol:    symbol,
			LastPrice: lastPrice,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStack(err)
	}

	return valuations, nil
}
