package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
)

func (l *ledger) AppendValueHistory(ctx context.Context, point *domain.ValueHistoryPoint) error {
	query := `INSERT INTO stock_ledger.portfolio_value_history(portfolio_id, value, recorded_at)
		VALUES ($1, $2, COALESCE($3, NOW()))
		RETURNING id, recorded_at`

	var recordedAt any
	if !point.RecordedAt.IsZero() {
		recordedAt = point.RecordedAt
	}

	if err := l.psql.QueryRow(ctx, query,
		point.PortfolioID,
		point.Value,
		recordedAt,
	).Scan(&point.ID, &point.RecordedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCodeForeignKeyViolation {
			return ledgererrs.ErrPortfolioNotFound
		}

		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) ListValueHistory(ctx context.Context, portfolioID int64, r domain.DateRange) ([]*domain.ValueHistoryPoint, error) {
	query := `SELECT id, portfolio_id, value, recorded_at
		FROM stock_ledger.portfolio_value_history
		WHERE portfolio_id = $1 AND recorded_at BETWEEN $2 AND $3
		ORDER BY recorded_at, id`
	rows, err := l.psql.Query(ctx, query, portfolioID, r.From, r.To)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	points := []*domain.ValueHistoryPoint{}
	for rows.Next() {
		point := &domain.ValueHistoryPoint{}
		if err := rows.Scan(&point.ID, &point.PortfolioID, &point.Value, &point.RecordedAt); err != nil {
			return nil, errs.NewStack(err)
		}

		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStack(err)
	}

	return points, nil
}
