package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
)

// NextOrderCode draws from order_code_seq. Sequence values are never handed out twice,
// even when the drawing transaction rolls back.
func (l *ledger) NextOrderCode(ctx context.Context) (string, error) {
	query := `SELECT nextval('stock_ledger.order_code_seq')`
	var seq int64
	if err := l.psql.QueryRow(ctx, query).Scan(&seq); err != nil {
		return "", errs.NewStack(err)
	}

	return domain.FormatOrderCode(seq), nil
}

func (l *ledger) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO stock_ledger.orders(code, client_id, kind, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err := l.psql.QueryRow(ctx, query,
		order.Code,
		order.ClientID,
		string(order.Kind),
		order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) CreateOrderLineItem(ctx context.Context, item *domain.OrderLineItem) error {
	query := `INSERT INTO stock_ledger.order_line_items(
			order_id,
			position,
			stock_id,
			portfolio_id,
			holding_id,
			quantity,
			unit_price,
			cost_basis
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := l.psql.QueryRow(ctx, query,
		item.OrderID,
		item.Position,
		item.StockID,
		item.PortfolioID,
		item.HoldingID,
		item.Quantity,
		item.UnitPrice,
		item.CostBasis,
	).Scan(&item.ID); err != nil {
		return errs.NewStack(err)
	}

	return nil
}

func (l *ledger) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	query := `SELECT id, code, client_id, kind, total_amount, created_at
		FROM stock_ledger.orders
		WHERE code = $1`
	row := &Order{}
	if err := l.psql.QueryRow(ctx, query, code).Scan(
		&row.ID,
		&row.Code,
		&row.ClientID,
		&row.Kind,
		&row.TotalAmount,
		&row.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledgererrs.ErrOrderNotFound
		}

		return nil, errs.NewStack(err)
	}

	order := row.CreateDomain()

	lineItems, err := l.listOrderLineItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.LineItems = lineItems

	return order, nil
}

func (l *ledger) listOrderLineItems(ctx context.Context, orderID int64) ([]*domain.OrderLineItem, error) {
	query := `SELECT
			li.id,
			li.order_id,
			li.position,
			li.stock_id,
			s.symbol,
			li.portfolio_id,
			li.holding_id,
			li.quantity,
			li.unit_price,
			li.cost_basis
		FROM stock_ledger.order_line_items li
		JOIN stock_ledger.stocks s
			ON li.stock_id = s.id
		WHERE li.order_id = $1
		ORDER BY li.position`
	rows, err := l.psql.Query(ctx, query, orderID)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	lineItems := []*domain.OrderLineItem{}
	for rows.Next() {
		item := &OrderLineItem{}
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.Position,
			&item.StockID,
			&item.Symbol,
			&item.PortfolioID,
			&item.HoldingID,
			&item.Quantity,
			&item.UnitPrice,
			&item.CostBasis,
		); err != nil {
			return nil, errs.NewStack(err)
		}

		lineItems = append(lineItems, item.CreateDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStack(err)
	}

	return lineItems, nil
}

func (l *ledger) ListClientOrders(ctx context.Context, clientID int64, r domain.DateRange) ([]*domain.Order, error) {
	query := `SELECT id, code, client_id, kind, total_amount, created_at
		FROM stock_ledger.orders
		WHERE client_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at, id`
	rows, err := l.psql.Query(ctx, query, clientID, r.From, r.To)
	if err != nil {
		return nil, errs.NewStack(err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		row := &Order{}
		if err := rows.Scan(
			&row.ID,
			&row.Code,
			&row.ClientID,
			&row.Kind,
			&row.TotalAmount,
			&row.CreatedAt,
		); err != nil {
			return nil, errs.NewStack(err)
		}

		orders = append(orders, row.CreateDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, errs.NewStack(err)
	}

	return orders, nil
}
