package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
)

type OrdersRepository interface {
	// NextOrderCode draws a code that no other order can receive, even concurrently.
	NextOrderCode(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *Order) error
	CreateOrderLineItem(ctx context.Context, item *OrderLineItem) error
	GetOrderByCode(ctx context.Context, code string) (*Order, error)
	// ListClientOrders returns orders without line items, oldest first.
	ListClientOrders(ctx context.Context, clientID int64, r DateRange) ([]*Order, error)
}

type OrderKind string

const (
	OrderKindBuy  OrderKind = "buy"
	OrderKindSell OrderKind = "sell"
)

func (k OrderKind) Valid() bool {
	return k == OrderKindBuy || k == OrderKindSell
}

// Order is the immutable record of an executed buy or sell.
type Order struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	ClientID    int64           `json:"client_id"`
	Kind        OrderKind       `json:"kind"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	CreatedAt time.Time `json:"created_at"`

	LineItems []*OrderLineItem `json:"line_items"`
}

type OrderLineItem struct {
	ID       int64 `json:"id"`
	OrderID  int64 `json:"order_id"`
	Position int   `json:"position"`

	StockID     int64  `json:"stock_id"`
	Symbol      string `json:"symbol"`
	PortfolioID int64  `json:"portfolio_id"`
	HoldingID   int64  `json:"holding_id"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	// CostBasis is the holding's average price once the line was applied.
	CostBasis decimal.Decimal `json:"cost_basis"`
}

func (li *OrderLineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(li.Quantity)
}

// RealizedGain is (UnitPrice - CostBasis) * Quantity for sell lines and 0 for buys.
func (li *OrderLineItem) RealizedGain(kind OrderKind) decimal.Decimal {
	if kind != OrderKindSell {
		return decimal.Zero
	}

	return li.UnitPrice.Sub(li.CostBasis).Mul(li.Quantity)
}

func FormatOrderCode(seq int64) string {
	return fmt.Sprintf("%s%0*d", OrderCodePrefix, OrderCodeDigits, seq)
}

// OrderRequest is the submission payload shared by buy and sell.
type OrderRequest struct {
	ClientID    int64              `json:"client_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Details     []OrderLineRequest `json:"details"`
}

type OrderLineRequest struct {
	StockID     int64           `json:"stock_id"`
	PortfolioID int64           `json:"portfolio_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r *OrderRequest) Validate() error {
	if r.ClientID <= 0 {
		return ledgererrs.NewValidationError("client_id", "must be positive")
	}

	if !r.TotalAmount.IsPositive() {
		return ledgererrs.NewValidationError("total_amount", "must be positive")
	}

	if !fitsScale(r.TotalAmount, MoneyScale) {
		return ledgererrs.NewValidationError("total_amount", fmt.Sprintf("must have at most %d decimal places", MoneyScale))
	}

	if len(r.Details) == 0 {
		return ledgererrs.NewValidationError("details", "at least one line item is required")
	}

	for i, d := range r.Details {
		field := func(name string) string {
			return fmt.Sprintf("details[%d].%s", i, name)
		}

		switch {
		case d.StockID <= 0:
			return ledgererrs.NewValidationError(field("stock_id"), "must be positive")
		case d.PortfolioID <= 0:
			return ledgererrs.NewValidationError(field("portfolio_id"), "must be positive")
		case !d.Quantity.IsPositive():
			return ledgererrs.NewValidationError(field("quantity"), "must be positive")
		case !d.UnitPrice.IsPositive():
			return ledgererrs.NewValidationError(field("unit_price"), "must be positive")
		case !fitsScale(d.Quantity, PriceScale):
			return ledgererrs.NewValidationError(field("quantity"), fmt.Sprintf("must have at most %d decimal places", PriceScale))
		case !fitsScale(d.UnitPrice, PriceScale):
			return ledgererrs.NewValidationError(field("unit_price"), fmt.Sprintf("must have at most %d decimal places", PriceScale))
		}
	}

	return nil
}

// fitsScale reports whether v is stored exactly with the given number of fractional digits.
func fitsScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}
