package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StocksRepository interface {
	GetStock(ctx context.Context, id int64) (*Stock, error)
	ListStocks(ctx context.Context) ([]*Stock, error)
	UpdateStockPrice(ctx context.Context, id int64, price decimal.Decimal, updatedAt time.Time) error
}

// Stock is read-only for the order path; LastPrice is the most recently ingested quote.
type Stock struct {
	ID     int64  `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	LastPrice decimal.NullDecimal `json:"last_price"`

	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MarketValue values quantity at the last price; a stock without a known price is worth 0.
func (s *Stock) MarketValue(quantity decimal.Decimal) decimal.Decimal {
	return MarketValue(s.LastPrice, quantity)
}

func MarketValue(price decimal.NullDecimal, quantity decimal.Decimal) decimal.Decimal {
	if !price.Valid {
		return decimal.Zero
	}

	return price.Decimal.Mul(quantity)
}
