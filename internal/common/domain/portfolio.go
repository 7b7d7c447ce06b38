package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PortfoliosRepository interface {
	CreatePortfolio(ctx context.Context, portfolio *Portfolio) error
	GetPortfolio(ctx context.Context, id int64) (*Portfolio, error)
	// GetPortfolioForUpdate locks the portfolio row until the surrounding transaction ends.
	GetPortfolioForUpdate(ctx context.Context, id int64) (*Portfolio, error)
	UpdatePortfolioValuation(ctx context.Context, portfolio *Portfolio) error
	ListActivePortfolioIDs(ctx context.Context) ([]int64, error)
	ListPortfolioIDsHoldingStocks(ctx context.Context, stockIDs []int64) ([]int64, error)
}

type ValueHistoryRepository interface {
	AppendValueHistory(ctx context.Context, point *ValueHistoryPoint) error
	// ListValueHistory returns the points recorded within r, oldest first.
	ListValueHistory(ctx context.Context, portfolioID int64, r DateRange) ([]*ValueHistoryPoint, error)
}

// Portfolio aggregates are written only by the valuation recalculator.
type Portfolio struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`

	TotalInvested decimal.Decimal `json:"total_invested"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	AveragePrice  decimal.Decimal `json:"average_price"`

	IsActive bool `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Portfolio) UnrealizedGain() decimal.Decimal {
	return p.CurrentValue.Sub(p.TotalInvested)
}

func (p *Portfolio) UnrealizedGainPercent() decimal.Decimal {
	return Percent(p.UnrealizedGain(), p.TotalInvested)
}

// ValueHistoryPoint is an append-only snapshot of a portfolio's current value.
type ValueHistoryPoint struct {
	ID          int64           `json:"id"`
	PortfolioID int64           `json:"portfolio_id"`
	Value       decimal.Decimal `json:"value"`
	RecordedAt  time.Time       `json:"recorded_at"`
}
