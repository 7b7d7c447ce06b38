package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type HoldingsRepository interface {
	// GetActiveHoldingForUpdate returns ledgererrs.ErrHoldingNotFound when the pair has no active holding.
	GetActiveHoldingForUpdate(ctx context.Context, portfolioID, stockID int64) (*Holding, error)
	CreateHolding(ctx context.Context, holding *Holding) error
	UpdateHolding(ctx context.Context, holding *Holding) error
	ListActiveHoldingValuations(ctx context.Context, portfolioID int64) ([]*HoldingValuation, error)
	ListHoldings(ctx context.Context, portfolioID int64) ([]*HoldingValuation, error)
}

// HoldingStatus only moves from active to closed.
type HoldingStatus string

const (
	HoldingStatusActive HoldingStatus = "active"
	HoldingStatusClosed HoldingStatus = "closed"
)

// Holding is a position in one stock within one portfolio.
// TotalInvested is always Quantity * AveragePrice.
type Holding struct {
	ID          int64 `json:"id"`
	PortfolioID int64 `json:"portfolio_id"`
	StockID     int64 `json:"stock_id"`

	Quantity       decimal.Decimal `json:"quantity"`
	AveragePrice   decimal.Decimal `json:"average_price"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	LastTradePrice decimal.Decimal `json:"last_trade_price"`
	CurrentValue   decimal.Decimal `json:"current_value"`

	Status HoldingStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewHolding opens an empty position; it is not stored until the first buy is applied.
func NewHolding(portfolioID, stockID int64) *Holding {
	return &Holding{
		PortfolioID: portfolioID,
		StockID:     stockID,
		Status:      HoldingStatusActive,
	}
}

func (h *Holding) IsActive() bool {
	return h.Status == HoldingStatusActive
}

func (h *Holding) CanSell(quantity decimal.Decimal) bool {
	return h.IsActive() && h.Quantity.GreaterThanOrEqual(quantity)
}

// ApplyBuy folds quantity bought at unitPrice into the weighted-average cost basis.
func (h *Holding) ApplyBuy(quantity, unitPrice decimal.Decimal, lastPrice decimal.NullDecimal) {
	totalQuantity := h.Quantity.Add(quantity)

	if !totalQuantity.IsZero() {
		h.AveragePrice = h.AveragePrice.Mul(h.Quantity).
			Add(unitPrice.Mul(quantity)).
			Div(totalQuantity).
			Round(PriceScale)
	}

	h.Quantity = totalQuantity
	h.TotalInvested = h.Quantity.Mul(h.AveragePrice)
	h.LastTradePrice = unitPrice
	h.CurrentValue = MarketValue(lastPrice, h.Quantity)
}

// ApplySell removes quantity from the position. The average price is left as is,
// and the holding is closed once nothing is left. Callers check CanSell first.
func (h *Holding) ApplySell(quantity, unitPrice decimal.Decimal, lastPrice decimal.NullDecimal) {
	h.Quantity = h.Quantity.Sub(quantity)
	h.TotalInvested = h.Quantity.Mul(h.AveragePrice)
	h.LastTradePrice = unitPrice
	h.CurrentValue = MarketValue(lastPrice, h.Quantity)

	if h.Quantity.IsZero() {
		h.Status = HoldingStatusClosed
	}
}

// UnrealizedGain is CurrentValue - TotalInvested.
func (h *Holding) UnrealizedGain() decimal.Decimal {
	return h.CurrentValue.Sub(h.TotalInvested)
}

func (h *Holding) UnrealizedGainPercent() decimal.Decimal {
	return Percent(h.UnrealizedGain(), h.TotalInvested)
}

// HoldingValuation joins a holding with the quote of its stock.
type HoldingValuation struct {
	Holding *Holding `json:"holding"`

	Symbol    string              `json:"symbol"`
	LastPrice decimal.NullDecimal `json:"last_price"`
}

// Percent returns part / whole * 100, or 0 when whole is 0.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(decimal.NewFromInt(100))
}
