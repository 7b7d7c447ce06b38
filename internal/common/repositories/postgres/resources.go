package postgres

import (
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/shopspring/decimal"
)

type ClientAccount struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`

	TelegramID   *int64 `db:"telegram_id"`
	LanguageCode string `db:"language_code"`

	CashAvailable decimal.Decimal `db:"cash_available"`
	CashBlocked   decimal.Decimal `db:"cash_blocked"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (a *ClientAccount) CreateDomain() *domain.ClientAccount {
	account := &domain.ClientAccount{
		ID:            a.ID,
		UserID:        a.UserID,
		LanguageCode:  a.LanguageCode,
		CashAvailable: a.CashAvailable,
		CashBlocked:   a.CashBlocked,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}

	if a.TelegramID != nil {
		account.TelegramID = *a.TelegramID
	}

	return account
}

type Stock struct {
	ID     int64  `db:"id"`
	Symbol string `db:"symbol"`
	Name   string `db:"name"`

	LastPrice decimal.NullDecimal `db:"last_price"`

	UpdatedAt *time.Time `db:"updated_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (s *Stock) CreateDomain() *domain.Stock {
	return &domain.Stock{
		ID:        s.ID,
		Symbol:    s.Symbol,
		Name:      s.Name,
		LastPrice: s.LastPrice,
		UpdatedAt: s.UpdatedAt,
		CreatedAt: s.CreatedAt,
	}
}

type Portfolio struct {
	ID       int64  `db:"id"`
	ClientID int64  `db:"client_id"`
	Name     string `db:"name"`

	TotalInvested decimal.Decimal `db:"total_invested"`
	CurrentValue  decimal.Decimal `db:"current_value"`
	AveragePrice  decimal.Decimal `db:"average_price"`

	IsActive bool `db:"is_active"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (p *Portfolio) CreateDomain() *domain.Portfolio {
	return &domain.Portfolio{
		ID:            p.ID,
		ClientID:      p.ClientID,
		Name:          p.Name,
		TotalInvested: p.TotalInvested,
		CurrentValue:  p.CurrentValue,
		AveragePrice:  p.AveragePrice,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type Holding struct {
	ID          int64 `db:"id"`
	PortfolioID int64 `db:"portfolio_id"`
	StockID     int64 `db:"stock_id"`

	Quantity       decimal.Decimal `db:"quantity"`
	AveragePrice   decimal.Decimal `db:"average_price"`
	TotalInvested  decimal.Decimal `db:"total_invested"`
	LastTradePrice decimal.Decimal `db:"last_trade_price"`
	CurrentValue   decimal.Decimal `db:"current_value"`

	Status string `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (h *Holding) CreateDomain() *domain.Holding {
	return &domain.Holding{
		ID:             h.ID,
		PortfolioID:    h.PortfolioID,
		StockID:        h.StockID,
		Quantity:       h.Quantity,
		AveragePrice:   h.AveragePrice,
		TotalInvested:  h.TotalInvested,
		LastTradePrice: h.LastTradePrice,
		CurrentValue:   h.CurrentValue,
		Status:         domain.HoldingStatus(h.Status),
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
}

type Order struct {
	ID          int64           `db:"id"`
	Code        string          `db:"code"`
	ClientID    int64           `db:"client_id"`
	Kind        string          `db:"kind"`
	TotalAmount decimal.Decimal `db:"total_amount"`

	CreatedAt time.Time `db:"created_at"`
}

func (o *Order) CreateDomain() *domain.Order {
	return &domain.Order{
		ID:          o.ID,
		Code:        o.Code,
		ClientID:    o.ClientID,
		Kind:        domain.OrderKind(o.Kind),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}
}

type OrderLineItem struct {
	ID       int64 `db:"id"`
	OrderID  int64 `db:"order_id"`
	Position int   `db:"position"`

	StockID     int64  `db:"stock_id"`
	Symbol      string `db:"symbol"`
	PortfolioID int64  `db:"portfolio_id"`
	HoldingID   int64  `db:"holding_id"`

	Quantity  decimal.Decimal `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	CostBasis decimal.Decimal `db:"cost_basis"`
}

func (li *OrderLineItem) CreateDomain() *domain.OrderLineItem {
	return &domain.OrderLineItem{
		ID:          li.ID,
		OrderID:     li.OrderID,
		Position:    li.Position,
		StockID:     li.StockID,
		Symbol:      li.Symbol,
		PortfolioID: li.PortfolioID,
		HoldingID:   li.HoldingID,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		CostBasis:   li.CostBasis,
	}
}
