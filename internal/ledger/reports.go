package ledger

import (
	"context"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/shopspring/decimal"
)

// OrderSummary totals a client's orders in a date range.
type OrderSummary struct {
	ClientID int64     `json:"client_id"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`

	OrdersCount int `json:"orders_count"`
	BuyCount    int `json:"buy_count"`
	SellCount   int `json:"sell_count"`

	InvestedTotal decimal.Decimal `json:"invested_total"`
	EarnedTotal   decimal.Decimal `json:"earned_total"`

	Orders []*domain.Order `json:"orders"`
}

func (s *Service) OrderSummary(ctx context.Context, clientID int64, r domain.DateRange) (*OrderSummary, error) {
	if _, err := s.store.GetClientAccount(ctx, clientID); err != nil {
		return nil, err
	}

	orders, err := s.store.ListClientOrders(ctx, clientID, r)
	if err != nil {
		return nil, err
	}

	summary := &OrderSummary{
		ClientID:      clientID,
		From:          r.From,
		To:            r.To,
		OrdersCount:   len(orders),
		InvestedTotal: decimal.Zero,
		EarnedTotal:   decimal.Zero,
		Orders:        orders,
	}

	for _, o := range orders {
		switch o.Kind {
		case domain.OrderKindBuy:
			summary.BuyCount++
			summary.InvestedTotal = summary.InvestedTotal.Add(o.TotalAmount)
		case domain.OrderKindSell:
			summary.SellCount++
			summary.EarnedTotal = summary.EarnedTotal.Add(o.TotalAmount)
		}
	}

	return summary, nil
}

// OrderView is an order with the realized gain of each sell line.
type OrderView struct {
	*domain.Order

	RealizedGain decimal.Decimal `json:"realized_gain"`
}

func (s *Service) GetOrder(ctx context.Context, code string) (*OrderView, error) {
	order, err := s.store.GetOrderByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	view := &OrderView{Order: order, RealizedGain: decimal.Zero}
	for _, li := range order.LineItems {
		view.RealizedGain = view.RealizedGain.Add(li.RealizedGain(order.Kind))
	}

	return view, nil
}
