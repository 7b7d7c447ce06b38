package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
)

// Buy executes req as one transaction: the client is debited total_amount, every line is
// folded into its holding, and every touched portfolio is revalued. Nothing is written
// when any step fails.
func (s *Service) Buy(ctx context.Context, req *domain.OrderRequest) (*domain.Order, error) {
	return s.execute(ctx, domain.OrderKindBuy, req)
}

// Sell is the mirror of Buy. Every line must be covered by the active holding, and the
// client is credited total_amount.
func (s *Service) Sell(ctx context.Context, req *domain.OrderRequest) (*domain.Order, error) {
	return s.execute(ctx, domain.OrderKindSell, req)
}

func (s *Service) execute(ctx context.Context, kind domain.OrderKind, req *domain.OrderRequest) (*domain.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := s.store.RunInTx(ctx, func(ctx context.Context, l domain.Ledger) error {
		var err error
		order, err = s.executeInTx(ctx, l, kind, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *Service) executeInTx(
	ctx context.Context,
	l domain.Ledger,
	kind domain.OrderKind,
	req *domain.OrderRequest,
) (*domain.Order, error) {
	// The client row is locked first so that orders of one client run one after another.
	account, err := l.GetClientAccountForUpdate(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	if kind == domain.OrderKindBuy && !account.CanAfford(req.TotalAmount) {
		return nil, ledgererrs.ErrInsufficientFunds
	}

	code, err := l.NextOrderCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to draw order code: %w", err)
	}

	order := &domain.Order{
		Code:        code,
		ClientID:    account.ID,
		Kind:        kind,
		TotalAmount: req.TotalAmount,
	}
	if err := l.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	touched := []int64{}
	seen := make(map[int64]struct{})

	order.LineItems = make([]*domain.OrderLineItem, 0, len(req.Details))
	for i := range req.Details {
		item, err := s.applyLine(ctx, l, account, kind, &req.Details[i])
		if err != nil {
			return nil, err
		}

		item.OrderID = order.ID
		item.Position = i + 1
		if err := l.CreateOrderLineItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order line item: %w", err)
		}

		order.LineItems = append(order.LineItems, item)

		if _, ok := seen[item.PortfolioID]; !ok {
			seen[item.PortfolioID] = struct{}{}
			touched = append(touched, item.PortfolioID)
		}
	}

	for _, portfolioID := range touched {
		if _, err := s.recalculator.Recalculate(ctx, l, portfolioID); err != nil {
			return nil, err
		}
	}

	switch kind {
	case domain.OrderKindBuy:
		if err := account.Debit(req.TotalAmount); err != nil {
			return nil, err
		}
	case domain.OrderKindSell:
		account.Credit(req.TotalAmount)
	}

	if err := l.UpdateClientAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update client account: %w", err)
	}

	return order, nil
}

func (s *Service) applyLine(
	ctx context.Context,
	l domain.Ledger,
	account *domain.ClientAccount,
	kind domain.OrderKind,
	line *domain.OrderLineRequest,
) (*domain.OrderLineItem, error) {
	stock, err := l.GetStock(ctx, line.StockID)
	if err != nil {
		return nil, err
	}

	portfolio, err := l.GetPortfolioForUpdate(ctx, line.PortfolioID)
	if err != nil {
		return nil, err
	}

	// Another client's portfolio is reported exactly like a missing one.
	if portfolio.ClientID != account.ID {
		return nil, ledgererrs.ErrPortfolioNotFound
	}

	holding, err := l.GetActiveHoldingForUpdate(ctx, portfolio.ID, stock.ID)
	isNew := false
	switch {
	case errors.Is(err, ledgererrs.ErrHoldingNotFound) && kind == domain.OrderKindBuy:
		holding = domain.NewHolding(portfolio.ID, stock.ID)
		isNew = true
	case errors.Is(err, ledgererrs.ErrHoldingNotFound):
		// A position sold down to zero has no shares left, which differs from never holding the stock.
		closed, lookupErr := hasClosedHolding(ctx, l, portfolio.ID, stock.ID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if !closed {
			return nil, err
		}

		return nil, &ledgererrs.InsufficientSharesError{
			StockID:   stock.ID,
			Symbol:    stock.Symbol,
			Available: decimal.Zero,
			Requested: line.Quantity,
		}
	case err != nil:
		return nil, err
	}

	switch kind {
	case domain.OrderKindBuy:
		holding.ApplyBuy(line.Quantity, line.UnitPrice, stock.LastPrice)
	case domain.OrderKindSell:
		if !holding.CanSell(line.Quantity) {
			return nil, &ledgererrs.InsufficientSharesError{
				StockID:   stock.ID,
				Symbol:    stock.Symbol,
				Available: holding.Quantity,
				Requested: line.Quantity,
			}
		}

		holding.ApplySell(line.Quantity, line.UnitPrice, stock.LastPrice)
	}

	if isNew {
		err = l.CreateHolding(ctx, holding)
	} else {
		err = l.UpdateHolding(ctx, holding)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save holding: %w", err)
	}

	return &domain.OrderLineItem{
		StockID:     stock.ID,
		Symbol:      stock.Symbol,
		PortfolioID: portfolio.ID,
		HoldingID:   holding.ID,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		CostBasis:   holding.AveragePrice,
	}, nil
}

func hasClosedHolding(ctx context.Context, l domain.Ledger, portfolioID, stockID int64) (bool, error) {
	holdings, err := l.ListHoldings(ctx, portfolioID)
	if err != nil {
		return false, fmt.Errorf("failed to list holdings: %w", err)
	}

	for _, v := range holdings {
		if v.Holding.StockID == stockID && v.Holding.Status == domain.HoldingStatusClosed {
			return true, nil
		}
	}

	return false, nil
}
