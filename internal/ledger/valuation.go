package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recalculator is the only writer of portfolio aggregates.
type Recalculator struct {
	now func() time.Time
}

func NewRecalculator(now func() time.Time) *Recalculator {
	return &Recalculator{now: now}
}

// Recalculate derives the portfolio aggregates from its active holdings and the latest
// known prices, stores them and appends one value history point. It must run inside the
// transaction that changed the holdings.
func (r *Recalculator) Recalculate(ctx context.Context, l domain.Ledger, portfolioID int64) (*domain.Portfolio, error) {
	portfolio, err := l.GetPortfolioForUpdate(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	valuations, err := l.ListActiveHoldingValuations(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings of portfolio %d: %w", portfolioID, err)
	}

	totalInvested := decimal.Zero
	currentValue := decimal.Zero
	totalQuantity := decimal.Zero

	for _, v := range valuations {
		h := v.Holding

		value := domain.MarketValue(v.LastPrice, h.Quantity)
		if !value.Equal(h.CurrentValue) {
			h.CurrentValue = value
			if err := l.UpdateHolding(ctx, h); err != nil {
				return nil, fmt.Errorf("failed to refresh holding %d: %w", h.ID, err)
			}
		}

		totalInvested = totalInvested.Add(h.Quantity.Mul(h.AveragePrice))
		currentValue = currentValue.Add(value)
		totalQuantity = totalQuantity.Add(h.Quantity)
	}

	averagePrice := decimal.Zero
	if !totalQuantity.IsZero() {
		averagePrice = totalInvested.Div(totalQuantity).Round(domain.PriceScale)
	}

	portfolio.TotalInvested = totalInvested
	portfolio.CurrentValue = currentValue
	portfolio.AveragePrice = averagePrice

	if err := l.UpdatePortfolioValuation(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to update portfolio %d: %w", portfolioID, err)
	}

	point := &domain.ValueHistoryPoint{
		PortfolioID: portfolioID,
		Value:       currentValue,
		RecordedAt:  r.now().UTC(),
	}
	if err := l.AppendValueHistory(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to append value history of portfolio %d: %w", portfolioID, err)
	}

	return portfolio, nil
}

// Revalue recalculates one portfolio in its own transaction.
func (s *Service) Revalue(ctx context.Context, portfolioID int64) (*domain.Portfolio, error) {
	var portfolio *domain.Portfolio
	err := s.store.RunInTx(ctx, func(ctx context.Context, l domain.Ledger) error {
		var err error
		portfolio, err = s.recalculator.Recalculate(ctx, l, portfolioID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

// RevalueAll recalculates every active portfolio, one transaction each. A failing
// portfolio does not stop the others; all failures are returned joined.
func (s *Service) RevalueAll(ctx context.Context) (int, error) {
	ids, err := s.store.ListActivePortfolioIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list portfolios: %w", err)
	}

	return s.revalueEach(ctx, ids)
}

// RevalueHoldersOf recalculates every portfolio with an active holding in one of stockIDs.
func (s *Service) RevalueHoldersOf(ctx context.Context, stockIDs []int64) (int, error) {
	if len(stockIDs) == 0 {
		return 0, nil
	}

	ids, err := s.store.ListPortfolioIDsHoldingStocks(ctx, stockIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to list portfolios holding stocks: %w", err)
	}

	return s.revalueEach(ctx, ids)
}

func (s *Service) revalueEach(ctx context.Context, ids []int64) (int, error) {
	var (
		revalued int
		errList  []error
	)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errList = append(errList, err)
			break
		}

		if _, err := s.Revalue(ctx, id); err != nil {
			log.Error("failed to revalue portfolio", zap.Int64("portfolio_id", id), zap.Error(err))
			errList = append(errList, fmt.Errorf("portfolio %d: %w", id, err))
			continue
		}

		revalued++
	}

	return revalued, errors.Join(errList...)
}
