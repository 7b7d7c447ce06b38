package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
)

const maxPortfolioNameLen = 100

type CreatePortfolioRequest struct {
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
}

func (r *CreatePortfolioRequest) Validate() error {
	if r.ClientID <= 0 {
		return ledgererrs.NewValidationError("client_id", "must be positive")
	}

	if len(strings.TrimSpace(r.Name)) > maxPortfolioNameLen {
		return ledgererrs.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxPortfolioNameLen))
	}

	return nil
}

// CreatePortfolio opens an empty portfolio and records its zero starting value.
func (s *Service) CreatePortfolio(ctx context.Context, req *CreatePortfolioRequest) (*domain.Portfolio, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.DefaultPortfolioName
	}

	portfolio := &domain.Portfolio{
		ClientID:      req.ClientID,
		Name:          name,
		TotalInvested: decimal.Zero,
		CurrentValue:  decimal.Zero,
		AveragePrice:  decimal.Zero,
		IsActive:      true,
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, l domain.Ledger) error {
		if _, err := l.GetClientAccount(ctx, req.ClientID); err != nil {
			return err
		}

		if err := l.CreatePortfolio(ctx, portfolio); err != nil {
			return fmt.Errorf("failed to create portfolio: %w", err)
		}

		return l.AppendValueHistory(ctx, &domain.ValueHistoryPoint{
			PortfolioID: portfolio.ID,
			Value:       decimal.Zero,
			RecordedAt:  s.now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

type HoldingDetails struct {
	*domain.Holding

	Symbol    string              `json:"symbol"`
	LastPrice decimal.NullDecimal `json:"last_price"`

	UnrealizedGain        decimal.Decimal `json:"unrealized_gain"`
	UnrealizedGainPercent decimal.Decimal `json:"unrealized_gain_percent"`
}

type PortfolioDetails struct {
	*domain.Portfolio

	UnrealizedGain        decimal.Decimal `json:"unrealized_gain"`
	UnrealizedGainPercent decimal.Decimal `json:"unrealized_gain_percent"`

	Holdings []*HoldingDetails `json:"holdings"`
}

// PortfolioDetails returns the stored aggregates with the active holdings.
func (s *Service) PortfolioDetails(ctx context.Context, portfolioID int64) (*PortfolioDetails, error) {
	portfolio, err := s.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	valuations, err := s.store.ListActiveHoldingValuations(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	details := &PortfolioDetails{
		Portfolio:             portfolio,
		UnrealizedGain:        portfolio.UnrealizedGain(),
		UnrealizedGainPercent: portfolio.UnrealizedGainPercent(),
		Holdings:              make([]*HoldingDetails, 0, len(valuations)),
	}

	for _, v := range valuations {
		details.Holdings = append(details.Holdings, &HoldingDetails{
			Holding:               v.Holding,
			Symbol:                v.Symbol,
			LastPrice:             v.LastPrice,
			UnrealizedGain:        v.Holding.UnrealizedGain(),
			UnrealizedGainPercent: v.Holding.UnrealizedGainPercent(),
		})
	}

	return details, nil
}
