package ledger

import (
	"context"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/shopspring/decimal"
)

// GainResult compares the first and last value recorded for a portfolio within a range.
// All fields except the range are zero when nothing was recorded in it.
type GainResult struct {
	PortfolioID int64     `json:"portfolio_id"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`

	StartValue decimal.Decimal `json:"start_value"`
	EndValue   decimal.Decimal `json:"end_value"`

	StartRecordedAt *time.Time `json:"start_recorded_at,omitempty"`
	EndRecordedAt   *time.Time `json:"end_recorded_at,omitempty"`

	Gain        decimal.Decimal `json:"gain"`
	GainPercent decimal.Decimal `json:"gain_percent"`
}

func (s *Service) Gain(ctx context.Context, portfolioID int64, r domain.DateRange) (*GainResult, error) {
	points, err := s.History(ctx, portfolioID, r)
	if err != nil {
		return nil, err
	}

	return ComputeGain(portfolioID, r, points), nil
}

// ComputeGain expects points ordered oldest first.
func ComputeGain(portfolioID int64, r domain.DateRange, points []*domain.ValueHistoryPoint) *GainResult {
	result := &GainResult{
		PortfolioID: portfolioID,
		From:        r.From,
		To:          r.To,
		StartValue:  decimal.Zero,
		EndValue:    decimal.Zero,
		Gain:        decimal.Zero,
		GainPercent: decimal.Zero,
	}

	if len(points) == 0 {
		return result
	}

	first, last := points[0], points[len(points)-1]

	result.StartValue = first.Value
	result.EndValue = last.Value
	result.StartRecordedAt = &first.RecordedAt
	result.EndRecordedAt = &last.RecordedAt
	result.Gain = last.Value.Sub(first.Value)
	result.GainPercent = domain.Percent(result.Gain, first.Value)

	return result
}

// History lists the value history of an existing portfolio within r, oldest first.
func (s *Service) History(ctx context.Context, portfolioID int64, r domain.DateRange) ([]*domain.ValueHistoryPoint, error) {
	if _, err := s.store.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	return s.store.ListValueHistory(ctx, portfolioID, r)
}
