package ledger

import (
	"testing"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()

	r, err := domain.ParseDayRange(start, end)
	require.NoError(t, err)

	return r
}

func TestComputeGain(t *testing.T) {
	r := dayRange(t, "2025-01-01", "2025-01-10")
	points := []*domain.ValueHistoryPoint{
		{Value: d("500.00"), RecordedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
		{Value: d("580.00"), RecordedAt: time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)},
		{Value: d("650.00"), RecordedAt: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)},
	}

	result := ComputeGain(1, r, points)

	assertDecimal(t, "500", result.StartValue)
	assertDecimal(t, "650", result.EndValue)
	assertDecimal(t, "150.00", result.Gain)
	assertDecimal(t, "30.00", result.GainPercent)
	require.NotNil(t, result.StartRecordedAt)
	assert.Equal(t, points[2].RecordedAt, *result.EndRecordedAt)
}

func TestComputeGain_Loss(t *testing.T) {
	r := dayRange(t, "2025-01-01", "2025-01-10")
	points := []*domain.ValueHistoryPoint{
		{Value: d("800")},
		{Value: d("600")},
	}

	result := ComputeGain(1, r, points)

	assertDecimal(t, "-200", result.Gain)
	assertDecimal(t, "-25", result.GainPercent)
}

func TestComputeGain_ZeroStart(t *testing.T) {
	r := dayRange(t, "2025-01-01", "2025-01-10")
	points := []*domain.ValueHistoryPoint{
		{Value: d("0")},
		{Value: d("120")},
	}

	result := ComputeGain(1, r, points)

	assertDecimal(t, "120", result.Gain)
	assert.True(t, result.GainPercent.IsZero())
}

func TestComputeGain_NoPoints(t *testing.T) {
	r := dayRange(t, "2025-01-01", "2025-01-10")

	result := ComputeGain(7, r, nil)

	assert.Equal(t, int64(7), result.PortfolioID)
	assert.True(t, result.Gain.IsZero())
	assert.True(t, result.GainPercent.IsZero())
	assert.True(t, result.StartValue.IsZero())
	assert.Nil(t, result.StartRecordedAt)
}

func TestGain_FromRecordedHistory(t *testing.T) {
	f := newFixture(t, "1000")

	f.clock.Advance(24 * time.Hour)
	f.buy(t, "500.00", f.line(f.stockX.ID, f.portfolio.ID, "10", "50"))

	f.clock.Advance(9 * 24 * time.Hour)
	require.NoError(t, f.store.UpdateStockPrice(f.ctx, f.stockX.ID, d("65"), f.clock.Now()))
	_, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)

	// The creation point of 2025-01-01 is outside the range.
	result, err := f.svc.Gain(f.ctx, f.portfolio.ID, dayRange(t, "2025-01-02", "2025-01-11"))
	require.NoError(t, err)

	assertDecimal(t, "500", result.StartValue)
	assertDecimal(t, "650", result.EndValue)
	assertDecimal(t, "150", result.Gain)
	assertDecimal(t, "30", result.GainPercent)

	empty, err := f.svc.Gain(f.ctx, f.portfolio.ID, dayRange(t, "2024-01-01", "2024-12-31"))
	require.NoError(t, err)
	assert.True(t, empty.Gain.IsZero())
}

func TestGain_PortfolioNotFound(t *testing.T) {
	f := newFixture(t, "0")

	_, err := f.svc.Gain(f.ctx, 404, dayRange(t, "2025-01-01", "2025-01-02"))
	assert.ErrorIs(t, err, ledgererrs.ErrPortfolioNotFound)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, "1000")
	f.buy(t, "100", f.line(f.stockX.ID, f.portfolio.ID, "1", "100"))

	points, err := f.svc.History(f.ctx, f.portfolio.ID, dayRange(t, "2025-01-01", "2025-01-01"))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assertDecimal(t, "0", points[0].Value)
	assertDecimal(t, "50", points[1].Value)
}
