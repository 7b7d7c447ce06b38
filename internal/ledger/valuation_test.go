package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculate_EmptyPortfolio(t *testing.T) {
	f := newFixture(t, "0")

	p, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)

	assert.True(t, p.TotalInvested.IsZero())
	assert.True(t, p.CurrentValue.IsZero())
	assert.True(t, p.AveragePrice.IsZero())
	assert.Len(t, f.history(t, f.portfolio.ID), 2)
}

func TestRecalculate_Aggregates(t *testing.T) {
	f := newFixture(t, "10000")
	f.buy(t, "700", f.line(f.stockX.ID, f.portfolio.ID, "10", "70"))
	f.buy(t, "300", f.line(f.stockY.ID, f.portfolio.ID, "30", "10"))

	p, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)

	assertDecimal(t, "1000", p.TotalInvested)
	// Y has no price and contributes nothing.
	assertDecimal(t, "500", p.CurrentValue)
	assertDecimal(t, "25", p.AveragePrice)
}

func TestRecalculate_FollowsPriceChanges(t *testing.T) {
	f := newFixture(t, "10000")
	f.buy(t, "500", f.line(f.stockX.ID, f.portfolio.ID, "10", "50"))

	require.NoError(t, f.store.UpdateStockPrice(f.ctx, f.stockX.ID, d("65"), f.clock.Now()))
	require.NoError(t, f.store.UpdateStockPrice(f.ctx, f.stockY.ID, d("3"), f.clock.Now()))

	p, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)

	assertDecimal(t, "650", p.CurrentValue)
	assertDecimal(t, "500", p.TotalInvested)
	assertDecimal(t, "650", f.activeHolding(t, f.portfolio.ID, f.stockX.ID).CurrentValue)

	points := f.history(t, f.portfolio.ID)
	assertDecimal(t, "650", points[len(points)-1].Value)
}

func TestRecalculate_Idempotent(t *testing.T) {
	f := newFixture(t, "10000")
	f.buy(t, "1000",
		f.line(f.stockX.ID, f.portfolio.ID, "7", "51.3"),
		f.line(f.stockY.ID, f.portfolio.ID, "3", "9.99"),
	)

	first, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)
	countAfterFirst := len(f.history(t, f.portfolio.ID))

	second, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)
	points := f.history(t, f.portfolio.ID)

	assert.True(t, first.TotalInvested.Equal(second.TotalInvested))
	assert.True(t, first.CurrentValue.Equal(second.CurrentValue))
	assert.True(t, first.AveragePrice.Equal(second.AveragePrice))

	require.Len(t, points, countAfterFirst+1)
	assert.True(t, points[len(points)-1].Value.Equal(points[len(points)-2].Value))
}

func TestRecalculate_HistoryTimestamp(t *testing.T) {
	f := newFixture(t, "1000")
	f.clock.Advance(36 * time.Hour)

	_, err := f.svc.Revalue(f.ctx, f.portfolio.ID)
	require.NoError(t, err)

	points := f.history(t, f.portfolio.ID)
	assert.Equal(t, f.clock.Now(), points[len(points)-1].RecordedAt)
}

func TestRevalue_NotFound(t *testing.T) {
	f := newFixture(t, "0")

	_, err := f.svc.Revalue(f.ctx, 404)
	assert.ErrorIs(t, err, ledgererrs.ErrPortfolioNotFound)
}

func TestRevalueAll(t *testing.T) {
	f := newFixture(t, "1000")
	_, err := f.svc.CreatePortfolio(f.ctx, &CreatePortfolioRequest{ClientID: f.client.ID, Name: "second"})
	require.NoError(t, err)

	n, err := f.svc.RevalueAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRevalueAll_CanceledContext(t *testing.T) {
	f := newFixture(t, "1000")

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()

	n, err := f.svc.RevalueAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestRevalueHoldersOf(t *testing.T) {
	f := newFixture(t, "1000")
	idle, err := f.svc.CreatePortfolio(f.ctx, &CreatePortfolioRequest{ClientID: f.client.ID, Name: "idle"})
	require.NoError(t, err)

	f.buy(t, "100", f.line(f.stockX.ID, f.portfolio.ID, "2", "50"))
	idleHistory := len(f.history(t, idle.ID))

	n, err := f.svc.RevalueHoldersOf(f.ctx, []int64{f.stockX.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.history(t, idle.ID), idleHistory)

	n, err = f.svc.RevalueHoldersOf(f.ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecalculator_InsideCallerTransaction(t *testing.T) {
	f := newFixture(t, "1000")
	f.buy(t, "100", f.line(f.stockX.ID, f.portfolio.ID, "2", "50"))

	r := NewRecalculator(f.clock.Now)
	err := f.store.RunInTx(f.ctx, func(ctx context.Context, l domain.Ledger) error {
		if err := l.UpdateStockPrice(ctx, f.stockX.ID, d("80"), f.clock.Now()); err != nil {
			return err
		}

		p, err := r.Recalculate(ctx, l, f.portfolio.ID)
		require.NoError(t, err)
		assertDecimal(t, "160", p.CurrentValue)

		return errAbortTx
	})
	require.ErrorIs(t, err, errAbortTx)

	assertDecimal(t, "100", f.getPortfolio(t, f.portfolio.ID).CurrentValue)
}
