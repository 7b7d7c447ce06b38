package ledger

import (
	"strings"
	"testing"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePortfolio(t *testing.T) {
	f := newFixture(t, "0")

	assert.Equal(t, "main", f.portfolio.Name)
	assert.True(t, f.portfolio.IsActive)
	assert.True(t, f.portfolio.CurrentValue.IsZero())

	points := f.history(t, f.portfolio.ID)
	require.Len(t, points, 1)
	assert.True(t, points[0].Value.IsZero())
	assert.Equal(t, f.clock.Now(), points[0].RecordedAt)
}

func TestCreatePortfolio_Errors(t *testing.T) {
	f := newFixture(t, "0")

	_, err := f.svc.CreatePortfolio(f.ctx, &CreatePortfolioRequest{ClientID: 404})
	assert.ErrorIs(t, err, ledgererrs.ErrClientNotFound)

	_, err = f.svc.CreatePortfolio(f.ctx, &CreatePortfolioRequest{ClientID: 0})
	assert.True(t, ledgererrs.IsInvalidInput(err))

	_, err = f.svc.CreatePortfolio(f.ctx, &CreatePortfolioRequest{
		ClientID: f.client.ID,
		Name:     strings.Repeat("a", maxPortfolioNameLen+1),
	})
	assert.True(t, ledgererrs.IsInvalidInput(err))
}

func TestPortfolioDetails(t *testing.T) {
	f := newFixture(t, "5000")
	f.buy(t, "400", f.line(f.stockX.ID, f.portfolio.ID, "10", "40"))
	f.buy(t, "100", f.line(f.stockY.ID, f.portfolio.ID, "10", "10"))
	f.sell(t, "100", f.line(f.stockY.ID, f.portfolio.ID, "10", "10"))

	details, err := f.svc.PortfolioDetails(f.ctx, f.portfolio.ID)
	require.NoError(t, err)

	assertDecimal(t, "400", details.TotalInvested)
	assertDecimal(t, "500", details.CurrentValue)
	assertDecimal(t, "100", details.UnrealizedGain)
	assertDecimal(t, "25", details.UnrealizedGainPercent)

	require.Len(t, details.Holdings, 1)
	h := details.Holdings[0]
	assert.Equal(t, "X", h.Symbol)
	assert.Equal(t, domain.HoldingStatusActive, h.Status)
	assertDecimal(t, "100", h.UnrealizedGain)
	assertDecimal(t, "25", h.UnrealizedGainPercent)
}

func TestPortfolioDetails_NotFound(t *testing.T) {
	f := newFixture(t, "0")

	_, err := f.svc.PortfolioDetails(f.ctx, 404)
	assert.ErrorIs(t, err, ledgererrs.ErrPortfolioNotFound)
}
