package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/common/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errAbortTx = errors.New("abort")

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(dur time.Duration) { c.now = c.now.Add(dur) }

type fixture struct {
	ctx   context.Context
	clock *testClock
	store *memory.Store
	svc   *Service

	client    *domain.ClientAccount
	stockX    *domain.Stock
	stockY    *domain.Stock
	portfolio *domain.Portfolio
}

// newFixture seeds one client with cash, stock X priced at 50, unpriced stock Y and one
// empty portfolio owned by the client.
func newFixture(t *testing.T, cash string) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		clock: newTestClock(),
	}

	f.store = memory.NewStoreWithClock(f.clock.Now)
	f.svc = NewService(f.store, WithClock(f.clock.Now))

	f.client = f.store.AddClientAccount(&domain.ClientAccount{UserID: 100, CashAvailable: d(cash)})
	f.stockX = f.store.AddStock(&domain.Stock{Symbol: "X", LastPrice: price("50")})
	f.stockY = f.store.AddStock(&domain.Stock{Symbol: "Y"})

	var err error
	f.portfolio, err = f.svc.CreatePortfolio(f.ctx, &CreatePortfolioRequest{ClientID: f.client.ID, Name: "main"})
	require.NoError(t, err)

	return f
}

func (f *fixture) order(total string, lines ...domain.OrderLineRequest) *domain.OrderRequest {
	return &domain.OrderRequest{
		ClientID:    f.client.ID,
		TotalAmount: d(total),
		Details:     lines,
	}
}

func (f *fixture) line(stockID, portfolioID int64, quantity, unitPrice string) domain.OrderLineRequest {
	return domain.OrderLineRequest{
		StockID:     stockID,
		PortfolioID: portfolioID,
		Quantity:    d(quantity),
		UnitPrice:   d(unitPrice),
	}
}

func (f *fixture) buy(t *testing.T, total string, lines ...domain.OrderLineRequest) *domain.Order {
	t.Helper()

	order, err := f.svc.Buy(f.ctx, f.order(total, lines...))
	require.NoError(t, err)

	return order
}

func (f *fixture) sell(t *testing.T, total string, lines ...domain.OrderLineRequest) *domain.Order {
	t.Helper()

	order, err := f.svc.Sell(f.ctx, f.order(total, lines...))
	require.NoError(t, err)

	return order
}

func (f *fixture) cash(t *testing.T) decimal.Decimal {
	t.Helper()

	a, err := f.store.GetClientAccount(f.ctx, f.client.ID)
	require.NoError(t, err)

	return a.CashAvailable
}

func (f *fixture) activeHolding(t *testing.T, portfolioID, stockID int64) *domain.Holding {
	t.Helper()

	h, err := f.store.GetActiveHoldingForUpdate(f.ctx, portfolioID, stockID)
	require.NoError(t, err)

	return h
}

func (f *fixture) getPortfolio(t *testing.T, id int64) *domain.Portfolio {
	t.Helper()

	p, err := f.store.GetPortfolio(f.ctx, id)
	require.NoError(t, err)

	return p
}

func (f *fixture) history(t *testing.T, portfolioID int64) []*domain.ValueHistoryPoint {
	t.Helper()

	r, err := domain.NewDayRange(time.Time{}, f.clock.Now().AddDate(1, 0, 0))
	require.NoError(t, err)

	points, err := f.store.ListValueHistory(f.ctx, portfolioID, r)
	require.NoError(t, err)

	return points
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()

	require.Truef(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}
