package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAbort = errors.New("abort")

func fixedClock() func() time.Time {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func seededStore(t *testing.T) *Store {
	t.Helper()

	s := NewStoreWithClock(fixedClock())
	s.Seed(Seed{
		Accounts: []domain.ClientAccount{{UserID: 10, CashAvailable: decimal.RequireFromString("1000")}},
		Stocks:   []domain.Stock{{Symbol: "AAPL", LastPrice: decimal.NewNullDecimal(decimal.NewFromInt(50))}},
	})

	return s
}

func TestStore_RunInTx_Commits(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	err := s.RunInTx(ctx, func(ctx context.Context, l domain.Ledger) error {
		a, err := l.GetClientAccountForUpdate(ctx, 1)
		if err != nil {
			return err
		}

		a.CashAvailable = decimal.NewFromInt(400)
		return l.UpdateClientAccount(ctx, a)
	})
	require.NoError(t, err)

	a, err := s.GetClientAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.CashAvailable.Equal(decimal.NewFromInt(400)))
}

func TestStore_RunInTx_RollsBack(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	err := s.RunInTx(ctx, func(ctx context.Context, l domain.Ledger) error {
		a, err := l.GetClientAccountForUpdate(ctx, 1)
		if err != nil {
			return err
		}

		a.CashAvailable = decimal.Zero
		if err := l.UpdateClientAccount(ctx, a); err != nil {
			return err
		}

		if _, err := l.NextOrderCode(ctx); err != nil {
			return err
		}

		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	a, err := s.GetClientAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.CashAvailable.Equal(decimal.NewFromInt(1000)))

	code, err := s.NextOrderCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TXN000001", code)
}

func TestStore_RunInTx_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().RunInTx(ctx, func(context.Context, domain.Ledger) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	a, err := s.GetClientAccount(ctx, 1)
	require.NoError(t, err)
	a.CashAvailable = decimal.Zero

	again, err := s.GetClientAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, again.CashAvailable.Equal(decimal.NewFromInt(1000)))
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetClientAccount(ctx, 7)
	assert.ErrorIs(t, err, ledgererrs.ErrClientNotFound)

	_, err = s.GetStock(ctx, 7)
	assert.ErrorIs(t, err, ledgererrs.ErrStockNotFound)

	_, err = s.GetPortfolio(ctx, 7)
	assert.ErrorIs(t, err, ledgererrs.ErrPortfolioNotFound)

	_, err = s.GetActiveHoldingForUpdate(ctx, 7, 7)
	assert.ErrorIs(t, err, ledgererrs.ErrHoldingNotFound)

	_, err = s.GetOrderByCode(ctx, "TXN000007")
	assert.ErrorIs(t, err, ledgererrs.ErrOrderNotFound)

	err = s.CreatePortfolio(ctx, &domain.Portfolio{ClientID: 7})
	assert.ErrorIs(t, err, ledgererrs.ErrClientNotFound)
}

func TestStore_Holdings_OneActivePerPair(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	p := &domain.Portfolio{ClientID: 1, Name: "main", IsActive: true}
	require.NoError(t, s.CreatePortfolio(ctx, p))

	h := domain.NewHolding(p.ID, 1)
	h.ApplyBuy(decimal.NewFromInt(5), decimal.NewFromInt(10), decimal.NullDecimal{})
	require.NoError(t, s.CreateHolding(ctx, h))

	assert.Error(t, s.CreateHolding(ctx, domain.NewHolding(p.ID, 1)))

	h.ApplySell(decimal.NewFromInt(5), decimal.NewFromInt(12), decimal.NullDecimal{})
	require.NoError(t, s.UpdateHolding(ctx, h))

	_, err := s.GetActiveHoldingForUpdate(ctx, p.ID, 1)
	require.ErrorIs(t, err, ledgererrs.ErrHoldingNotFound)

	reopened := domain.NewHolding(p.ID, 1)
	reopened.ApplyBuy(decimal.NewFromInt(1), decimal.NewFromInt(11), decimal.NullDecimal{})
	require.NoError(t, s.CreateHolding(ctx, reopened))
	assert.NotEqual(t, h.ID, reopened.ID)

	all, err := s.ListHoldings(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.ListActiveHoldingValuations(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, reopened.ID, active[0].Holding.ID)
	assert.Equal(t, "AAPL", active[0].Symbol)
}

func TestStore_OrderWithLineItems(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	code, err := s.NextOrderCode(ctx)
	require.NoError(t, err)

	order := &domain.Order{Code: code, ClientID: 1, Kind: domain.OrderKindBuy, TotalAmount: decimal.NewFromInt(100)}
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.Error(t, s.CreateOrder(ctx, &domain.Order{Code: code, ClientID: 1, Kind: domain.OrderKindBuy}))

	for pos := 2; pos >= 1; pos-- {
		require.NoError(t, s.CreateOrderLineItem(ctx, &domain.OrderLineItem{
			OrderID:  order.ID,
			Position: pos,
			StockID:  1,
			Quantity: decimal.NewFromInt(int64(pos)),
		}))
	}

	got, err := s.GetOrderByCode(ctx, code)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, 1, got.LineItems[0].Position)
	assert.Equal(t, "AAPL", got.LineItems[0].Symbol)

	r, err := domain.ParseDayRange("2025-01-01", "2025-01-01")
	require.NoError(t, err)

	orders, err := s.ListClientOrders(ctx, 1, r)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	r, err = domain.ParseDayRange("2025-01-02", "2025-01-03")
	require.NoError(t, err)

	orders, err = s.ListClientOrders(ctx, 1, r)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
