package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
)

// ledger works on the transaction copy when tx is set and on the committed state otherwise.
type ledger struct {
	store *Store
	tx    *state
}

func (l *ledger) lock() (*state, func()) {
	if l.tx != nil {
		return l.tx, func() {}
	}

	l.store.mu.Lock()
	return l.store.st, l.store.mu.Unlock
}

func (l *ledger) now() time.Time {
	return l.store.clock()
}

func (l *ledger) GetClientAccount(_ context.Context, id int64) (*domain.ClientAccount, error) {
	st, unlock := l.lock()
	defer unlock()

	a, ok := st.accounts[id]
	if !ok {
		return nil, ledgererrs.ErrClientNotFound
	}

	return copyAccount(a), nil
}

func (l *ledger) GetClientAccountForUpdate(ctx context.Context, id int64) (*domain.ClientAccount, error) {
	return l.GetClientAccount(ctx, id)
}

func (l *ledger) UpdateClientAccount(_ context.Context, account *domain.ClientAccount) error {
	st, unlock := l.lock()
	defer unlock()

	stored, ok := st.accounts[account.ID]
	if !ok {
		return ledgererrs.ErrClientNotFound
	}

	stored.CashAvailable = account.CashAvailable
	stored.CashBlocked = account.CashBlocked
	stored.UpdatedAt = l.now()
	account.UpdatedAt = stored.UpdatedAt

	return nil
}

func (l *ledger) GetStock(_ context.Context, id int64) (*domain.Stock, error) {
	st, unlock := l.lock()
	defer unlock()

	s, ok := st.stocks[id]
	if !ok {
		return nil, ledgererrs.ErrStockNotFound
	}

	return copyStock(s), nil
}

func (l *ledger) ListStocks(_ context.Context) ([]*domain.Stock, error) {
	st, unlock := l.lock()
	defer unlock()

	stocks := make([]*domain.Stock, 0, len(st.stocks))
	for _, s := range st.stocks {
		stocks = append(stocks, copyStock(s))
	}

	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ID < stocks[j].ID })

	return stocks, nil
}

func (l *ledger) UpdateStockPrice(_ context.Context, id int64, price decimal.Decimal, updatedAt time.Time) error {
	st, unlock := l.lock()
	defer unlock()

	s, ok := st.stocks[id]
	if !ok {
		return ledgererrs.ErrStockNotFound
	}

	s.LastPrice = decimal.NewNullDecimal(price)
	s.UpdatedAt = &updatedAt

	return nil
}

func (l *ledger) CreatePortfolio(_ context.Context, portfolio *domain.Portfolio) error {
	st, unlock := l.lock()
	defer unlock()

	if _, ok := st.accounts[portfolio.ClientID]; !ok {
		return ledgererrs.ErrClientNotFound
	}

	st.seq.portfolio++
	portfolio.ID = st.seq.portfolio
	portfolio.CreatedAt = l.now()
	portfolio.UpdatedAt = portfolio.CreatedAt

	st.portfolios[portfolio.ID] = copyPortfolio(portfolio)

	return nil
}

func (l *ledger) GetPortfolio(_ context.Context, id int64) (*domain.Portfolio, error) {
	st, unlock := l.lock()
	defer unlock()

	p, ok := st.portfolios[id]
	if !ok {
		return nil, ledgererrs.ErrPortfolioNotFound
	}

	return copyPortfolio(p), nil
}

func (l *ledger) GetPortfolioForUpdate(ctx context.Context, id int64) (*domain.Portfolio, error) {
	return l.GetPortfolio(ctx, id)
}

func (l *ledger) UpdatePortfolioValuation(_ context.Context, portfolio *domain.Portfolio) error {
	st, unlock := l.lock()
	defer unlock()

	stored, ok := st.portfolios[portfolio.ID]
	if !ok {
		return ledgererrs.ErrPortfolioNotFound
	}

	stored.TotalInvested = portfolio.TotalInvested
	stored.CurrentValue = portfolio.CurrentValue
	stored.AveragePrice = portfolio.AveragePrice
	stored.UpdatedAt = l.now()
	portfolio.UpdatedAt = stored.UpdatedAt

	return nil
}

func (l *ledger) ListActivePortfolioIDs(_ context.Context) ([]int64, error) {
	st, unlock := l.lock()
	defer unlock()

	ids := make([]int64, 0, len(st.portfolios))
	for id, p := range st.portfolios {
		if p.IsActive {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids, nil
}

func (l *ledger) ListPortfolioIDsHoldingStocks(_ context.Context, stockIDs []int64) ([]int64, error) {
	st, unlock := l.lock()
	defer unlock()

	seen := make(map[int64]struct{})
	ids := []int64{}
	for _, h := range st.holdings {
		if !h.IsActive() || !slices.Contains(stockIDs, h.StockID) {
			continue
		}

		if _, ok := seen[h.PortfolioID]; ok {
			continue
		}

		seen[h.PortfolioID] = struct{}{}
		ids = append(ids, h.PortfolioID)
	}

	slices.Sort(ids)

	return ids, nil
}

func (l *ledger) GetActiveHoldingForUpdate(_ context.Context, portfolioID, stockID int64) (*domain.Holding, error) {
	st, unlock := l.lock()
	defer unlock()

	for _, h := range st.holdings {
		if h.PortfolioID == portfolioID && h.StockID == stockID && h.IsActive() {
			return copyHolding(h), nil
		}
	}

	return nil, ledgererrs.ErrHoldingNotFound
}

func (l *ledger) CreateHolding(_ context.Context, holding *domain.Holding) error {
	st, unlock := l.lock()
	defer unlock()

	for _, h := range st.holdings {
		if h.PortfolioID == holding.PortfolioID && h.StockID == holding.StockID && h.IsActive() {
			return fmt.Errorf("active holding for portfolio %d and stock %d already exists",
				holding.PortfolioID, holding.StockID)
		}
	}

	st.seq.holding++
	holding.ID = st.seq.holding
	holding.CreatedAt = l.now()
	holding.UpdatedAt = holding.CreatedAt

	st.holdings[holding.ID] = copyHolding(holding)

	return nil
}

func (l *ledger) UpdateHolding(_ context.Context, holding *domain.Holding) error {
	st, unlock := l.lock()
	defer unlock()

	if _, ok := st.holdings[holding.ID]; !ok {
		return ledgererrs.ErrHoldingNotFound
	}

	holding.UpdatedAt = l.now()
	st.holdings[holding.ID] = copyHolding(holding)

	return nil
}

func (l *ledger) ListActiveHoldingValuations(_ context.Context, portfolioID int64) ([]*domain.HoldingValuation, error) {
	st, unlock := l.lock()
	defer unlock()

	return listHoldings(st, portfolioID, true), nil
}

func (l *ledger) ListHoldings(_ context.Context, portfolioID int64) ([]*domain.HoldingValuation, error) {
	st, unlock := l.lock()
	defer unlock()

	return listHoldings(st, portfolioID, false), nil
}

func listHoldings(st *state, portfolioID int64, activeOnly bool) []*domain.HoldingValuation {
	valuations := []*domain.HoldingValuation{}
	for _, h := range st.holdings {
		if h.PortfolioID != portfolioID || (activeOnly && !h.IsActive()) {
			continue
		}

		valuation := &domain.HoldingValuation{Holding: copyHolding(h)}
		if s, ok := st.stocks[h.StockID]; ok {
			valuation.Symbol = s.Symbol
			valuation.LastPrice = s.LastPrice
		}

		valuations = append(valuations, valuation)
	}

	sort.Slice(valuations, func(i, j int) bool { return valuations[i].Holding.ID < valuations[j].Holding.ID })

	return valuations
}

func (l *ledger) AppendValueHistory(_ context.Context, point *domain.ValueHistoryPoint) error {
	st, unlock := l.lock()
	defer unlock()

	if _, ok := st.portfolios[point.PortfolioID]; !ok {
		return ledgererrs.ErrPortfolioNotFound
	}

	st.seq.history++
	point.ID = st.seq.history
	if point.RecordedAt.IsZero() {
		point.RecordedAt = l.now()
	}

	stored := *point
	st.history = append(st.history, &stored)

	return nil
}

func (l *ledger) ListValueHistory(_ context.Context, portfolioID int64, r domain.DateRange) ([]*domain.ValueHistoryPoint, error) {
	st, unlock := l.lock()
	defer unlock()

	points := []*domain.ValueHistoryPoint{}
	for _, p := range st.history {
		if p.PortfolioID == portfolioID && r.Contains(p.RecordedAt) {
			point := *p
			points = append(points, &point)
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].RecordedAt.Equal(points[j].RecordedAt) {
			return points[i].ID < points[j].ID
		}
		return points[i].RecordedAt.Before(points[j].RecordedAt)
	})

	return points, nil
}

func (l *ledger) NextOrderCode(_ context.Context) (string, error) {
	st, unlock := l.lock()
	defer unlock()

	st.seq.orderCode++

	return domain.FormatOrderCode(st.seq.orderCode), nil
}

func (l *ledger) CreateOrder(_ context.Context, order *domain.Order) error {
	st, unlock := l.lock()
	defer unlock()

	for _, o := range st.orders {
		if o.Code == order.Code {
			return fmt.Errorf("order code %s already exists", order.Code)
		}
	}

	st.seq.order++
	order.ID = st.seq.order
	order.CreatedAt = l.now()

	st.orders[order.ID] = copyOrder(order)

	return nil
}

func (l *ledger) CreateOrderLineItem(_ context.Context, item *domain.OrderLineItem) error {
	st, unlock := l.lock()
	defer unlock()

	if _, ok := st.orders[item.OrderID]; !ok {
		return ledgererrs.ErrOrderNotFound
	}

	st.seq.lineItem++
	item.ID = st.seq.lineItem

	stored := *item
	st.lineItems = append(st.lineItems, &stored)

	return nil
}

func (l *ledger) GetOrderByCode(_ context.Context, code string) (*domain.Order, error) {
	st, unlock := l.lock()
	defer unlock()

	for _, o := range st.orders {
		if o.Code != code {
			continue
		}

		order := copyOrder(o)
		order.LineItems = []*domain.OrderLineItem{}
		for _, li := range st.lineItems {
			if li.OrderID != order.ID {
				continue
			}

			item := *li
			if s, ok := st.stocks[item.StockID]; ok {
				item.Symbol = s.Symbol
			}
			order.LineItems = append(order.LineItems, &item)
		}

		sort.Slice(order.LineItems, func(i, j int) bool {
			return order.LineItems[i].Position < order.LineItems[j].Position
		})

		return order, nil
	}

	return nil, ledgererrs.ErrOrderNotFound
}

func (l *ledger) ListClientOrders(_ context.Context, clientID int64, r domain.DateRange) ([]*domain.Order, error) {
	st, unlock := l.lock()
	defer unlock()

	orders := []*domain.Order{}
	for _, o := range st.orders {
		if o.ClientID == clientID && r.Contains(o.CreatedAt) {
			orders = append(orders, copyOrder(o))
		}
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	return orders, nil
}
