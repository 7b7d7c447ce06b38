// Package memory keeps the whole ledger in process memory. Transactions are serialized
// behind one mutex and work on a copy that replaces the committed state only on success.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/leonid6372/stock-ledger/internal/common/domain"
)

type sequences struct {
	account   int64
	stock     int64
	portfolio int64
	holding   int64
	history   int64
	order     int64
	lineItem  int64
	orderCode int64
}

type state struct {
	accounts   map[int64]*domain.ClientAccount
	stocks     map[int64]*domain.Stock
	portfolios map[int64]*domain.Portfolio
	holdings   map[int64]*domain.Holding
	history    []*domain.ValueHistoryPoint
	orders     map[int64]*domain.Order
	lineItems  []*domain.OrderLineItem

	seq sequences
}

func newState() *state {
	return &state{
		accounts:   make(map[int64]*domain.ClientAccount),
		stocks:     make(map[int64]*domain.Stock),
		portfolios: make(map[int64]*domain.Portfolio),
		holdings:   make(map[int64]*domain.Holding),
		orders:     make(map[int64]*domain.Order),
	}
}

func (s *state) clone() *state {
	c := newState()

	for id, a := range s.accounts {
		c.accounts[id] = copyAccount(a)
	}
	for id, st := range s.stocks {
		c.stocks[id] = copyStock(st)
	}
	for id, p := range s.portfolios {
		c.portfolios[id] = copyPortfolio(p)
	}
	for id, h := range s.holdings {
		c.holdings[id] = copyHolding(h)
	}
	for id, o := range s.orders {
		c.orders[id] = copyOrder(o)
	}

	c.history = make([]*domain.ValueHistoryPoint, 0, len(s.history))
	for _, p := range s.history {
		point := *p
		c.history = append(c.history, &point)
	}

	c.lineItems = make([]*domain.OrderLineItem, 0, len(s.lineItems))
	for _, li := range s.lineItems {
		item := *li
		c.lineItems = append(c.lineItems, &item)
	}

	c.seq = s.seq

	return c
}

var _ domain.Store = (*Store)(nil)

// Store implements domain.Store. Calls made on the Store itself outside RunInTx
// commit one by one.
type Store struct {
	mu    sync.Mutex
	st    *state
	clock func() time.Time

	*ledger
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock uses now for every timestamp the store assigns.
func NewStoreWithClock(now func() time.Time) *Store {
	s := &Store{
		st:    newState(),
		clock: now,
	}
	s.ledger = &ledger{store: s}

	return s
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, l domain.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()

	if err := fn(ctx, &ledger{store: s, tx: work}); err != nil {
		return err
	}

	s.st = work

	return nil
}

// Seed lists the records owned by collaborators outside the ledger.
type Seed struct {
	Accounts []domain.ClientAccount `json:"accounts"`
	Stocks   []domain.Stock         `json:"stocks"`
}

func (s *Store) Seed(seed Seed) {
	for i := range seed.Accounts {
		s.AddClientAccount(&seed.Accounts[i])
	}

	for i := range seed.Stocks {
		s.AddStock(&seed.Stocks[i])
	}
}

// AddClientAccount stores a copy of a. A zero ID is replaced by the next free one.
func (s *Store) AddClientAccount(a *domain.ClientAccount) *domain.ClientAccount {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := copyAccount(a)
	if account.ID == 0 {
		s.st.seq.account++
		account.ID = s.st.seq.account
	} else if account.ID > s.st.seq.account {
		s.st.seq.account = account.ID
	}

	if account.LanguageCode == "" {
		account.LanguageCode = domain.DefaultLanguageCode
	}

	account.CreatedAt = s.clock()
	account.UpdatedAt = account.CreatedAt
	s.st.accounts[account.ID] = account

	return copyAccount(account)
}

// AddStock stores a copy of st. A zero ID is replaced by the next free one.
func (s *Store) AddStock(st *domain.Stock) *domain.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock := copyStock(st)
	if stock.ID == 0 {
		s.st.seq.stock++
		stock.ID = s.st.seq.stock
	} else if stock.ID > s.st.seq.stock {
		s.st.seq.stock = stock.ID
	}

	stock.CreatedAt = s.clock()
	s.st.stocks[stock.ID] = stock

	return copyStock(stock)
}

func copyAccount(a *domain.ClientAccount) *domain.ClientAccount {
	c := *a
	return &c
}

func copyStock(s *domain.Stock) *domain.Stock {
	c := *s
	if s.UpdatedAt != nil {
		updatedAt := *s.UpdatedAt
		c.UpdatedAt = &updatedAt
	}

	return &c
}

func copyPortfolio(p *domain.Portfolio) *domain.Portfolio {
	c := *p
	return &c
}

func copyHolding(h *domain.Holding) *domain.Holding {
	c := *h
	return &c
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.LineItems = nil

	return &c
}
