package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/leonid6372/stock-ledger/pkg/log"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteSource returns the latest traded price of a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// QuoteRefresher copies quotes into stock prices and revalues the portfolios holding the
// repriced stocks. Symbols fetched within the cache TTL are skipped; a zero TTL disables
// skipping.
type QuoteRefresher struct {
	service *Service
	source  QuoteSource
	ttl     time.Duration
	fetched *cache.Cache
}

func NewQuoteRefresher(service *Service, source QuoteSource, ttl time.Duration) *QuoteRefresher {
	return &QuoteRefresher{
		service: service,
		source:  source,
		ttl:     ttl,
		fetched: cache.New(ttl, 2*ttl),
	}
}

type RefreshResult struct {
	Repriced int `json:"repriced"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
	Revalued int `json:"revalued"`
}

// Refresh walks every stock once. A symbol the source cannot price keeps its old price.
func (q *QuoteRefresher) Refresh(ctx context.Context) (*RefreshResult, error) {
	stocks, err := q.service.store.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}

	result := &RefreshResult{}
	repriced := []int64{}

	for _, stock := range stocks {
		if _, ok := q.fetched.Get(stock.Symbol); ok && q.ttl > 0 {
			result.Skipped++
			continue
		}

		price, err := q.source.Quote(ctx, stock.Symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			log.Warn("failed to fetch quote", zap.String("symbol", stock.Symbol), zap.Error(err))
			result.Failed++
			continue
		}

		if q.ttl > 0 {
			q.fetched.SetDefault(stock.Symbol, price)
		}

		if stock.LastPrice.Valid && stock.LastPrice.Decimal.Equal(price) {
			continue
		}

		if err := q.service.store.UpdateStockPrice(ctx, stock.ID, price, q.service.now().UTC()); err != nil {
			return nil, fmt.Errorf("failed to update price of %s: %w", stock.Symbol, err)
		}

		log.Debug("stock repriced", zap.String("symbol", stock.Symbol), zap.String("price", price.String()))

		result.Repriced++
		repriced = append(repriced, stock.ID)
	}

	revalued, err := q.service.RevalueHoldersOf(ctx, repriced)
	result.Revalued = revalued
	if err != nil {
		return result, fmt.Errorf("failed to revalue portfolios: %w", err)
	}

	return result, nil
}
