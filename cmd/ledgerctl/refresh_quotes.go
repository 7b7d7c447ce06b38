package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/leonid6372/stock-ledger/internal/app"
	"github.com/leonid6372/stock-ledger/internal/common/clients/alphavantage"
	"github.com/leonid6372/stock-ledger/internal/ledger"
)

type refreshQuotesCmd struct{}

func (*refreshQuotesCmd) Name() string     { return "refresh-quotes" }
func (*refreshQuotesCmd) Synopsis() string { return "fetch quotes and revalue holders" }
func (*refreshQuotesCmd) Usage() string {
	return `ledgerctl [-config <path>] refresh-quotes

  Fetches a quote for every stock from Alpha Vantage, stores changed prices
  and revalues the portfolios holding the repriced stocks.
`
}

func (*refreshQuotesCmd) SetFlags(*flag.FlagSet) {}

func (c *refreshQuotesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}

	if cfg.Quotes.APIKey == "" {
		fmt.Fprintln(os.Stderr, "quotes.api_key is required")
		return subcommands.ExitFailure
	}

	store, closeStore, err := app.OpenStore(ctx, cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	client := alphavantage.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.APIKey,
		alphavantage.LimiterPerMinute(cfg.Quotes.RequestsPerMinute))

	refresher := ledger.NewQuoteRefresher(ledger.NewService(store), client, cfg.Quotes.CacheTTL)

	result, err := refresher.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing quotes: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("repriced %d, skipped %d, failed %d, revalued %d portfolios\n",
		result.Repriced, result.Skipped, result.Failed, result.Revalued)

	return subcommands.ExitSuccess
}
