package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/leonid6372/stock-ledger/internal/app"
	"github.com/leonid6372/stock-ledger/internal/ledger"
)

type revalueCmd struct {
	portfolioID int64
}

func (*revalueCmd) Name() string     { return "revalue" }
func (*revalueCmd) Synopsis() string { return "recalculate portfolio valuations" }
func (*revalueCmd) Usage() string {
	return `ledgerctl [-config <path>] revalue [-p <portfolio id>]

  Recalculates one portfolio, or every active portfolio when -p is omitted,
  and records a value history point for each.
`
}

func (c *revalueCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.portfolioID, "p", 0, "Portfolio to revalue. Defaults to all active portfolios.")
}

func (c *revalueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}

	store, closeStore, err := app.OpenStore(ctx, cfg, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	service := ledger.NewService(store)

	if c.portfolioID != 0 {
		p, err := service.Revalue(ctx, c.portfolioID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error revaluing portfolio %d: %v\n", c.portfolioID, err)
			return subcommands.ExitFailure
		}

		fmt.Printf("portfolio %d: invested %s, value %s\n", p.ID, p.TotalInvested, p.CurrentValue)
		return subcommands.ExitSuccess
	}

	n, err := service.RevalueAll(ctx)
	fmt.Printf("revalued %d portfolios\n", n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error revaluing portfolios: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
