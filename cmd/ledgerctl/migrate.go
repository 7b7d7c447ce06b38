package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/leonid6372/stock-ledger/internal/app"
	"github.com/leonid6372/stock-ledger/internal/common/config"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply, roll back or inspect schema migrations" }
func (*migrateCmd) Usage() string {
	return `ledgerctl [-config <path>] migrate up|down|status

  Runs the embedded goose migrations against the configured postgres database.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "migrate expects exactly one of up, down, status")
		return subcommands.ExitUsageError
	}

	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}

	if cfg.Storage != config.StoragePostgres {
		fmt.Fprintf(os.Stderr, "migrations need postgres storage, got %q\n", cfg.Storage)
		return subcommands.ExitFailure
	}

	migrator := app.NewMigrator(cfg)

	var err error
	switch f.Arg(0) {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "status":
		err = migrator.Status()
	default:
		fmt.Fprintf(os.Stderr, "unknown migrate action %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrate %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
