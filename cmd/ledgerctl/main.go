package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var configPath = flag.String("config", "prod.yaml", "service config path")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "database")
	commander.Register(&revalueCmd{}, "valuation")
	commander.Register(&refreshQuotesCmd{}, "valuation")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
