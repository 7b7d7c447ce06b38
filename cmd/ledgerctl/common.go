package main

import (
	"fmt"
	"os"

	"github.com/leonid6372/stock-ledger/internal/common/config"
	"github.com/leonid6372/stock-ledger/pkg/log"
)

// loadConfig reads the shared config and initialises logging from it.
func loadConfig() (*config.Config, bool) {
	cfg, err := config.GetConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %q: %v\n", *configPath, err)
		return nil, false
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		fmt.Fprintf(os.Stderr, "Error initialising log: %v\n", err)
		return nil, false
	}

	return cfg, true
}
