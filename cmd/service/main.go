package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/leonid6372/stock-ledger/internal/api"
	"github.com/leonid6372/stock-ledger/internal/app"
	"github.com/leonid6372/stock-ledger/internal/common/config"
	"github.com/leonid6372/stock-ledger/internal/ledger"
	"github.com/leonid6372/stock-ledger/internal/notify"
	"github.com/leonid6372/stock-ledger/pkg/dictionary"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "prod.yaml", "service config path")
	flag.Parse()

	cfg, err := config.GetConfig(configPath)
	if err != nil {
		log.Fatal("config init failed", zap.Error(err))
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		log.Fatal("log init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("service starting...", zap.String("env", cfg.Env), zap.String("storage", cfg.Storage))

	log.Info("init store...")
	store, closeStore, err := app.OpenStore(ctx, cfg, true)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}

	service := ledger.NewService(store)

	var notifier api.Notifier = notify.Nop{}
	if cfg.Telegram.Enabled {
		log.Info("init telegram...")

		dict, err := dictionary.New()
		if err != nil {
			log.Fatal("dictionary init failed", zap.Error(err))
		}

		sender, err := notify.NewTelegramSender(cfg.Telegram.APIKey)
		if err != nil {
			log.Fatal("telegram init failed", zap.Error(err))
		}

		n := notify.New(sender, dict, store, cfg.Telegram.QueueSize)
		go n.Run(ctx)

		notifier = n
	}

	server := api.New(&cfg.HTTP, service, notifier)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	log.Info("service starting complete")

	<-ctx.Done()
	log.Info("service shutting down...")

	if err := server.Stop(context.Background()); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	closeStore()

	if err := log.Sync(); err != nil {
		log.Error("log sync failed", zap.Error(err))
	}

	log.Info("service shut down complete")
}
