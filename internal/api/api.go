package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leonid6372/stock-ledger/internal/common/config"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledger"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"go.uber.org/zap"
)

// Notifier is told about every order after its transaction has committed.
type Notifier interface {
	OrderExecuted(order *domain.Order)
}

type Server struct {
	Router chi.Router
	http   *http.Server
	cfg    *config.HTTP

	deps *Dependencies
}

type Dependencies struct {
	ledger   *ledger.Service
	notifier Notifier
}

func New(cfg *config.HTTP, service *ledger.Service, notifier Notifier) *Server {
	s := &Server{
		Router: chi.NewRouter(),
		cfg:    cfg,
		deps: &Dependencies{
			ledger:   service,
			notifier: notifier,
		},
	}

	s.setupMiddlewares()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddlewares() {
	s.Router.Use(
		s.recoveryMiddleware,
		s.requestIDMiddleware,
		s.loggingMiddleware,
		s.timeoutMiddleware,
		s.contentTypeMiddleware,
	)
}

func (s *Server) setupRoutes() {
	s.Router.Get("/healthz", s.healthHandler)

	s.Router.Route("/orders", func(r chi.Router) {
		r.Post("/buy", s.buyHandler)
		r.Post("/sell", s.sellHandler)
		r.Get("/{"+paramOrderCode+"}", s.orderHandler)
	})

	s.Router.Get("/clients/{"+paramClientID+"}/orders/summary", s.orderSummaryHandler)

	s.Router.Route("/portfolios", func(r chi.Router) {
		r.Post("/", s.createPortfolioHandler)
		r.Get("/{"+paramPortfolioID+"}", s.portfolioHandler)
		r.Post("/{"+paramPortfolioID+"}/revalue", s.revalueHandler)
		r.Get("/{"+paramPortfolioID+"}/gain", s.gainHandler)
		r.Get("/{"+paramPortfolioID+"}/history", s.historyHandler)
	})
}

// Start serves until Stop is called. It returns nil after a graceful stop.
func (s *Server) Start() error {
	log.Info("http server started", zap.String("address", s.cfg.Address))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http.ListenAndServe: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http.Shutdown: %w", err)
	}

	return nil
}
