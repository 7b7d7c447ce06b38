package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledger"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"go.uber.org/zap"
)

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) buyHandler(w http.ResponseWriter, r *http.Request) {
	s.orderHandlerFunc(w, r, s.deps.ledger.Buy)
}

func (s *Server) sellHandler(w http.ResponseWriter, r *http.Request) {
	s.orderHandlerFunc(w, r, s.deps.ledger.Sell)
}

func (s *Server) orderHandlerFunc(
	w http.ResponseWriter,
	r *http.Request,
	execute func(context.Context, *domain.OrderRequest) (*domain.Order, error),
) {
	var req domain.OrderRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := execute(r.Context(), &req)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	log.Info("order executed",
		zap.String("code", order.Code),
		zap.String("kind", string(order.Kind)),
		zap.Int64("client_id", order.ClientID),
		zap.Int("lines", len(order.LineItems)),
	)

	s.deps.notifier.OrderExecuted(order)

	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) orderHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.ledger.GetOrder(r.Context(), chi.URLParam(r, paramOrderCode))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) orderSummaryHandler(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, paramClientID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	dates, err := dayRangeQuery(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	summary, err := s.deps.ledger.OrderSummary(r.Context(), clientID, dates)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) createPortfolioHandler(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreatePortfolioRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	portfolio, err := s.deps.ledger.CreatePortfolio(r.Context(), &req)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, portfolio)
}

func (s *Server) portfolioHandler(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, paramPortfolioID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	details, err := s.deps.ledger.PortfolioDetails(r.Context(), portfolioID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (s *Server) revalueHandler(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, paramPortfolioID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	portfolio, err := s.deps.ledger.Revalue(r.Context(), portfolioID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, portfolio)
}

func (s *Server) gainHandler(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, paramPortfolioID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	dates, err := dayRangeQuery(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	result, err := s.deps.ledger.Gain(r.Context(), portfolioID, dates)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, paramPortfolioID)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	dates, err := dayRangeQuery(r)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	points, err := s.deps.ledger.History(r.Context(), portfolioID, dates)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	if points == nil {
		points = []*domain.ValueHistoryPoint{}
	}

	writeJSON(w, http.StatusOK, points)
}
