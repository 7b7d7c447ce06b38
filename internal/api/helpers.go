package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leonid6372/stock-ledger/internal/common/domain"
	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/leonid6372/stock-ledger/pkg/errs"
	"github.com/leonid6372/stock-ledger/pkg/log"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeLedgerError maps ledger errors onto status codes. Anything it does not recognise
// is reported as an internal error without leaking its text.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	fields := errorFields(r, err)

	switch {
	case ledgererrs.IsNotFound(err):
		log.Warn("resource not found", fields...)
		writeError(w, http.StatusNotFound, err.Error())
	case ledgererrs.IsBusinessRule(err):
		log.Warn("request rejected", fields...)
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", fields...)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

// errorFields describes a failed request. Errors wrapped with errs.NewStack also carry
// the recorded stack.
func errorFields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("request_id", requestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}

	if stack := errs.Stack(err); stack != "" {
		fields = append(fields, zap.String("stack", stack))
	}

	return fields
}

func parseJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", msgInvalidJSON, err)
	}

	if dec.More() {
		return errors.New(msgInvalidJSON)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ledgererrs.NewValidationError(name, "must be a positive integer")
	}

	return id, nil
}

// dayRangeQuery reads the closed start-date/end-date range from the query string.
func dayRangeQuery(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	return domain.ParseDayRange(q.Get(queryStartDate), q.Get(queryEndDate))
}
