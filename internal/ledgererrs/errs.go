package ledgererrs

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrStockNotFound     = errors.New("stock not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrHoldingNotFound   = errors.New("holding not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientSharesError reports a sell line asking for more shares than the holding has.
type InsufficientSharesError struct {
	StockID   int64
	Symbol    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("not enough shares of %s to sell: have %s, requested %s",
		e.Symbol, e.Available.String(), e.Requested.String())
}

// ValidationError reports malformed or non-positive input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrStockNotFound) ||
		errors.Is(err, ErrPortfolioNotFound) ||
		errors.Is(err, ErrHoldingNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

func IsInvalidInput(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsInsufficientShares(err error) bool {
	var sharesErr *InsufficientSharesError
	return errors.As(err, &sharesErr)
}

// IsBusinessRule reports whether err is one of the rule failures a caller can correct,
// as opposed to an infrastructure failure.
func IsBusinessRule(err error) bool {
	return IsNotFound(err) ||
		IsInvalidInput(err) ||
		IsInsufficientShares(err) ||
		errors.Is(err, ErrInsufficientFunds)
}
