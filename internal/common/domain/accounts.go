package domain

import (
	"context"
	"time"

	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
	"github.com/shopspring/decimal"
)

type AccountsRepository interface {
	GetClientAccount(ctx context.Context, id int64) (*ClientAccount, error)
	// GetClientAccountForUpdate locks the account row until the surrounding transaction ends.
	GetClientAccountForUpdate(ctx context.Context, id int64) (*ClientAccount, error)
	UpdateClientAccount(ctx context.Context, account *ClientAccount) error
}

// ClientAccount is owned by the user-account collaborator; the ledger only moves its balances.
type ClientAccount struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	TelegramID   int64  `json:"telegram_id,omitempty"`
	LanguageCode string `json:"language_code"`

	CashAvailable decimal.Decimal `json:"cash_available"`
	CashBlocked   decimal.Decimal `json:"cash_blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *ClientAccount) CanAfford(amount decimal.Decimal) bool {
	return a.CashAvailable.GreaterThanOrEqual(amount)
}

// Debit takes amount out of the available cash. The balance never goes negative.
func (a *ClientAccount) Debit(amount decimal.Decimal) error {
	if !a.CanAfford(amount) {
		return ledgererrs.ErrInsufficientFunds
	}

	a.CashAvailable = a.CashAvailable.Sub(amount)

	return nil
}

func (a *ClientAccount) Credit(amount decimal.Decimal) {
	a.CashAvailable = a.CashAvailable.Add(amount)
}
