package domain

import "context"

// Ledger is the full set of repositories the engine works with. Inside RunInTx every
// call goes through the same transaction.
type Ledger interface {
	AccountsRepository
	StocksRepository
	PortfoliosRepository
	HoldingsRepository
	ValueHistoryRepository
	OrdersRepository
}

type TxManager interface {
	// RunInTx commits everything fn did through l if fn returns nil and discards it otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
}

// Store gives transactional access plus plain reads outside a transaction.
type Store interface {
	TxManager
	Ledger
}
