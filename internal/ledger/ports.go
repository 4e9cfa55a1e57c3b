package ledger

import (
	"context"

	"github.com/Lopniv/financeapp-backend/internal/core"
)

// Store is the persistence contract the ledger service drives. Wallet
// balances are only ever written through SaveWalletBalance inside an
// InTransaction callback; no other component mutates them.
type Store interface {
	CreateWallet(ctx context.Context, w core.Wallet) error
	GetWallet(ctx context.Context, id string) (core.Wallet, error)
	ListWallets(ctx context.Context) ([]core.Wallet, error)
	SaveWalletBalance(ctx context.Context, id string, balance core.Money) error

	CreateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	// ListTransactions returns matches ordered by date descending.
	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// SumByType returns the income and expense totals (in cents) over the
	// filtered transaction set. Empty groups sum to zero.
	SumByType(ctx context.Context, f core.TransactionFilter) (income, expense int64, err error)

	// InTransaction runs fn against a transaction-bound view of the store.
	// All writes made through the view become visible atomically, or not at
	// all if fn returns an error.
	InTransaction(ctx context.Context, fn func(Store) error) error
}

// EventPublisher notifies downstream consumers about committed transaction
// mutations. Implementations must be safe to call concurrently.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, action, transactionID, walletID string) error
}
