// Package memory is an in-memory ledger.Store used by tests and by the
// memory data backend. A single mutex serialises writers, so concurrent
// mutations against one wallet cannot interleave their read-modify-write.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Lopniv/financeapp-backend/internal/core"
	"github.com/Lopniv/financeapp-backend/internal/ledger"
)

type Store struct {
	mu sync.Mutex
	// tx marks a transaction view: it operates on private copies without
	// locking, and the parent swaps them in on success.
	tx bool

	wallets     map[string]core.Wallet
	walletOrder []string

	transactions map[string]core.Transaction
	txOrder      []string
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		wallets:      make(map[string]core.Wallet),
		transactions: make(map[string]core.Transaction),
	}
}

func (s *Store) lock() {
	if !s.tx {
		s.mu.Lock()
	}
}

func (s *Store) unlock() {
	if !s.tx {
		s.mu.Unlock()
	}
}

func (s *Store) CreateWallet(_ context.Context, w core.Wallet) error {
	s.lock()
	defer s.unlock()
	s.wallets[w.ID] = w
	s.walletOrder = append(s.walletOrder, w.ID)
	return nil
}

func (s *Store) GetWallet(_ context.Context, id string) (core.Wallet, error) {
	s.lock()
	defer s.unlock()
	w, ok := s.wallets[id]
	if !ok {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	return w, nil
}

func (s *Store) ListWallets(_ context.Context) ([]core.Wallet, error) {
	s.lock()
	defer s.unlock()
	out := make([]core.Wallet, 0, len(s.walletOrder))
	for _, id := range s.walletOrder {
		out = append(out, s.wallets[id])
	}
	return out, nil
}

func (s *Store) SaveWalletBalance(_ context.Context, id string, balance core.Money) error {
	s.lock()
	defer s.unlock()
	w, ok := s.wallets[id]
	if !ok {
		return core.ErrWalletNotFound
	}
	w.Balance = balance
	w.UpdatedAt = time.Now()
	s.wallets[id] = w
	return nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) error {
	s.lock()
	defer s.unlock()
	s.transactions[t.ID] = t
	s.txOrder = append(s.txOrder, t.ID)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.lock()
	defer s.unlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	s.lock()
	defer s.unlock()
	var out []core.Transaction
	for _, id := range s.txOrder {
		if t := s.transactions[id]; f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.lock()
	defer s.unlock()
	if _, ok := s.transactions[t.ID]; !ok {
		return core.ErrTransactionNotFound
	}
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.lock()
	defer s.unlock()
	if _, ok := s.transactions[id]; !ok {
		return core.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	for i, other := range s.txOrder {
		if other == id {
			s.txOrder = append(s.txOrder[:i], s.txOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) SumByType(_ context.Context, f core.TransactionFilter) (income, expense int64, err error) {
	s.lock()
	defer s.unlock()
	for _, t := range s.transactions {
		if !f.Matches(t) {
			continue
		}
		switch t.Type {
		case core.TypeIncome:
			income += t.Amount.Cents
		case core.TypeExpense:
			expense += t.Amount.Cents
		}
	}
	return income, expense, nil
}

// InTransaction runs fn against a copy of the store state and swaps the copy
// in only when fn succeeds, so partial multi-step mutations never leak.
func (s *Store) InTransaction(_ context.Context, fn func(ledger.Store) error) error {
	if s.tx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view := &Store{
		tx:           true,
		wallets:      make(map[string]core.Wallet, len(s.wallets)),
		walletOrder:  append([]string(nil), s.walletOrder...),
		transactions: make(map[string]core.Transaction, len(s.transactions)),
		txOrder:      append([]string(nil), s.txOrder...),
	}
	for id, w := range s.wallets {
		view.wallets[id] = w
	}
	for id, t := range s.transactions {
		view.transactions[id] = t
	}

	if err := fn(view); err != nil {
		return err
	}

	s.wallets = view.wallets
	s.walletOrder = view.walletOrder
	s.transactions = view.transactions
	s.txOrder = view.txOrder
	return nil
}
