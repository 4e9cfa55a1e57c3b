package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lopniv/financeapp-backend/internal/core"
	"github.com/Lopniv/financeapp-backend/internal/ledger"
)

func TestStoreWalletCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	w := core.Wallet{ID: "w1", Name: "Cash", Balance: core.Money{Cents: 1000}}
	require.NoError(t, s.CreateWallet(ctx, w))

	got, err := s.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, w, got)

	_, err = s.GetWallet(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrWalletNotFound)

	require.NoError(t, s.SaveWalletBalance(ctx, "w1", core.Money{Cents: 750}))
	got, err = s.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(750), got.Balance.Cents)

	assert.ErrorIs(t, s.SaveWalletBalance(ctx, "nope", core.Money{}), core.ErrWalletNotFound)
}

func TestStoreListWalletsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.CreateWallet(ctx, core.Wallet{ID: id, Name: id}))
	}
	wallets, err := s.ListWallets(ctx)
	require.NoError(t, err)
	ids := make([]string, len(wallets))
	for i, w := range wallets {
		ids[i] = w.ID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestStoreListTransactionsDateDesc(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, s.CreateTransaction(ctx, core.Transaction{
			ID:       id,
			WalletID: "w1",
			Date:     base.AddDate(0, 0, i),
		}))
	}

	list, err := s.ListTransactions(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "t3", list[0].ID)
	assert.Equal(t, "t2", list[1].ID)
	assert.Equal(t, "t1", list[2].ID)
}

func TestStoreSumByType(t *testing.T) {
	ctx := context.Background()
	s := New()
	txs := []core.Transaction{
		{ID: "t1", WalletID: "w1", Type: core.TypeIncome, Amount: core.Money{Cents: 100}, Category: core.CategorySalary},
		{ID: "t2", WalletID: "w1", Type: core.TypeExpense, Amount: core.Money{Cents: 40}, Category: core.CategoryTransport},
		{ID: "t3", WalletID: "w2", Type: core.TypeIncome, Amount: core.Money{Cents: 25}, Category: core.CategorySalary},
	}
	for _, tx := range txs {
		require.NoError(t, s.CreateTransaction(ctx, tx))
	}

	income, expense, err := s.SumByType(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(125), income)
	assert.Equal(t, int64(40), expense)

	income, expense, err = s.SumByType(ctx, core.TransactionFilter{WalletID: "w1"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), income)
	assert.Equal(t, int64(40), expense)

	income, expense, err = s.SumByType(ctx, core.TransactionFilter{Category: core.CategoryEntertainment})
	require.NoError(t, err)
	assert.Zero(t, income)
	assert.Zero(t, expense)
}

func TestInTransactionCommit(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateWallet(ctx, core.Wallet{ID: "w1", Name: "Cash"}))

	err := s.InTransaction(ctx, func(tx ledger.Store) error {
		if err := tx.CreateTransaction(ctx, core.Transaction{ID: "t1", WalletID: "w1"}); err != nil {
			return err
		}
		return tx.SaveWalletBalance(ctx, "w1", core.Money{Cents: 500})
	})
	require.NoError(t, err)

	w, err := s.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.Balance.Cents)
	_, err = s.GetTransaction(ctx, "t1")
	assert.NoError(t, err)
}

func TestInTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateWallet(ctx, core.Wallet{ID: "w1", Name: "Cash", Balance: core.Money{Cents: 100}}))

	boom := errors.New("boom")
	err := s.InTransaction(ctx, func(tx ledger.Store) error {
		if err := tx.SaveWalletBalance(ctx, "w1", core.Money{Cents: 999}); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, core.Transaction{ID: "t1", WalletID: "w1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither step leaked.
	w, err := s.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), w.Balance.Cents)
	_, err = s.GetTransaction(ctx, "t1")
	assert.ErrorIs(t, err, core.ErrTransactionNotFound)
}

func TestInTransactionNested(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateWallet(ctx, core.Wallet{ID: "w1", Name: "Cash"}))

	err := s.InTransaction(ctx, func(tx ledger.Store) error {
		return tx.InTransaction(ctx, func(inner ledger.Store) error {
			return inner.SaveWalletBalance(ctx, "w1", core.Money{Cents: 42})
		})
	})
	require.NoError(t, err)

	w, err := s.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), w.Balance.Cents)
}
