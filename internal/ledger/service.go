// Package ledger keeps wallet balances consistent with their transaction
// history. Every mutation follows the same discipline: reverse the old
// effect, apply the new one, all inside a single store transaction.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lopniv/financeapp-backend/internal/core"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

type Service struct {
	store  Store
	events EventPublisher // nil when messaging is not configured
	now    func() time.Time
}

func NewService(store Store, events EventPublisher) *Service {
	return &Service{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// TransactionUpdate carries the mutable transaction fields for an update.
// A zero Date keeps the stored one; the wallet reference never changes.
type TransactionUpdate struct {
	Amount   core.Money
	Type     core.Type
	Category core.Category
	Note     string
	Date     time.Time
}

// TransferRequest describes a wallet-to-wallet transfer. Note is optional;
// when empty a description naming the counterpart wallet is generated.
type TransferRequest struct {
	FromWalletID string
	ToWalletID   string
	Amount       core.Money
	Note         string
	Date         time.Time
}

// CreateWallet registers a wallet. A non-zero opening balance is backed by a
// synthetic income transaction so the balance invariant holds from creation.
func (s *Service) CreateWallet(ctx context.Context, name string, opening core.Money) (core.Wallet, error) {
	now := s.now()
	w := core.Wallet{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Balance:   opening,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}

	err := s.store.InTransaction(ctx, func(tx Store) error {
		if err := tx.CreateWallet(ctx, w); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
		if opening.Cents == 0 {
			return nil
		}
		openingTx := core.Transaction{
			ID:       uuid.NewString(),
			WalletID: w.ID,
			Amount:   opening,
			Type:     core.TypeIncome,
			Category: core.CategoryOther,
			Note:     "Opening balance",
			Date:     now,
		}
		if err := tx.CreateTransaction(ctx, openingTx); err != nil {
			return fmt.Errorf("create opening transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Wallet{}, err
	}

	slog.InfoContext(ctx, "Wallet created",
		"wallet_id", w.ID,
		"name", w.Name,
		"opening_cents", opening.Cents)
	return w, nil
}

func (s *Service) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	return s.store.ListWallets(ctx)
}

func (s *Service) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	return s.store.GetWallet(ctx, id)
}

// AddTransaction persists a transaction and applies its effect to the
// referenced wallet's cached balance in the same store transaction.
func (s *Service) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.Note = strings.TrimSpace(t.Note)
	if t.Date.IsZero() {
		t.Date = s.now()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	err := s.store.InTransaction(ctx, func(tx Store) error {
		w, err := tx.GetWallet(ctx, t.WalletID)
		if err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, t); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		w.Balance.Cents += t.Effect()
		return tx.SaveWalletBalance(ctx, w.ID, w.Balance)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, EventTransactionCreated, t.ID, t.WalletID)
	slog.InfoContext(ctx, "Transaction added",
		"transaction_id", t.ID,
		"wallet_id", t.WalletID,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents)
	return t, nil
}

// UpdateTransaction overwrites the mutable fields of a transaction. The old
// effect is reversed and the new one applied, so afterwards the wallet
// balance reads as if the transaction had always held its new values.
func (s *Service) UpdateTransaction(ctx context.Context, id string, upd TransactionUpdate) (core.Transaction, error) {
	var updated core.Transaction

	err := s.store.InTransaction(ctx, func(tx Store) error {
		old, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		w, err := tx.GetWallet(ctx, old.WalletID)
		if err != nil {
			return err
		}

		updated = old
		updated.Amount = upd.Amount
		updated.Type = upd.Type
		updated.Category = upd.Category
		updated.Note = strings.TrimSpace(upd.Note)
		if !upd.Date.IsZero() {
			updated.Date = upd.Date
		}
		if err := updated.Validate(); err != nil {
			return err
		}

		w.Balance.Cents -= old.Effect()
		w.Balance.Cents += updated.Effect()
		if err := tx.UpdateTransaction(ctx, updated); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return tx.SaveWalletBalance(ctx, w.ID, w.Balance)
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, EventTransactionUpdated, updated.ID, updated.WalletID)
	slog.InfoContext(ctx, "Transaction updated",
		"transaction_id", updated.ID,
		"wallet_id", updated.WalletID,
		"type", string(updated.Type),
		"amount_cents", updated.Amount.Cents)
	return updated, nil
}

// DeleteTransaction removes a transaction after reversing its effect on the
// wallet balance.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	var walletID string

	err := s.store.InTransaction(ctx, func(tx Store) error {
		t, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		w, err := tx.GetWallet(ctx, t.WalletID)
		if err != nil {
			return err
		}
		walletID = w.ID

		w.Balance.Cents -= t.Effect()
		if err := tx.SaveWalletBalance(ctx, w.ID, w.Balance); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventTransactionDeleted, id, walletID)
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "wallet_id", walletID)
	return nil
}

// Transfer moves funds between two wallets and records the matched
// transferout/transferin pair. The balances are adjusted directly here, so
// the generated transactions must not go through AddTransaction: that would
// apply their effects a second time.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) error {
	if err := req.Amount.Validate(); err != nil {
		return err
	}
	if req.FromWalletID == req.ToWalletID {
		return core.ErrSameWallet
	}
	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	var outID, inID string
	err := s.store.InTransaction(ctx, func(tx Store) error {
		from, err := tx.GetWallet(ctx, req.FromWalletID)
		if err != nil {
			return err
		}
		to, err := tx.GetWallet(ctx, req.ToWalletID)
		if err != nil {
			return err
		}
		if from.Balance.Cents < req.Amount.Cents {
			return core.ErrInsufficientFunds
		}

		from.Balance.Cents -= req.Amount.Cents
		to.Balance.Cents += req.Amount.Cents
		if err := tx.SaveWalletBalance(ctx, from.ID, from.Balance); err != nil {
			return err
		}
		if err := tx.SaveWalletBalance(ctx, to.ID, to.Balance); err != nil {
			return err
		}

		outNote := req.Note
		if outNote == "" {
			outNote = "Transfer to " + to.Name
		}
		inNote := req.Note
		if inNote == "" {
			inNote = "Transfer from " + from.Name
		}

		out := core.Transaction{
			ID:       uuid.NewString(),
			WalletID: from.ID,
			Amount:   req.Amount,
			Type:     core.TypeExpense,
			Category: core.CategoryTransferOut,
			Note:     outNote,
			Date:     date,
		}
		in := core.Transaction{
			ID:       uuid.NewString(),
			WalletID: to.ID,
			Amount:   req.Amount,
			Type:     core.TypeIncome,
			Category: core.CategoryTransferIn,
			Note:     inNote,
			Date:     date,
		}
		if err := tx.CreateTransaction(ctx, out); err != nil {
			return fmt.Errorf("create outgoing transaction: %w", err)
		}
		if err := tx.CreateTransaction(ctx, in); err != nil {
			return fmt.Errorf("create incoming transaction: %w", err)
		}
		outID, inID = out.ID, in.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventTransactionCreated, outID, req.FromWalletID)
	s.publish(ctx, EventTransactionCreated, inID, req.ToWalletID)
	slog.InfoContext(ctx, "Transfer completed",
		"from_wallet_id", req.FromWalletID,
		"to_wallet_id", req.ToWalletID,
		"amount_cents", req.Amount.Cents)
	return nil
}

// RecomputeBalance re-derives a wallet balance from its transaction set and
// persists the result. It returns the corrected wallet and the drift (in
// cents) found between the cached and recomputed values.
func (s *Service) RecomputeBalance(ctx context.Context, walletID string) (core.Wallet, int64, error) {
	var (
		w     core.Wallet
		drift int64
	)
	err := s.store.InTransaction(ctx, func(tx Store) error {
		var err error
		w, err = tx.GetWallet(ctx, walletID)
		if err != nil {
			return err
		}
		income, expense, err := tx.SumByType(ctx, core.TransactionFilter{WalletID: walletID})
		if err != nil {
			return fmt.Errorf("sum transactions: %w", err)
		}
		derived := income - expense
		drift = w.Balance.Cents - derived
		if drift == 0 {
			return nil
		}
		w.Balance.Cents = derived
		return tx.SaveWalletBalance(ctx, w.ID, w.Balance)
	})
	if err != nil {
		return core.Wallet{}, 0, err
	}

	if drift != 0 {
		slog.WarnContext(ctx, "Wallet balance drift repaired",
			"wallet_id", walletID,
			"drift_cents", drift,
			"balance_cents", w.Balance.Cents)
	}
	return w, drift, nil
}

func (s *Service) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, f)
}

// Summary totals income and expense over all wallets (empty walletID) or a
// single one.
func (s *Service) Summary(ctx context.Context, walletID string) (core.Summary, error) {
	income, expense, err := s.store.SumByType(ctx, core.TransactionFilter{WalletID: walletID})
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summary{
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
	}, nil
}

func (s *Service) MonthlySummary(ctx context.Context, walletID string, year, month int) (core.MonthlySummary, error) {
	income, expense, err := s.store.SumByType(ctx, core.TransactionFilter{
		WalletID: walletID,
		Year:     year,
		Month:    month,
	})
	if err != nil {
		return core.MonthlySummary{}, err
	}
	return core.MonthlySummary{
		Month:   core.MonthKey(year, month),
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
	}, nil
}

// CategorySummary echoes the requested category alongside its totals. Year
// and month are optional; zero values disable the date restriction.
func (s *Service) CategorySummary(ctx context.Context, walletID string, category core.Category, year, month int) (core.CategorySummary, error) {
	if !category.Valid() {
		return core.CategorySummary{}, core.ErrInvalidCategory
	}
	income, expense, err := s.store.SumByType(ctx, core.TransactionFilter{
		WalletID: walletID,
		Category: category,
		Year:     year,
		Month:    month,
	})
	if err != nil {
		return core.CategorySummary{}, err
	}
	return core.CategorySummary{
		Category: category,
		Income:   core.Money{Cents: income},
		Expense:  core.Money{Cents: expense},
	}, nil
}

// publish emits a post-commit event. Failures are logged and swallowed: the
// mutation is already durable and the worker reconciles on its own schedule.
func (s *Service) publish(ctx context.Context, action, transactionID, walletID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, action, transactionID, walletID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"error", err,
			"action", action,
			"transaction_id", transactionID,
			"wallet_id", walletID)
	}
}
