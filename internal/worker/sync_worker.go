// Package worker processes transaction events published by the API: newly
// created transactions are exported to the Google Sheets ledger, and every
// event triggers a balance audit on the affected wallet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lopniv/financeapp-backend/internal/amqp"
	"github.com/Lopniv/financeapp-backend/internal/core"
	"github.com/Lopniv/financeapp-backend/internal/ledger"
)

// TransactionAppender exports one transaction row to an external ledger.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction) error
}

type SyncWorker struct {
	store    ledger.Store
	service  *ledger.Service
	exporter TransactionAppender // nil disables sheet export
}

func NewSyncWorker(store ledger.Store, service *ledger.Service, exporter TransactionAppender) *SyncWorker {
	return &SyncWorker{
		store:    store,
		service:  service,
		exporter: exporter,
	}
}

// HandleEvent processes one transaction event from AMQP.
func (w *SyncWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", msg.Action,
		"transaction_id", msg.TransactionID,
		"wallet_id", msg.WalletID)

	if msg.Action == ledger.EventTransactionCreated && w.exporter != nil {
		t, err := w.store.GetTransaction(ctx, msg.TransactionID)
		switch {
		case errors.Is(err, core.ErrTransactionNotFound):
			// Deleted before we got to it; nothing to export.
			slog.WarnContext(ctx, "Transaction vanished before export",
				"transaction_id", msg.TransactionID)
		case err != nil:
			return fmt.Errorf("get transaction: %w", err)
		default:
			if err := w.exporter.AppendTransaction(ctx, t); err != nil {
				return fmt.Errorf("export transaction: %w", err)
			}
		}
	}

	if err := w.auditWallet(ctx, msg.WalletID); err != nil {
		return err
	}

	return nil
}

// auditWallet compares the cached balance against the recomputed transaction
// sum, repairing and logging drift.
func (w *SyncWorker) auditWallet(ctx context.Context, walletID string) error {
	_, drift, err := w.service.RecomputeBalance(ctx, walletID)
	if errors.Is(err, core.ErrWalletNotFound) {
		slog.WarnContext(ctx, "Audit skipped: wallet missing", "wallet_id", walletID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("audit wallet %s: %w", walletID, err)
	}
	if drift != 0 {
		slog.WarnContext(ctx, "Balance drift detected during audit",
			"wallet_id", walletID,
			"drift_cents", drift)
	}
	return nil
}

// AuditAllWallets sweeps every wallet. Run periodically to catch drift from
// events lost while the worker was down.
func (w *SyncWorker) AuditAllWallets(ctx context.Context) error {
	wallets, err := w.store.ListWallets(ctx)
	if err != nil {
		return fmt.Errorf("list wallets: %w", err)
	}
	for _, wallet := range wallets {
		if err := w.auditWallet(ctx, wallet.ID); err != nil {
			slog.ErrorContext(ctx, "Wallet audit failed", "error", err, "wallet_id", wallet.ID)
		}
	}
	slog.InfoContext(ctx, "Wallet audit sweep completed", "wallets", len(wallets))
	return nil
}
