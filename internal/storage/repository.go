package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Lopniv/financeapp-backend/internal/core"
	"github.com/Lopniv/financeapp-backend/internal/ledger"
)

// SQLiteRepository implements ledger.Store on a local SQLite file. The pool
// is capped at a single connection: SQLite allows one writer anyway, and the
// cap serialises the read-modify-write sequences on wallet balances.
type SQLiteRepository struct {
	db *sql.DB
	q  queryer
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, q: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO wallets (id, name, balance_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Balance.Cents, w.CreatedAt.Unix(), w.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetWallet(ctx context.Context, id string) (core.Wallet, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, name, balance_cents, created_at, updated_at
		 FROM wallets WHERE id = ?`, id)
	return scanWallet(row)
}

func (r *SQLiteRepository) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, balance_cents, created_at, updated_at
		 FROM wallets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

func (r *SQLiteRepository) SaveWalletBalance(ctx context.Context, id string, balance core.Money) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = ?, updated_at = ? WHERE id = ?`,
		balance.Cents, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("wallet balance rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrWalletNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO transactions (id, wallet_id, amount_cents, type, category, note, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.WalletID, t.Amount.Cents, string(t.Type), string(t.Category), t.Note, t.Date.Unix())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, wallet_id, amount_cents, type, category, note, date
		 FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, wallet_id, amount_cents, type, category, note, date
		 FROM transactions`
	where, args := filterClauses(f)
	query += where + ` ORDER BY date DESC, id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE transactions
		 SET amount_cents = ?, type = ?, category = ?, note = ?, date = ?
		 WHERE id = ?`,
		t.Amount.Cents, string(t.Type), string(t.Category), t.Note, t.Date.Unix(), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (r *SQLiteRepository) SumByType(ctx context.Context, f core.TransactionFilter) (income, expense int64, err error) {
	query := `SELECT
		 COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE 0 END), 0),
		 COALESCE(SUM(CASE WHEN type = 'expense' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions`
	where, args := filterClauses(f)
	query += where

	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&income, &expense); err != nil {
		return 0, 0, fmt.Errorf("sum transactions: %w", err)
	}
	return income, expense, nil
}

// InTransaction binds a repository view to a database transaction. Nested
// calls reuse the enclosing transaction.
func (r *SQLiteRepository) InTransaction(ctx context.Context, fn func(ledger.Store) error) error {
	if _, nested := r.q.(*sql.Tx); nested {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	view := &SQLiteRepository{db: r.db, q: tx}
	if err := fn(view); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func filterClauses(f core.TransactionFilter) (string, []any) {
	where := ""
	var args []any
	and := func(clause string, clauseArgs ...any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, clauseArgs...)
	}

	if f.WalletID != "" {
		and("wallet_id = ?", f.WalletID)
	}
	if f.Category != "" {
		and("category = ?", string(f.Category))
	}
	if f.HasMonth() {
		start, end := f.MonthRange()
		and("date >= ? AND date < ?", start.Unix(), end.Unix())
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (core.Wallet, error) {
	var (
		w                  core.Wallet
		createdAt, updated int64
	)
	err := row.Scan(&w.ID, &w.Name, &w.Balance.Cents, &createdAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wallet{}, core.ErrWalletNotFound
	}
	if err != nil {
		return core.Wallet{}, fmt.Errorf("scan wallet: %w", err)
	}
	w.CreatedAt = time.Unix(createdAt, 0).UTC()
	w.UpdatedAt = time.Unix(updated, 0).UTC()
	return w, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t    core.Transaction
		date int64
	)
	err := row.Scan(&t.ID, &t.WalletID, &t.Amount.Cents, &t.Type, &t.Category, &t.Note, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Date = time.Unix(date, 0).UTC()
	return t, nil
}
