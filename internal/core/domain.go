package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	// TypeTransfer exists in the legacy data model but is never persisted;
	// transfers are stored as an income/expense pair.
	TypeTransfer Type = "transfer"
)

const (
	CategorySalary        Category = "salary"
	CategoryFoodDrink     Category = "food & drink"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryTransfer      Category = "transfer"
	CategoryTransferOut   Category = "transferout"
	CategoryTransferIn    Category = "transferin"
	CategoryOther         Category = "other"
)

type (
	Type     string
	Category string

	Money struct {
		Cents int64
	}

	Wallet struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Balance   Money     `json:"balance"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Transaction struct {
		ID       string    `json:"id"`
		WalletID string    `json:"walletId"`
		Amount   Money     `json:"amount"`
		Type     Type      `json:"type"`
		Category Category  `json:"category"`
		Note     string    `json:"note"`
		Date     time.Time `json:"date"`
	}
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrEmptyNote           = errors.New("empty note")
	ErrEmptyName           = errors.New("empty wallet name")
	ErrMissingWallet       = errors.New("missing wallet id")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSameWallet          = errors.New("cannot transfer to the same wallet")
)

// MarshalJSON renders Money as a bare integer amount of cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	cents, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Valid reports whether the type may be persisted. TypeTransfer is declared
// for compatibility but real transfers are stored as income/expense entries.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

func (c Category) Valid() bool {
	switch c {
	case CategorySalary, CategoryFoodDrink, CategoryTransport,
		CategoryEntertainment, CategoryTransfer, CategoryTransferOut,
		CategoryTransferIn, CategoryOther:
		return true
	}
	return false
}

func (w Wallet) Validate() error {
	if len(strings.TrimSpace(w.Name)) == 0 {
		return ErrEmptyName
	}
	if w.Balance.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.WalletID) == "" {
		return ErrMissingWallet
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(t.Note)) == 0 {
		return ErrEmptyNote
	}
	return nil
}

// Effect is the signed contribution of the transaction to its wallet's
// balance: +amount for income, -amount for expense.
func (t Transaction) Effect() int64 {
	switch t.Type {
	case TypeIncome:
		return t.Amount.Cents
	case TypeExpense:
		return -t.Amount.Cents
	}
	return 0
}
