package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 12345})
	require.NoError(t, err)
	assert.Equal(t, "12345", string(b))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("500"), &m))
	assert.Equal(t, int64(500), m.Cents)

	err = json.Unmarshal([]byte(`"12.50"`), &m)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoneyValidate(t *testing.T) {
	assert.NoError(t, Money{Cents: 1}.Validate())
	assert.ErrorIs(t, Money{Cents: 0}.Validate(), ErrInvalidAmount)
	assert.ErrorIs(t, Money{Cents: -100}.Validate(), ErrInvalidAmount)
}

func TestTypeValid(t *testing.T) {
	assert.True(t, TypeIncome.Valid())
	assert.True(t, TypeExpense.Valid())
	// Transfers never persist as their own type.
	assert.False(t, TypeTransfer.Valid())
	assert.False(t, Type("refund").Valid())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{
		CategorySalary, CategoryFoodDrink, CategoryTransport,
		CategoryEntertainment, CategoryTransfer, CategoryTransferOut,
		CategoryTransferIn, CategoryOther,
	} {
		assert.True(t, c.Valid(), "category %q", c)
	}
	assert.False(t, Category("groceries").Valid())
	assert.False(t, Category("").Valid())
}

func TestWalletValidate(t *testing.T) {
	assert.NoError(t, Wallet{Name: "Cash"}.Validate())
	assert.ErrorIs(t, Wallet{Name: "  "}.Validate(), ErrEmptyName)
	assert.ErrorIs(t, Wallet{Name: "Cash", Balance: Money{Cents: -1}}.Validate(), ErrInvalidAmount)
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		WalletID: "w1",
		Amount:   Money{Cents: 100},
		Type:     TypeExpense,
		Category: CategoryFoodDrink,
		Note:     "lunch",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"missing wallet", func(tx *Transaction) { tx.WalletID = "" }, ErrMissingWallet},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -5} }, ErrInvalidAmount},
		{"transfer type", func(tx *Transaction) { tx.Type = TypeTransfer }, ErrInvalidType},
		{"unknown category", func(tx *Transaction) { tx.Category = "misc" }, ErrInvalidCategory},
		{"blank note", func(tx *Transaction) { tx.Note = "   " }, ErrEmptyNote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			assert.ErrorIs(t, tx.Validate(), tt.want)
		})
	}
}

func TestTransactionEffect(t *testing.T) {
	assert.Equal(t, int64(250), Transaction{Type: TypeIncome, Amount: Money{Cents: 250}}.Effect())
	assert.Equal(t, int64(-250), Transaction{Type: TypeExpense, Amount: Money{Cents: 250}}.Effect())
	assert.Equal(t, int64(0), Transaction{Type: TypeTransfer, Amount: Money{Cents: 250}}.Effect())
}
