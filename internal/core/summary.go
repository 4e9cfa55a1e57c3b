package core

import (
	"fmt"
	"time"
)

type (
	// Summary is the income/expense total pair for a transaction subset.
	// Missing groups are zero, never absent.
	Summary struct {
		Income  Money `json:"income"`
		Expense Money `json:"expense"`
	}

	MonthlySummary struct {
		Month   string `json:"month"` // "YYYY-MM", zero-padded
		Income  Money  `json:"income"`
		Expense Money  `json:"expense"`
	}

	CategorySummary struct {
		Category Category `json:"category"`
		Income   Money    `json:"income"`
		Expense  Money    `json:"expense"`
	}

	// TransactionFilter narrows transaction listings and summary sums.
	// Zero values mean "no restriction"; Year and Month act together.
	TransactionFilter struct {
		WalletID string
		Category Category
		Year     int
		Month    int
	}
)

func (f TransactionFilter) HasMonth() bool {
	return f.Year != 0 && f.Month != 0
}

// MonthRange is the half-open UTC interval [start of month, start of next).
func (f TransactionFilter) MonthRange() (start, end time.Time) {
	start = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (f TransactionFilter) Matches(t Transaction) bool {
	if f.WalletID != "" && t.WalletID != f.WalletID {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.HasMonth() {
		start, end := f.MonthRange()
		if t.Date.Before(start) || !t.Date.Before(end) {
			return false
		}
	}
	return true
}

// MonthKey formats a year/month pair the way monthly summaries report it.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
