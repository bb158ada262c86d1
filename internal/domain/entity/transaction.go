package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType determines how an amount contributes to totals.
// Amounts are always non-negative; only the type carries the sign.
type TransactionType string

const (
	TypeIncome  TransactionType = "Income"
	TypeExpense TransactionType = "Expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Recurrence frequencies accepted on the recurring descriptor. The
// descriptor is stored and returned as-is; nothing materializes it.
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

func ValidFrequency(f string) bool {
	return f == FrequencyWeekly || f == FrequencyMonthly || f == FrequencyYearly
}

// Recurring is inert scheduling metadata attached to a transaction.
type Recurring struct {
	Enabled   bool
	Frequency string
}

// Transaction is a single income or expense record owned by exactly one user.
type Transaction struct {
	ID        string
	UserID    string
	Title     string
	Amount    decimal.Decimal
	Type      TransactionType
	Category  string
	Date      time.Time
	Notes     string
	Recurring Recurring
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryTotal is one row of the expense-by-category breakdown view.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}
