package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
	TransactionTypeLoan    TransactionType = "Loan"
	TransactionTypeEMI     TransactionType = "EMI"
)

// TransactionTypes lists the known types in display order.
var TransactionTypes = []TransactionType{
	TransactionTypeIncome,
	TransactionTypeExpense,
	TransactionTypeLoan,
	TransactionTypeEMI,
}

// ParseTransactionType resolves s case-insensitively to a known type.
func ParseTransactionType(s string) (TransactionType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range TransactionTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// IsOutflow reports whether the type reduces the balance. Unknown types
// are neither inflow nor outflow.
func (t TransactionType) IsOutflow() bool {
	switch t {
	case TransactionTypeExpense, TransactionTypeLoan, TransactionTypeEMI:
		return true
	default:
		return false
	}
}

// AmountPlaces is the number of decimal places an amount may carry.
const AmountPlaces = 2

// MaxAmount is the exclusive upper bound of an amount, the range of a
// numeric(14,2) column.
var MaxAmount = decimal.New(1, 12)

// ValidAmount reports whether amount is non-negative, below MaxAmount and
// has at most AmountPlaces decimals, so every backend stores it exactly.
func ValidAmount(amount decimal.Decimal) bool {
	return !amount.IsNegative() &&
		amount.LessThan(MaxAmount) &&
		amount.Equal(amount.Round(AmountPlaces))
}

// DateLayout is the on-disk and wire format of a transaction date.
const DateLayout = "2006-01-02"

// Transaction is one ledger row. Rows carry no identity: Seq exists only
// so relational backends can return rows in append order.
type Transaction struct {
	Seq      uint64          `gorm:"primaryKey;autoIncrement" json:"-"`
	Owner    string          `gorm:"column:username;index" json:"owner,omitempty"`
	Date     time.Time       `gorm:"type:date;not null;index" json:"date"`
	Type     TransactionType `gorm:"not null" json:"type"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Note     string          `json:"note,omitempty"`
}

// TruncateDate strips the clock from t, keeping the calendar date as written.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
