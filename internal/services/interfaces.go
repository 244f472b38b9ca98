package services

import (
	"time"

	"github.com/shopspring/decimal"

	"mykhata/internal/aggregate"
	"mykhata/internal/models"
	"mykhata/internal/pagination"
	"mykhata/internal/session"
)

// SignupInput carries the signup form fields.
type SignupInput struct {
	Username       string
	Password       string
	Name           string
	Mobile         string
	Email          string
	ParentUsername string
}

// UserServicer defines the contract for signup and login.
type UserServicer interface {
	CreateUser(input SignupInput) (*models.User, error)
	FindUser(username, password string) (*models.User, error)
	GetUser(username string) (*models.User, error)
}

// TransactionInput carries the add-transaction form fields. A zero Date
// means today.
type TransactionInput struct {
	Date     time.Time
	Type     string
	Category string
	Amount   decimal.Decimal
	Note     string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category string
}

// LedgerServicer defines the contract for recording and reading transactions.
// owner may be empty for the session user, or name a sub-user of the session user.
type LedgerServicer interface {
	AddTransaction(sess session.Context, input TransactionInput) (*models.Transaction, error)
	ListTransactions(sess session.Context, owner string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	LoadTransactions(sess session.Context, owner string, filter TransactionFilter) ([]models.Transaction, error)
}

// Summary backs the dashboard cards.
type Summary struct {
	Owner        string           `json:"owner"`
	Income       decimal.Decimal  `json:"income"`
	Expense      decimal.Decimal  `json:"expense"`
	Loan         decimal.Decimal  `json:"loan"`
	EMI          decimal.Decimal  `json:"emi"`
	TotalOutflow decimal.Decimal  `json:"total_outflow"`
	Balance      decimal.Decimal  `json:"balance"`
	Status       string           `json:"status"`
	Totals       aggregate.Totals `json:"totals"`
	Count        int              `json:"count"`
	Empty        bool             `json:"empty"`
}

// Chart is a time-bucketed view of totals per type.
type Chart struct {
	Owner       string                  `json:"owner"`
	Granularity aggregate.Granularity   `json:"granularity"`
	Points      []aggregate.PeriodTotal `json:"points"`
	Series      aggregate.Series        `json:"series"`
	Empty       bool                    `json:"empty"`
	Message     string                  `json:"message,omitempty"`
}

// ReportServicer defines the contract for summaries and charts.
type ReportServicer interface {
	Summary(sess session.Context, owner string, filter TransactionFilter) (*Summary, error)
	Chart(sess session.Context, owner string, granularity string, filter TransactionFilter) (*Chart, error)
}
