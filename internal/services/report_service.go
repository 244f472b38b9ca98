package services

import (
	"github.com/shopspring/decimal"

	"mykhata/internal/aggregate"
	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
	"mykhata/internal/session"
)

// reportService derives summaries and charts from the ledger.
type reportService struct {
	ledger LedgerServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(ledger LedgerServicer) ReportServicer {
	return &reportService{ledger: ledger}
}

// Summary totals the filtered rows per type and computes the balance.
func (s *reportService) Summary(sess session.Context, owner string, filter TransactionFilter) (*Summary, error) {
	rows, err := s.ledger.LoadTransactions(sess, owner, filter)
	if err != nil {
		return nil, err
	}

	totals := aggregate.SumByType(rows)
	balance := aggregate.NetBalance(totals)
	income := totals.Get(models.TransactionTypeIncome)
	outflow := decimal.Zero
	for typ, amount := range totals {
		if typ.IsOutflow() {
			outflow = outflow.Add(amount)
		}
	}

	status := "deficit"
	if balance.IsPositive() {
		status = "surplus"
	}

	return &Summary{
		Owner:        ownerOrSelf(sess, owner),
		Income:       income,
		Expense:      totals.Get(models.TransactionTypeExpense),
		Loan:         totals.Get(models.TransactionTypeLoan),
		EMI:          totals.Get(models.TransactionTypeEMI),
		TotalOutflow: outflow,
		Balance:      balance,
		Status:       status,
		Totals:       totals,
		Count:        len(rows),
		Empty:        len(rows) == 0,
	}, nil
}

// Chart groups the filtered rows into period buckets.
func (s *reportService) Chart(sess session.Context, owner string, granularity string, filter TransactionFilter) (*Chart, error) {
	g := aggregate.Month
	if granularity != "" {
		parsed, ok := aggregate.ParseGranularity(granularity)
		if !ok {
			return nil, apperrors.ErrInvalidGranularity
		}
		g = parsed
	}

	rows, err := s.ledger.LoadTransactions(sess, owner, filter)
	if err != nil {
		return nil, err
	}

	points := aggregate.GroupByPeriod(rows, g)
	chart := &Chart{
		Owner:       ownerOrSelf(sess, owner),
		Granularity: g,
		Points:      points,
		Series:      aggregate.Pivot(points),
		Empty:       len(points) == 0,
	}
	if chart.Empty {
		chart.Message = "No data"
	}
	return chart, nil
}

func ownerOrSelf(sess session.Context, owner string) string {
	if owner == "" {
		return sess.Username
	}
	return owner
}
