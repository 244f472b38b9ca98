// Package aggregate computes the totals behind summary cards and charts.
// All functions are pure: they take loaded transactions and never touch storage.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mykhata/internal/models"
)

// Granularity is the size of a chart bucket.
type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity accepts day, month or year in any case.
func ParseGranularity(s string) (Granularity, bool) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Day, Month, Year:
		return g, true
	}
	return "", false
}

// Start returns the first day of the bucket containing t.
func (g Granularity) Start(t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Label formats a bucket start for display.
func (g Granularity) Label(start time.Time) string {
	switch g {
	case Year:
		return start.Format("2006")
	case Month:
		return start.Format("2006-01")
	default:
		return start.Format(models.DateLayout)
	}
}

// Totals maps a transaction type to its summed amount.
type Totals map[models.TransactionType]decimal.Decimal

// Get returns the total for t, zero when absent.
func (t Totals) Get(typ models.TransactionType) decimal.Decimal {
	if v, ok := t[typ]; ok {
		return v
	}
	return decimal.Zero
}

// Sum adds every total together.
func (t Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}

// SumByType totals amounts per type. Every known type is present in the
// result, zero when no rows carry it; unknown types found in the data are
// kept as their own keys.
func SumByType(txs []models.Transaction) Totals {
	totals := make(Totals, len(models.TransactionTypes))
	for _, typ := range models.TransactionTypes {
		totals[typ] = decimal.Zero
	}
	for _, tx := range txs {
		totals[tx.Type] = totals.Get(tx.Type).Add(tx.Amount)
	}
	return totals
}

// NetBalance is Income minus Expense, Loan and EMI. Unrecognised types
// are ignored.
func NetBalance(totals Totals) decimal.Decimal {
	balance := totals.Get(models.TransactionTypeIncome)
	for typ, amount := range totals {
		if typ.IsOutflow() {
			balance = balance.Sub(amount)
		}
	}
	return balance
}

// PeriodTotal is the amount of one type within one bucket.
type PeriodTotal struct {
	Period string                 `json:"period"`
	Start  time.Time              `json:"start"`
	Type   models.TransactionType `json:"type"`
	Amount decimal.Decimal        `json:"amount"`
}

type periodKey struct {
	start time.Time
	typ   models.TransactionType
}

// GroupByPeriod buckets transactions by g and sums each (period, type)
// pair. Output is ordered by period, then by type in display order with
// unknown types last, alphabetically. Only pairs with rows are emitted.
func GroupByPeriod(txs []models.Transaction, g Granularity) []PeriodTotal {
	sums := make(map[periodKey]decimal.Decimal)
	for _, tx := range txs {
		k := periodKey{start: g.Start(tx.Date), typ: tx.Type}
		if v, ok := sums[k]; ok {
			sums[k] = v.Add(tx.Amount)
		} else {
			sums[k] = tx.Amount
		}
	}

	out := make([]PeriodTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, PeriodTotal{Period: g.Label(k.start), Start: k.start, Type: k.typ, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		ri, rj := typeRank(out[i].Type), typeRank(out[j].Type)
		if ri != rj {
			return ri < rj
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func typeRank(t models.TransactionType) int {
	for i, known := range models.TransactionTypes {
		if t == known {
			return i
		}
	}
	return len(models.TransactionTypes)
}

// Series is a chart-ready pivot of GroupByPeriod output: one label per
// period and one aligned value slice per type.
type Series struct {
	Labels []string                                     `json:"labels"`
	Values map[models.TransactionType][]decimal.Decimal `json:"values"`
}

// Pivot turns ordered period totals into aligned per-type series. Every
// known type gets a series; missing points are zero.
func Pivot(points []PeriodTotal) Series {
	s := Series{Labels: []string{}, Values: make(map[models.TransactionType][]decimal.Decimal)}
	index := make(map[string]int)
	for _, p := range points {
		if _, ok := index[p.Period]; !ok {
			index[p.Period] = len(s.Labels)
			s.Labels = append(s.Labels, p.Period)
		}
	}
	zeros := func() []decimal.Decimal {
		vs := make([]decimal.Decimal, len(s.Labels))
		for i := range vs {
			vs[i] = decimal.Zero
		}
		return vs
	}
	for _, typ := range models.TransactionTypes {
		s.Values[typ] = zeros()
	}
	for _, p := range points {
		if _, ok := s.Values[p.Type]; !ok {
			s.Values[p.Type] = zeros()
		}
		s.Values[p.Type][index[p.Period]] = p.Amount
	}
	return s
}
