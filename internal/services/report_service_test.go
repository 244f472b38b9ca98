package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"mykhata/internal/models"
	"mykhata/internal/store"
	"mykhata/internal/testutil"
)

func TestSummary(t *testing.T) {
	t.Run("income_expense_balance", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)
		sess := loggedIn(user)
		reports := NewReportService(f.svc)

		_, err := f.svc.AddTransaction(sess, TransactionInput{Date: date("2024-01-01"), Type: "Income", Amount: decimal.NewFromInt(5000)})
		testutil.AssertNoError(t, err)
		_, err = f.svc.AddTransaction(sess, TransactionInput{Date: date("2024-01-02"), Type: "Expense", Amount: decimal.NewFromInt(2000)})
		testutil.AssertNoError(t, err)

		s, err := reports.Summary(sess, "", TransactionFilter{})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "income", s.Income, "5000")
		testutil.AssertDecimal(t, "expense", s.Expense, "2000")
		testutil.AssertDecimal(t, "balance", s.Balance, "3000")
		testutil.AssertDecimal(t, "outflow", s.TotalOutflow, "2000")
		if s.Status != "surplus" || s.Count != 2 || s.Empty {
			t.Errorf("unexpected summary %+v", s)
		}
	})

	t.Run("loan_and_emi_reduce_balance", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)
		testutil.AppendAll(t, f.ledger,
			testutil.Tx(user.Username, "2024-01-01", models.TransactionTypeIncome, "3000"),
			testutil.Tx(user.Username, "2024-01-02", models.TransactionTypeExpense, "1000"),
			testutil.Tx(user.Username, "2024-01-03", models.TransactionTypeLoan, "500"),
			testutil.Tx(user.Username, "2024-01-04", models.TransactionTypeEMI, "2000"),
		)

		s, err := NewReportService(f.svc).Summary(loggedIn(user), "", TransactionFilter{})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "outflow", s.TotalOutflow, "3500")
		testutil.AssertDecimal(t, "balance", s.Balance, "-500")
		if s.Status != "deficit" {
			t.Errorf("expected deficit, got %s", s.Status)
		}
	})

	t.Run("unknown_types_ignored", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)
		testutil.AppendAll(t, f.ledger,
			testutil.Tx(user.Username, "2024-01-01", models.TransactionTypeIncome, "5000"),
			testutil.Tx(user.Username, "2024-01-02", "Gift", "1000"),
			testutil.Tx(user.Username, "2024-01-03", models.TransactionTypeExpense, "500"),
		)

		s, err := NewReportService(f.svc).Summary(loggedIn(user), "", TransactionFilter{})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "gift", s.Totals.Get("Gift"), "1000")
		testutil.AssertDecimal(t, "outflow", s.TotalOutflow, "500")
		testutil.AssertDecimal(t, "balance", s.Balance, "4500")
		if s.Count != 3 {
			t.Errorf("expected 3 rows, got %d", s.Count)
		}
	})

	t.Run("empty_dataset", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)

		s, err := NewReportService(f.svc).Summary(loggedIn(user), "", TransactionFilter{})
		testutil.AssertNoError(t, err)
		if !s.Empty || s.Count != 0 {
			t.Errorf("expected empty summary, got %+v", s)
		}
		for _, typ := range models.TransactionTypes {
			testutil.AssertDecimal(t, string(typ), s.Totals.Get(typ), "0")
		}
	})

	t.Run("gorm_backend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		creds := store.NewGormCredentials(db)
		ledger := NewLedgerService(store.NewGormLedger(db), creds)
		user := testutil.CreateTestUser(t, creds)
		sess := loggedIn(user)

		for _, amount := range []string{"100.25", "200.50"} {
			_, err := ledger.AddTransaction(sess, TransactionInput{Date: date("2024-03-01"), Type: "Expense", Amount: decimal.RequireFromString(amount)})
			testutil.AssertNoError(t, err)
		}

		s, err := NewReportService(ledger).Summary(sess, "", TransactionFilter{})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "expense", s.Expense, "300.75")
	})
}

func TestChart(t *testing.T) {
	t.Run("monthly_default", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)
		testutil.AppendAll(t, f.ledger,
			testutil.Tx(user.Username, "2024-01-01", models.TransactionTypeIncome, "3000"),
			testutil.Tx(user.Username, "2024-01-15", models.TransactionTypeIncome, "500"),
			testutil.Tx(user.Username, "2024-02-02", models.TransactionTypeExpense, "700"),
		)

		c, err := NewReportService(f.svc).Chart(loggedIn(user), "", "", TransactionFilter{})
		testutil.AssertNoError(t, err)
		if c.Granularity != "month" || len(c.Points) != 2 || c.Empty {
			t.Fatalf("unexpected chart %+v", c)
		}
		testutil.AssertDecimal(t, "jan income", c.Points[0].Amount, "3500")
		if len(c.Series.Labels) != 2 || c.Series.Labels[1] != "2024-02" {
			t.Errorf("unexpected labels %v", c.Series.Labels)
		}
	})

	t.Run("daily", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)
		testutil.AppendAll(t, f.ledger,
			testutil.Tx(user.Username, "2024-01-01", models.TransactionTypeIncome, "1"),
			testutil.Tx(user.Username, "2024-01-02", models.TransactionTypeIncome, "1"),
		)

		c, err := NewReportService(f.svc).Chart(loggedIn(user), "", "day", TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(c.Points) != 2 {
			t.Errorf("expected 2 daily points, got %d", len(c.Points))
		}
	})

	t.Run("invalid_granularity", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)

		_, err := NewReportService(f.svc).Chart(loggedIn(user), "", "week", TransactionFilter{})
		testutil.AssertAppError(t, err, "INVALID_GRANULARITY")
	})

	t.Run("empty_dataset", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := testutil.CreateTestUser(t, f.creds)

		c, err := NewReportService(f.svc).Chart(loggedIn(user), "", "year", TransactionFilter{})
		testutil.AssertNoError(t, err)
		if !c.Empty || c.Message != "No data" || len(c.Points) != 0 {
			t.Errorf("expected placeholder chart, got %+v", c)
		}
	})
}
