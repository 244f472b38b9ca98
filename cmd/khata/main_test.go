package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mykhata/internal/aggregate"
	"mykhata/internal/config"
	"mykhata/internal/logger"
	"mykhata/internal/store"
	"mykhata/internal/testutil"
)

func init() {
	logger.Init("test")
}

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	dir := testutil.TempDataDir(t)
	stores, err := store.Open(&config.Config{
		StorageDriver: config.DriverCSV,
		DataDir:       dir,
		LedgerFile:    "ledger.csv",
		UsersFile:     "users.csv",
	})
	if err != nil {
		t.Fatalf("failed to open stores: %v", err)
	}
	out := &bytes.Buffer{}
	return newApp(stores, out), out
}

func mustRun(t *testing.T, a *app, args ...string) {
	t.Helper()
	if err := a.run(args); err != nil {
		t.Fatalf("khata %s: %v", strings.Join(args, " "), err)
	}
}

func TestCommands(t *testing.T) {
	a, out := newTestApp(t)
	creds := []string{"-user", "Asha", "-password", "Secret!1"}

	mustRun(t, a, "signup", "-user", "Asha", "-password", "Secret!1", "-name", "Asha")
	if !strings.Contains(out.String(), "Account created for Asha") {
		t.Errorf("unexpected signup output %q", out.String())
	}

	mustRun(t, a, append([]string{"add", "-type", "income", "-amount", "5,000", "-date", "2024-01-01", "-category", "Salary"}, creds...)...)
	mustRun(t, a, append([]string{"add", "-type", "Expense", "-amount", "2000", "-date", "2024-02-01", "-category", "Rent"}, creds...)...)

	t.Run("list", func(t *testing.T) {
		out.Reset()
		mustRun(t, a, append([]string{"list"}, creds...)...)
		if !strings.Contains(out.String(), "Salary") || !strings.Contains(out.String(), "Rent") {
			t.Errorf("unexpected list output %q", out.String())
		}
	})

	t.Run("summary", func(t *testing.T) {
		out.Reset()
		mustRun(t, a, append([]string{"summary"}, creds...)...)
		if !strings.Contains(out.String(), "3000.00") || !strings.Contains(out.String(), "saving") {
			t.Errorf("unexpected summary output %q", out.String())
		}
	})

	t.Run("summary with filter", func(t *testing.T) {
		out.Reset()
		mustRun(t, a, append([]string{"summary", "-from", "2024-02-01"}, creds...)...)
		if !strings.Contains(out.String(), "-2000.00") || !strings.Contains(out.String(), "exceeds") {
			t.Errorf("unexpected filtered summary %q", out.String())
		}
	})

	t.Run("chart", func(t *testing.T) {
		out.Reset()
		mustRun(t, a, append([]string{"chart", "-by", "month", "-width", "10"}, creds...)...)
		if !strings.Contains(out.String(), "2024-01") || !strings.Contains(out.String(), "##########") {
			t.Errorf("unexpected chart output %q", out.String())
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		err := a.run([]string{"summary", "-user", "Asha", "-password", "Nope!1"})
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("duplicate signup", func(t *testing.T) {
		err := a.run([]string{"signup", "-user", "Asha", "-password", "Other#2"})
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	t.Run("bad amount", func(t *testing.T) {
		err := a.run(append([]string{"add", "-type", "Expense", "-amount", "lots"}, creds...))
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})
}

func TestEmptyLedger(t *testing.T) {
	a, out := newTestApp(t)
	mustRun(t, a, "signup", "-user", "Asha", "-password", "Secret!1")

	for _, cmd := range []string{"list", "summary", "chart"} {
		out.Reset()
		mustRun(t, a, cmd, "-user", "Asha", "-password", "Secret!1")
		if strings.TrimSpace(out.String()) != "No data" {
			t.Errorf("%s: expected No data, got %q", cmd, out.String())
		}
	}
}

func TestRunUsage(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.run(nil); err == nil {
		t.Error("expected usage error without a command")
	}
	if err := a.run([]string{"export"}); err == nil {
		t.Error("expected error for unknown command")
	}
	if err := a.run([]string{"list"}); err == nil {
		t.Error("expected error without credentials")
	}
}

func TestRenderBars(t *testing.T) {
	points := []aggregate.PeriodTotal{
		{Period: "2024", Type: "Income", Amount: decimal.NewFromInt(100)},
		{Period: "2024", Type: "Expense", Amount: decimal.NewFromInt(50)},
		{Period: "2024", Type: "Loan", Amount: decimal.Zero},
	}
	var out bytes.Buffer
	renderBars(&out, points, 4)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out.String())
	}
	if strings.Count(lines[0], "#") != 4 || strings.Count(lines[1], "#") != 2 || strings.Count(lines[2], "#") != 0 {
		t.Errorf("unexpected bars %q", out.String())
	}
}

