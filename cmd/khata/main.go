// Command khata is the terminal front end of the ledger. It works on the
// same storage as the API server, selected by the same environment.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"mykhata/internal/aggregate"
	"mykhata/internal/config"
	apperrors "mykhata/internal/errors"
	"mykhata/internal/logger"
	"mykhata/internal/models"
	"mykhata/internal/services"
	"mykhata/internal/session"
	"mykhata/internal/store"
)

const usage = `usage: khata <command> [flags]

commands:
  signup   -user NAME -password PASS [-name N] [-mobile M] [-email E] [-parent P]
  add      -user NAME -password PASS -type TYPE -amount N [-date YYYY-MM-DD] [-category C] [-note T]
  list     -user NAME -password PASS [-owner SUB] [-from D] [-to D] [-type T] [-category C]
  summary  -user NAME -password PASS [-owner SUB] [-from D] [-to D]
  chart    -user NAME -password PASS [-owner SUB] [-by day|month|year] [-width N]
`

const barWidth = 40

// app holds the services a command runs against.
type app struct {
	users   services.UserServicer
	ledger  services.LedgerServicer
	reports services.ReportServicer
	out     io.Writer
}

func main() {
	logger.Init("quiet")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	stores, err := store.Open(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer stores.Close()

	if err := newApp(stores, os.Stdout).run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stores.Close()
		os.Exit(1)
	}
}

func newApp(stores *store.Stores, out io.Writer) *app {
	ledger := services.NewLedgerService(stores.Ledger, stores.Credentials)
	return &app{
		users:   services.NewUserService(stores.Credentials),
		ledger:  ledger,
		reports: services.NewReportService(ledger),
		out:     out,
	}
}

func (a *app) run(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	switch args[0] {
	case "signup":
		return a.signup(args[1:])
	case "add":
		return a.add(args[1:])
	case "list":
		return a.list(args[1:])
	case "summary":
		return a.summary(args[1:])
	case "chart":
		return a.chart(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// credentials are the login flags shared by every command.
type credentials struct {
	user, password string
}

func newFlagSet(name string, c *credentials) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.user, "user", "", "username")
	fs.StringVar(&c.password, "password", "", "password")
	return fs
}

// login builds the session every non-signup command acts under.
func (a *app) login(c credentials) (session.Context, error) {
	if c.user == "" || c.password == "" {
		return session.Anonymous(), errors.New("-user and -password are required")
	}
	user, err := a.users.FindUser(c.user, c.password)
	if err != nil {
		return session.Anonymous(), err
	}
	return session.Context{
		Username:       user.Username,
		Role:           user.Role,
		ParentUsername: user.ParentUsername,
		State:          session.LoggedIn,
	}, nil
}

// filterFlags registers the report filters on fs.
type filterFlags struct {
	owner, from, to, typ, category string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.owner, "owner", "", "sub-user whose ledger to read")
	fs.StringVar(&f.from, "from", "", "first date (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "last date (YYYY-MM-DD)")
	fs.StringVar(&f.typ, "type", "", "transaction type")
	fs.StringVar(&f.category, "category", "", "category")
}

func (f *filterFlags) build() (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	if f.from != "" {
		d, err := time.Parse(models.DateLayout, f.from)
		if err != nil {
			return filter, fmt.Errorf("invalid -from: %w", err)
		}
		filter.FromDate = &d
	}
	if f.to != "" {
		d, err := time.Parse(models.DateLayout, f.to)
		if err != nil {
			return filter, fmt.Errorf("invalid -to: %w", err)
		}
		filter.ToDate = &d
	}
	if f.typ != "" {
		t, ok := models.ParseTransactionType(f.typ)
		if !ok {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Type = &t
	}
	filter.Category = f.category
	return filter, nil
}

func (a *app) signup(args []string) error {
	var c credentials
	var name, mobile, email, parent string
	fs := newFlagSet("signup", &c)
	fs.StringVar(&name, "name", "", "full name")
	fs.StringVar(&mobile, "mobile", "", "mobile number")
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&parent, "parent", "", "owner account this user belongs to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.users.CreateUser(services.SignupInput{
		Username:       c.user,
		Password:       c.password,
		Name:           name,
		Mobile:         mobile,
		Email:          email,
		ParentUsername: parent,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created for %s\n", user.Username)
	return nil
}

func (a *app) add(args []string) error {
	var c credentials
	var typ, amount, date, category, note string
	fs := newFlagSet("add", &c)
	fs.StringVar(&typ, "type", "", "Income, Expense, Loan or EMI")
	fs.StringVar(&amount, "amount", "", "amount")
	fs.StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	fs.StringVar(&category, "category", "", "category")
	fs.StringVar(&note, "note", "", "note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.login(c)
	if err != nil {
		return err
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", ""))
	if err != nil {
		return apperrors.ErrInvalidAmount
	}
	input := services.TransactionInput{Type: typ, Category: category, Amount: value, Note: note}
	if date != "" {
		input.Date, err = time.Parse(models.DateLayout, date)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
	}

	tx, err := a.ledger.AddTransaction(sess, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recorded %s %s on %s\n", tx.Type, tx.Amount.StringFixed(2), tx.Date.Format(models.DateLayout))
	return nil
}

func (a *app) list(args []string) error {
	var (
		c credentials
		f filterFlags
	)
	fs := newFlagSet("list", &c)
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.login(c)
	if err != nil {
		return err
	}
	filter, err := f.build()
	if err != nil {
		return err
	}

	rows, err := a.ledger.LoadTransactions(sess, f.owner, filter)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No data")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Date\tType\tCategory\tAmount\tNote\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", r.Date.Format(models.DateLayout), r.Type, r.Category, r.Amount.StringFixed(2), r.Note)
	}
	return w.Flush()
}

func (a *app) summary(args []string) error {
	var (
		c credentials
		f filterFlags
	)
	fs := newFlagSet("summary", &c)
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.login(c)
	if err != nil {
		return err
	}
	filter, err := f.build()
	if err != nil {
		return err
	}

	s, err := a.reports.Summary(sess, f.owner, filter)
	if err != nil {
		return err
	}
	if s.Empty {
		fmt.Fprintln(a.out, "No data")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, typ := range models.TransactionTypes {
		fmt.Fprintf(w, "%s\t%s\n", typ, s.Totals.Get(typ).StringFixed(2))
	}
	fmt.Fprintf(w, "Total outflow\t%s\n", s.TotalOutflow.StringFixed(2))
	fmt.Fprintf(w, "Balance\t%s\n", s.Balance.StringFixed(2))
	if err := w.Flush(); err != nil {
		return err
	}

	if s.Status == "surplus" {
		fmt.Fprintln(a.out, "You are saving money.")
	} else {
		fmt.Fprintln(a.out, "Your spending exceeds your income.")
	}
	return nil
}

func (a *app) chart(args []string) error {
	var (
		c     credentials
		f     filterFlags
		by    string
		width int
	)
	fs := newFlagSet("chart", &c)
	f.register(fs)
	fs.StringVar(&by, "by", string(aggregate.Month), "day, month or year")
	fs.IntVar(&width, "width", barWidth, "longest bar in characters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.login(c)
	if err != nil {
		return err
	}
	filter, err := f.build()
	if err != nil {
		return err
	}

	chart, err := a.reports.Chart(sess, f.owner, by, filter)
	if err != nil {
		return err
	}
	if chart.Empty {
		fmt.Fprintln(a.out, chart.Message)
		return nil
	}
	renderBars(a.out, chart.Points, width)
	return nil
}

// renderBars draws one bar per period and type, scaled to the largest amount.
func renderBars(out io.Writer, points []aggregate.PeriodTotal, width int) {
	if width < 1 {
		width = barWidth
	}
	maxAmount := decimal.Zero
	for _, p := range points {
		if p.Amount.GreaterThan(maxAmount) {
			maxAmount = p.Amount
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	for _, p := range points {
		n := 0
		if maxAmount.IsPositive() {
			n = int(p.Amount.Mul(decimal.NewFromInt(int64(width))).Div(maxAmount).Round(0).IntPart())
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s\n", p.Period, p.Type, strings.Repeat("#", n), p.Amount.StringFixed(2))
	}
	_ = w.Flush()
}

