package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"mykhata/internal/models"
)

var ledgerHeader = []string{"Username", "Date", "Type", "Category", "Amount", "Note"}

// dateLayouts are accepted when reading; rows are always written with
// models.DateLayout.
var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
	"2006/01/02",
}

// CSVLedger keeps the ledger in a single CSV file, rewritten on every append.
type CSVLedger struct {
	mu   sync.Mutex
	path string
}

// NewCSVLedger returns a ledger backed by path. The file is created on
// first use.
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// Path is the backing file.
func (l *CSVLedger) Path() string { return l.path }

// Load reads the whole file and filters by owner.
func (l *CSVLedger) Load(owner string) ([]models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readAll()
	if err != nil {
		return nil, err
	}
	return filterOwner(rows, owner), nil
}

// Append reads the whole file, adds tx and rewrites it.
func (l *CSVLedger) Append(tx models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readAll()
	if err != nil {
		return err
	}
	rows = append(rows, tx)

	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = encodeTransaction(r)
	}
	return writeTable(l.path, ledgerHeader, records)
}

func (l *CSVLedger) readAll() ([]models.Transaction, error) {
	t, err := readTable(l.path, ledgerHeader)
	if err != nil {
		return nil, err
	}

	cols := ledgerColumns{
		owner:    t.column("Username"),
		date:     t.column("Date"),
		typ:      t.column("Type"),
		category: t.column("Category"),
		amount:   t.column("Amount"),
		note:     t.column("Note"),
	}
	if cols.date < 0 || cols.typ < 0 || cols.amount < 0 {
		return nil, fmt.Errorf("%s: header must contain Date, Type and Amount, got %v", l.path, t.header)
	}

	out := make([]models.Transaction, 0, len(t.rows))
	for i, row := range t.rows {
		tx, err := cols.decode(row)
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("%s line %d: %w", l.path, i+2, err)
		}
		out = append(out, tx)
	}
	return out, nil
}

type ledgerColumns struct {
	owner, date, typ, category, amount, note int
}

func (c ledgerColumns) decode(row []string) (models.Transaction, error) {
	date, err := parseDate(cell(row, c.date))
	if err != nil {
		return models.Transaction{}, err
	}

	rawType := cell(row, c.typ)
	typ, ok := models.ParseTransactionType(rawType)
	if !ok {
		if rawType == "" {
			return models.Transaction{}, fmt.Errorf("missing type")
		}
		typ = models.TransactionType(rawType)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(cell(row, c.amount), ",", ""))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q", cell(row, c.amount))
	}
	if amount.IsNegative() {
		return models.Transaction{}, fmt.Errorf("negative amount %s", amount)
	}

	return models.Transaction{
		Owner:    cell(row, c.owner),
		Date:     date,
		Type:     typ,
		Category: cell(row, c.category),
		Amount:   amount,
		Note:     cell(row, c.note),
	}, nil
}

func encodeTransaction(tx models.Transaction) []string {
	return []string{
		tx.Owner,
		tx.Date.Format(models.DateLayout),
		string(tx.Type),
		tx.Category,
		tx.Amount.String(),
		tx.Note,
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.TruncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
