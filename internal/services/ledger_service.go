package services

import (
	"errors"
	"strings"
	"time"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
	"mykhata/internal/pagination"
	"mykhata/internal/session"
	"mykhata/internal/store"
)

// ledgerService records and reads transactions.
type ledgerService struct {
	ledger store.LedgerStore
	creds  store.CredentialStore
	now    func() time.Time
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(ledger store.LedgerStore, creds store.CredentialStore) LedgerServicer {
	return &ledgerService{ledger: ledger, creds: creds, now: time.Now}
}

// AddTransaction appends a transaction owned by the session user.
func (s *ledgerService) AddTransaction(sess session.Context, input TransactionInput) (*models.Transaction, error) {
	if !sess.LoggedIn() {
		return nil, apperrors.ErrUnauthorized
	}

	typ, ok := models.ParseTransactionType(input.Type)
	if !ok {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !models.ValidAmount(input.Amount) {
		return nil, apperrors.ErrInvalidAmount
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	tx := models.Transaction{
		Owner:    sess.Username,
		Date:     models.TruncateDate(date),
		Type:     typ,
		Category: strings.TrimSpace(input.Category),
		Amount:   input.Amount,
		Note:     strings.TrimSpace(input.Note),
	}
	if err := s.ledger.Append(tx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}

// ListTransactions returns one page of filtered rows in append order.
func (s *ledgerService) ListTransactions(sess session.Context, owner string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	rows, err := s.LoadTransactions(sess, owner, filter)
	if err != nil {
		return nil, err
	}
	result := pagination.Slice(rows, page)
	return &result, nil
}

// LoadTransactions returns every filtered row of the resolved owner.
func (s *ledgerService) LoadTransactions(sess session.Context, owner string, filter TransactionFilter) ([]models.Transaction, error) {
	target, err := s.resolveOwner(sess, owner)
	if err != nil {
		return nil, err
	}

	rows, err := s.loadOwned(target)
	if err != nil {
		return nil, err
	}
	return applyTransactionFilters(rows, filter), nil
}

// loadOwned returns target's rows. Rows without an owner, as in a
// single-user ledger file, belong to the only registered user.
func (s *ledgerService) loadOwned(target string) ([]models.Transaction, error) {
	users, err := s.creds.List()
	if err != nil {
		return nil, asAppError(err)
	}
	if len(users) != 1 || users[0].Username != target {
		rows, err := s.ledger.Load(target)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return rows, nil
	}

	all, err := s.ledger.Load("")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	rows := make([]models.Transaction, 0, len(all))
	for _, r := range all {
		if r.Owner == target || r.Owner == "" {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// resolveOwner decides whose ledger the session may read. An empty owner
// means the session user; anyone else must be a sub-user of the session user.
func (s *ledgerService) resolveOwner(sess session.Context, owner string) (string, error) {
	if !sess.LoggedIn() {
		return "", apperrors.ErrUnauthorized
	}
	owner = strings.TrimSpace(owner)
	if owner == "" || owner == sess.Username {
		return sess.Username, nil
	}

	target, err := s.creds.FindByUsername(owner)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", apperrors.ErrForbidden
		}
		return "", asAppError(err)
	}
	viewer := &models.User{Username: sess.Username, Role: sess.Role}
	if !viewer.CanView(target) {
		return "", apperrors.ErrForbidden
	}
	return target.Username, nil
}

func applyTransactionFilters(rows []models.Transaction, f TransactionFilter) []models.Transaction {
	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		if f.FromDate != nil && r.Date.Before(models.TruncateDate(*f.FromDate)) {
			continue
		}
		if f.ToDate != nil && r.Date.After(models.TruncateDate(*f.ToDate)) {
			continue
		}
		if f.Type != nil && r.Type != *f.Type {
			continue
		}
		if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
			continue
		}
		out = append(out, r)
	}
	return out
}
