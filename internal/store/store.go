// Package store persists the ledger and user credentials. Two families of
// backends exist: CSV flat files, compatible with the spreadsheet-style
// files users keep by hand, and GORM tables for sqlite or postgres.
package store

import (
	"mykhata/internal/models"
)

// LedgerStore holds transactions in append order.
type LedgerStore interface {
	// Load returns every row, or only owner's rows when owner is non-empty.
	// A missing backing table yields an empty result, not an error.
	Load(owner string) ([]models.Transaction, error)
	// Append adds tx after all existing rows.
	Append(tx models.Transaction) error
}

// CredentialStore holds users keyed by username.
type CredentialStore interface {
	// FindByUsername returns apperrors.ErrUserNotFound when absent.
	FindByUsername(username string) (*models.User, error)
	// Create returns apperrors.ErrDuplicateUsername, leaving the store
	// untouched, when the username is taken.
	Create(user models.User) error
	List() ([]models.User, error)
}

func filterOwner(rows []models.Transaction, owner string) []models.Transaction {
	if owner == "" {
		return rows
	}
	out := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out
}
