package store

import (
	"fmt"

	"gorm.io/gorm"

	"mykhata/internal/models"
)

// GormLedger keeps the ledger in the transactions table.
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger returns a ledger on db. The schema must already exist.
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// Load returns rows in insertion order.
func (l *GormLedger) Load(owner string) ([]models.Transaction, error) {
	q := l.db.Model(&models.Transaction{})
	if owner != "" {
		q = q.Where("username = ?", owner)
	}

	var rows []models.Transaction
	if err := q.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	for i := range rows {
		rows[i].Date = models.TruncateDate(rows[i].Date)
	}
	return rows, nil
}

// Append inserts tx as a new row.
func (l *GormLedger) Append(tx models.Transaction) error {
	tx.Seq = 0
	if err := l.db.Create(&tx).Error; err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}
