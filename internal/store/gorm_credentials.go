package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
)

// GormCredentials keeps users in the users table.
type GormCredentials struct {
	db *gorm.DB
}

// NewGormCredentials returns a credential store on db.
func NewGormCredentials(db *gorm.DB) *GormCredentials {
	return &GormCredentials{db: db}
}

// FindByUsername looks up a single user.
func (s *GormCredentials) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Create inserts user inside a transaction that first checks the username
// is free.
func (s *GormCredentials) Create(user models.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateUsername
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateUsername
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// List returns users in signup order.
func (s *GormCredentials) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
