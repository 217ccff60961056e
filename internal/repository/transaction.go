package repository

import (
	"context"
	"errors"
	"fmt"

	"hospital-admissions/pkg/apperrors"

	"gorm.io/gorm"
)

type TransactionFunc func(tx *gorm.DB) error

// TransactionManager runs a unit of work that commits or rolls back as a whole
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// ExecuteTransaction passes AppErrors from fn through untouched
func (m *TransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	err := m.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
