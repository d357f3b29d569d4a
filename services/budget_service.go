package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/models"
)

// BudgetService owns every mutation of a program's budget. Debit and
// credit are single conditional UPDATE statements so that two concurrent
// approvals can never both read a stale balance and overspend.
type BudgetService struct {
	db *gorm.DB
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db}
}

// WithTx returns a BudgetService bound to an open transaction so callers
// can combine a budget change with their own writes atomically.
func (s *BudgetService) WithTx(tx *gorm.DB) *BudgetService {
	return &BudgetService{db: tx}
}

// Debit subtracts amount from the program's budget. The floor check is
// part of the UPDATE itself: a balance below amount affects no rows and
// reports ErrInsufficientBudget without writing.
func (s *BudgetService) Debit(programID uint, amount decimal.Decimal) error {
	res := s.db.Model(&models.Program{}).
		Where("id = ? AND program_budget >= ?", programID, amount).
		UpdateColumn("program_budget", gorm.Expr("program_budget - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit program %d: %w", programID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Program{}).Where("id = ?", programID).Count(&count).Error; err != nil {
			return fmt.Errorf("debit program %d: %w", programID, err)
		}
		if count == 0 {
			return ErrProgramNotFound
		}
		return ErrInsufficientBudget
	}
	return nil
}

// Credit adds amount back to the program's budget. No upper bound: the
// order service only ever credits what it previously debited.
func (s *BudgetService) Credit(programID uint, amount decimal.Decimal) error {
	res := s.db.Model(&models.Program{}).
		Where("id = ?", programID).
		UpdateColumn("program_budget", gorm.Expr("program_budget + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("credit program %d: %w", programID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// Override replaces the budget outright. Administrative escape hatch;
// it deliberately bypasses the debit/credit bookkeeping.
func (s *BudgetService) Override(programID uint, budget decimal.Decimal) (*models.Program, error) {
	res := s.db.Model(&models.Program{}).
		Where("id = ?", programID).
		UpdateColumn("program_budget", budget)
	if res.Error != nil {
		return nil, fmt.Errorf("override budget for program %d: %w", programID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProgramNotFound
	}

	var program models.Program
	if err := s.db.First(&program, programID).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// ListPrograms returns every program with its current budget.
func (s *BudgetService) ListPrograms() ([]models.Program, error) {
	var programs []models.Program
	if err := s.db.Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}
