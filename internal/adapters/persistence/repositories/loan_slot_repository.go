package repositories

import (
	"context"
	"errors"

	"library-lending/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanSlotRepository implements LoanSlotRepository interface
// Acquire and Release are single conditional UPDATE statements, so the storage
// engine serialises concurrent writers on the same (member, book) row.
type loanSlotRepository struct {
	db *gorm.DB
}

// NewLoanSlotRepository creates a new loan slot repository
func NewLoanSlotRepository(db *gorm.DB) LoanSlotRepository {
	return &loanSlotRepository{db: db}
}

// Ensure creates the counter row for a pair if it does not exist yet
func (r *loanSlotRepository) Ensure(ctx context.Context, memberID, bookID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.LoanSlot{MemberID: memberID, BookID: bookID}).Error
}

// Acquire increments the counter if it is below limit.
// It reports false when the pair is already at the limit.
func (r *loanSlotRepository) Acquire(ctx context.Context, memberID, bookID uint, limit int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanSlot{}).
		Where("member_id = ? AND book_id = ?", memberID, bookID).
		Where("active_count < ?", limit).
		Update("active_count", gorm.Expr("active_count + ?", 1))
	return result.RowsAffected == 1, result.Error
}

// Release decrements the counter, never below zero
func (r *loanSlotRepository) Release(ctx context.Context, memberID, bookID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.LoanSlot{}).
		Where("member_id = ? AND book_id = ?", memberID, bookID).
		Where("active_count > ?", 0).
		Update("active_count", gorm.Expr("active_count - ?", 1)).Error
}

// ActiveCount returns the counter value, zero for an unknown pair
func (r *loanSlotRepository) ActiveCount(ctx context.Context, memberID, bookID uint) (int, error) {
	var slot models.LoanSlot
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND book_id = ?", memberID, bookID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return slot.ActiveCount, nil
}
