package repositories

import (
	"context"
	"iter"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
// Loans carry no owner column; ownership is resolved through the book.
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create inserts a new loan and sets its ID
func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	row := models.LoanFromDomain(loan)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*loan = row.ToDomain()
	return nil
}

// CountActive counts unreturned loans for a member-book pair
func (r *loanRepository) CountActive(ctx context.Context, memberID, bookID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND book_id = ?", memberID, bookID).
		Where("returned = ?", false).
		Count(&count).Error
	return count, err
}

// GetForOwner gets a loan by ID if its book belongs to ownerID
func (r *loanRepository) GetForOwner(ctx context.Context, id, ownerID uint) (*domain.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Select("loans.*").
		Joins("JOIN books ON books.id = loans.book_id").
		Where("loans.id = ? AND books.owner_id = ?", id, ownerID).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	l := loan.ToDomain()
	return &l, nil
}

// MarkReturned flips an active loan to returned.
// It reports false when the loan was already returned.
func (r *loanRepository) MarkReturned(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("id = ? AND returned = ?", id, false).
		Update("returned", true)
	return result.RowsAffected == 1, result.Error
}

// IterateByOwner streams loans whose book belongs to ownerID.
// Each range over the returned sequence runs a fresh query.
func (r *loanRepository) IterateByOwner(ctx context.Context, ownerID uint) iter.Seq2[domain.Loan, error] {
	return func(yield func(domain.Loan, error) bool) {
		rows, err := r.db.WithContext(ctx).
			Model(&models.Loan{}).
			Select("loans.*").
			Joins("JOIN books ON books.id = loans.book_id").
			Where("books.owner_id = ?", ownerID).
			Rows()
		if err != nil {
			yield(domain.Loan{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var loan models.Loan
			if err := r.db.ScanRows(rows, &loan); err != nil {
				yield(domain.Loan{}, err)
				return
			}
			if !yield(loan.ToDomain(), nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(domain.Loan{}, err)
		}
	}
}

// CountOverdue counts unreturned loans whose return date is before now
func (r *loanRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("returned = ? AND return_date < ?", false, now).
		Count(&count).Error
	return count, err
}
