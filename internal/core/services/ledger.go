package services

import (
	"context"
	"errors"
	"iter"
	"time"

	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"
	"library-lending/internal/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LendingLedger owns loan records and the borrowing limit
type LendingLedger struct {
	store   repositories.Store
	metrics *metrics.LendingMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// LedgerOption configures a LendingLedger
type LedgerOption func(*LendingLedger)

// WithClock replaces the clock used for issue dates
func WithClock(now func() time.Time) LedgerOption {
	return func(l *LendingLedger) {
		l.now = now
	}
}

// NewLendingLedger creates a new lending ledger
func NewLendingLedger(
	store repositories.Store,
	m *metrics.LendingMetrics,
	logger *zap.Logger,
	opts ...LedgerOption,
) *LendingLedger {
	l := &LendingLedger{
		store:   store,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// CountActiveLoans counts unreturned loans for a member-book pair
func (l *LendingLedger) CountActiveLoans(ctx context.Context, memberID, bookID uint) (int64, error) {
	count, err := l.store.Repos().Loans.CountActive(ctx, memberID, bookID)
	if err != nil {
		return 0, domain.Infrastructure("count active loans", err)
	}
	return count, nil
}

// RecordLoan persists a new loan in its own transaction.
// It fails with domain.ErrLimitExceeded when the pair already holds
// domain.MaxActiveLoansPerPair unreturned loans.
func (l *LendingLedger) RecordLoan(ctx context.Context, memberID, bookID uint, opts domain.LoanOptions) (*domain.Loan, error) {
	var loan *domain.Loan
	err := l.store.Transaction(ctx, func(r repositories.Repos) error {
		var err error
		loan, err = l.record(ctx, r, memberID, bookID, opts)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrLimitExceeded) {
			return nil, err
		}
		return nil, domain.Infrastructure("record loan", err)
	}
	return loan, nil
}

// record runs the limit check and the insert on repositories bound to the
// caller's transaction. The slot row update and the loan insert commit or roll
// back together.
func (l *LendingLedger) record(ctx context.Context, r repositories.Repos, memberID, bookID uint, opts domain.LoanOptions) (*domain.Loan, error) {
	// Millisecond precision survives a round trip through every supported engine
	now := l.now().UTC().Truncate(time.Millisecond)

	loan := &domain.Loan{
		BookID:     bookID,
		MemberID:   memberID,
		IssueDate:  now,
		ReturnDate: now.Add(domain.DefaultLoanPeriod),
	}
	if opts.ReturnDate != nil {
		loan.ReturnDate = opts.ReturnDate.UTC()
	}
	if opts.Returned != nil {
		loan.Returned = *opts.Returned
	}

	if err := r.Slots.Ensure(ctx, memberID, bookID); err != nil {
		return nil, domain.Infrastructure("ensure loan slot", err)
	}

	acquired, err := r.Slots.Acquire(ctx, memberID, bookID, domain.MaxActiveLoansPerPair)
	if err != nil {
		return nil, domain.Infrastructure("acquire loan slot", err)
	}
	if !acquired {
		return nil, domain.ErrLimitExceeded
	}

	// A loan recorded as already returned passes the limit check but holds no slot
	if loan.Returned {
		if err := r.Slots.Release(ctx, memberID, bookID); err != nil {
			return nil, domain.Infrastructure("release loan slot", err)
		}
	}

	if err := r.Loans.Create(ctx, loan); err != nil {
		return nil, domain.Infrastructure("insert loan", err)
	}

	return loan, nil
}

// ListLoans streams the loans whose book belongs to tenantID.
// Ranging over the sequence again re-queries current state.
func (l *LendingLedger) ListLoans(ctx context.Context, tenantID uint) iter.Seq2[domain.Loan, error] {
	return func(yield func(domain.Loan, error) bool) {
		for loan, err := range l.store.Repos().Loans.IterateByOwner(ctx, tenantID) {
			if err != nil {
				yield(domain.Loan{}, domain.Infrastructure("list loans", err))
				return
			}
			if !yield(loan, nil) {
				return
			}
		}
	}
}

// GetLoan gets a loan if its book belongs to tenantID
func (l *LendingLedger) GetLoan(ctx context.Context, tenantID, loanID uint) (*domain.Loan, error) {
	loan, err := l.store.Repos().Loans.GetForOwner(ctx, loanID, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, domain.Infrastructure("get loan", err)
	}
	return loan, nil
}

// CloseLoan marks an active loan returned and frees its slot
func (l *LendingLedger) CloseLoan(ctx context.Context, tenantID, loanID uint) (*domain.Loan, error) {
	var loan *domain.Loan
	err := l.store.Transaction(ctx, func(r repositories.Repos) error {
		var err error
		loan, err = r.Loans.GetForOwner(ctx, loanID, tenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		changed, err := r.Loans.MarkReturned(ctx, loan.ID)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrLoanAlreadyReturned
		}

		if err := r.Slots.Release(ctx, loan.MemberID, loan.BookID); err != nil {
			return err
		}

		loan.Returned = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) || errors.Is(err, domain.ErrLoanAlreadyReturned) {
			return nil, err
		}
		l.logger.Error("❌ Failed to close loan", zap.Uint("loan_id", loanID), zap.Error(err))
		return nil, domain.Infrastructure("close loan", err)
	}

	l.metrics.LoansClosed.Inc()
	l.logger.Info("📗 Loan returned",
		zap.Uint("loan_id", loan.ID),
		zap.Uint("book_id", loan.BookID),
		zap.Uint("member_id", loan.MemberID),
	)
	return loan, nil
}

// CountOverdueLoans counts unreturned loans past their return date
func (l *LendingLedger) CountOverdueLoans(ctx context.Context, now time.Time) (int64, error) {
	count, err := l.store.Repos().Loans.CountOverdue(ctx, now.UTC())
	if err != nil {
		return 0, domain.Infrastructure("count overdue loans", err)
	}
	return count, nil
}
