package services

import (
	"context"
	"iter"
	"time"

	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"
	"library-lending/internal/pkg/metrics"

	"go.uber.org/zap"
)

// CreateLoanInput represents a loan request
// ReturnDate and Returned are optional overrides.
type CreateLoanInput struct {
	BookID     uint
	MemberID   uint
	ReturnDate *time.Time
	Returned   *bool
}

// LoanService coordinates catalog lookups and the ledger in one unit of work
type LoanService struct {
	store   repositories.Store
	ledger  *LendingLedger
	metrics *metrics.LendingMetrics
	logger  *zap.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(
	store repositories.Store,
	ledger *LendingLedger,
	m *metrics.LendingMetrics,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		store:   store,
		ledger:  ledger,
		metrics: m,
		logger:  logger,
	}
}

// CreateLoan creates a loan for tenantID.
// Book, member and limit refusals come back as a declined result with a nil
// error. Any other failure rolls the whole unit back and is returned as a
// *domain.InfrastructureError.
func (s *LoanService) CreateLoan(ctx context.Context, tenantID uint, input CreateLoanInput) (domain.LoanResult, error) {
	var receipt *domain.LoanReceipt

	err := s.store.Transaction(ctx, func(r repositories.Repos) error {
		directory := newCatalogDirectory(r)

		// 1. Book must belong to the tenant
		book, err := directory.FindBookForTenant(ctx, input.BookID, tenantID)
		if err != nil {
			return err
		}

		// 2. Member must belong to the tenant
		member, err := directory.FindMemberForTenant(ctx, input.MemberID, tenantID)
		if err != nil {
			return err
		}

		// 3. Limit check and insert share this transaction
		loan, err := s.ledger.record(ctx, r, member.ID, book.ID, domain.LoanOptions{
			ReturnDate: input.ReturnDate,
			Returned:   input.Returned,
		})
		if err != nil {
			return err
		}

		receipt = &domain.LoanReceipt{
			Loan:   *loan,
			Book:   domain.BookSummary{ID: book.ID, Title: book.Title, Author: book.Author},
			Member: domain.MemberSummary{ID: member.ID, Name: member.Name, Email: member.Email},
		}
		return nil
	})

	if err != nil {
		if reason, ok := domain.DeclineReasonFor(err); ok {
			s.metrics.LoansDeclined.WithLabelValues(string(reason)).Inc()
			s.logger.Info("⛔ Loan declined",
				zap.Uint("librarian_id", tenantID),
				zap.Uint("book_id", input.BookID),
				zap.Uint("member_id", input.MemberID),
				zap.String("reason", string(reason)),
			)
			return domain.Declined(reason), nil
		}

		s.logger.Error("❌ Failed to create loan",
			zap.Uint("librarian_id", tenantID),
			zap.Uint("book_id", input.BookID),
			zap.Uint("member_id", input.MemberID),
			zap.Error(err),
		)
		return domain.LoanResult{}, domain.Infrastructure("create loan", err)
	}

	s.metrics.LoansCreated.Inc()
	s.logger.Info("📘 Loan created",
		zap.Uint("loan_id", receipt.Loan.ID),
		zap.Uint("librarian_id", tenantID),
		zap.Uint("book_id", receipt.Book.ID),
		zap.Uint("member_id", receipt.Member.ID),
	)

	return domain.Accepted(receipt), nil
}

// ListLoans streams the tenant's loans
func (s *LoanService) ListLoans(ctx context.Context, tenantID uint) iter.Seq2[domain.Loan, error] {
	return s.ledger.ListLoans(ctx, tenantID)
}

// GetLoan gets one of the tenant's loans
func (s *LoanService) GetLoan(ctx context.Context, tenantID, loanID uint) (*domain.Loan, error) {
	return s.ledger.GetLoan(ctx, tenantID, loanID)
}

// CloseLoan marks one of the tenant's loans returned
func (s *LoanService) CloseLoan(ctx context.Context, tenantID, loanID uint) (*domain.Loan, error) {
	return s.ledger.CloseLoan(ctx, tenantID, loanID)
}
