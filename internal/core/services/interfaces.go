package services

import (
	"context"
	"iter"

	"library-lending/internal/core/domain"
)

// Note: LendingLedger implementation is in ledger.go
// Note: LoanService implementation is in loan_service.go

// CatalogDirectory resolves catalog records scoped to a tenant.
// Records that do not exist and records owned by another tenant are both
// reported as domain.ErrBookNotFound / domain.ErrMemberNotFound.
type CatalogDirectory interface {
	FindBookForTenant(ctx context.Context, bookID, tenantID uint) (*domain.Book, error)
	FindMemberForTenant(ctx context.Context, memberID, tenantID uint) (*domain.Member, error)
}

// LoanCoordinator is the lending surface exposed to the transport layer
type LoanCoordinator interface {
	CreateLoan(ctx context.Context, tenantID uint, input CreateLoanInput) (domain.LoanResult, error)
	ListLoans(ctx context.Context, tenantID uint) iter.Seq2[domain.Loan, error]
	GetLoan(ctx context.Context, tenantID, loanID uint) (*domain.Loan, error)
	CloseLoan(ctx context.Context, tenantID, loanID uint) (*domain.Loan, error)
}
