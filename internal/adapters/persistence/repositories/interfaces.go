package repositories

import (
	"context"
	"iter"
	"time"

	"library-lending/internal/core/domain"
)

// LibrarianRepository defines librarian repository interface
type LibrarianRepository interface {
	Create(ctx context.Context, librarian *domain.Librarian) error
	GetByID(ctx context.Context, id uint) (*domain.Librarian, error)
	GetByEmail(ctx context.Context, email string) (*domain.Librarian, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// BookRepository defines book repository interface
// Every lookup is scoped by the owning librarian.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetForOwner(ctx context.Context, id, ownerID uint) (*domain.Book, error)
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*domain.Book, int64, error)
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetForOwner(ctx context.Context, id, ownerID uint) (*domain.Member, error)
	ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*domain.Member, int64, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	CountActive(ctx context.Context, memberID, bookID uint) (int64, error)
	GetForOwner(ctx context.Context, id, ownerID uint) (*domain.Loan, error)
	MarkReturned(ctx context.Context, id uint) (bool, error)
	IterateByOwner(ctx context.Context, ownerID uint) iter.Seq2[domain.Loan, error]
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// LoanSlotRepository defines the per-pair active loan counter
type LoanSlotRepository interface {
	Ensure(ctx context.Context, memberID, bookID uint) error
	Acquire(ctx context.Context, memberID, bookID uint, limit int) (bool, error)
	Release(ctx context.Context, memberID, bookID uint) error
	ActiveCount(ctx context.Context, memberID, bookID uint) (int, error)
}

// Repos groups repositories bound to the same connection or transaction
type Repos struct {
	Librarians LibrarianRepository
	Books      BookRepository
	Members    MemberRepository
	Loans      LoanRepository
	Slots      LoanSlotRepository
}

// Store hands out repositories and runs units of work
type Store interface {
	Repos() Repos
	// Transaction runs fn with repositories bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(r Repos) error) error
}
