package domain

import "time"

const (
	// MaxActiveLoansPerPair is the borrowing limit for one member-book pair
	MaxActiveLoansPerPair = 5

	// DefaultLoanPeriod is added to the issue date when no return date is given
	DefaultLoanPeriod = 14 * 24 * time.Hour
)

// Librarian is the tenant that owns books, members and loans
type Librarian struct {
	ID        uint
	Name      string
	Email     string
	Password  string // Hashed
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Book represents a catalog item owned by one librarian
// Available is informational only; loans never read or change it.
type Book struct {
	ID            uint
	Title         string
	Author        string
	PublishedYear int
	Available     bool
	OwnerID       uint
	CreatedAt     time.Time
}

// Member represents a borrower registered under one librarian
type Member struct {
	ID        uint
	Name      string
	Email     string
	OwnerID   uint
	CreatedAt time.Time
}

// Loan represents one member borrowing one book
type Loan struct {
	ID         uint
	BookID     uint
	MemberID   uint
	IssueDate  time.Time
	ReturnDate time.Time
	Returned   bool
}

// IsActive reports whether the loan still counts against the borrowing limit
func (l *Loan) IsActive() bool {
	return !l.Returned
}

// IsOverdue reports whether an active loan is past its return date
func (l *Loan) IsOverdue(now time.Time) bool {
	return !l.Returned && now.After(l.ReturnDate)
}

// LoanOptions carries caller overrides for a new loan
type LoanOptions struct {
	ReturnDate *time.Time
	Returned   *bool
}

// BookSummary is the denormalized book view returned with a new loan
type BookSummary struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// MemberSummary is the denormalized member view returned with a new loan
type MemberSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoanReceipt is a created loan together with the records it points at
type LoanReceipt struct {
	Loan   Loan
	Book   BookSummary
	Member MemberSummary
}

// Decline describes an expected business refusal
type Decline struct {
	Reason  DeclineReason
	Message string
}

// LoanResult is either a receipt or a decline, never both
type LoanResult struct {
	Receipt *LoanReceipt
	Decline *Decline
}

// Succeeded reports whether a loan was created
func (r LoanResult) Succeeded() bool {
	return r.Receipt != nil
}

// Accepted builds a successful result
func Accepted(receipt *LoanReceipt) LoanResult {
	return LoanResult{Receipt: receipt}
}

// Declined builds a refused result
func Declined(reason DeclineReason) LoanResult {
	return LoanResult{Decline: &Decline{Reason: reason, Message: reason.Message()}}
}
