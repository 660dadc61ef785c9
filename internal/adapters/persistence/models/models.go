package models

import (
	"time"

	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Tenants
// ============================================================

// Librarian represents librarians table
type Librarian struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Librarian) TableName() string {
	return "librarians"
}

func (l *Librarian) ToDomain() *domain.Librarian {
	return &domain.Librarian{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Password:  l.Password,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ============================================================
// Catalog
// ============================================================

// Book represents books table
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Author        string    `gorm:"size:255;not null" json:"author"`
	PublishedYear int       `gorm:"not null" json:"published_year"`
	Available     bool      `gorm:"not null" json:"available"`
	OwnerID       uint      `gorm:"index;not null" json:"owner_id"`
	Owner         Librarian `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) ToDomain() *domain.Book {
	return &domain.Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Available:     b.Available,
		OwnerID:       b.OwnerID,
		CreatedAt:     b.CreatedAt,
	}
}

// Member represents members table
// An email is unique per owning librarian, not globally.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex:idx_members_owner_email" json:"email"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_members_owner_email" json:"owner_id"`
	Owner     Librarian `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) ToDomain() *domain.Member {
	return &domain.Member{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
	}
}

// ============================================================
// Lending
// ============================================================

// Loan represents loans table
type Loan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookID     uint      `gorm:"not null;index:idx_loans_pair" json:"book_id"`
	MemberID   uint      `gorm:"not null;index:idx_loans_pair" json:"member_id"`
	IssueDate  time.Time `gorm:"not null" json:"issue_date"`
	ReturnDate time.Time `gorm:"not null;index" json:"return_date"`
	Returned   bool      `gorm:"not null;index" json:"returned"`
	Book       Book      `gorm:"foreignKey:BookID" json:"-"`
	Member     Member    `gorm:"foreignKey:MemberID" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) ToDomain() domain.Loan {
	return domain.Loan{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		IssueDate:  l.IssueDate,
		ReturnDate: l.ReturnDate,
		Returned:   l.Returned,
	}
}

// LoanFromDomain builds a row for insertion
func LoanFromDomain(l *domain.Loan) *Loan {
	return &Loan{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		IssueDate:  l.IssueDate,
		ReturnDate: l.ReturnDate,
		Returned:   l.Returned,
	}
}

// LoanSlot represents loan_slots table
// ActiveCount mirrors the number of unreturned loans for the pair and is the
// row the borrowing limit is enforced on.
type LoanSlot struct {
	MemberID    uint      `gorm:"primaryKey;autoIncrement:false" json:"member_id"`
	BookID      uint      `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	ActiveCount int       `gorm:"not null;default:0" json:"active_count"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanSlot) TableName() string {
	return "loan_slots"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Librarian{},
		&Book{},
		&Member{},
		&Loan{},
		&LoanSlot{},
	)
}
