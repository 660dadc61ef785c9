package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormStore implements Store interface
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new store over db
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// NewRepos creates repositories bound to db
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Librarians: NewLibrarianRepository(db),
		Books:      NewBookRepository(db),
		Members:    NewMemberRepository(db),
		Loans:      NewLoanRepository(db),
		Slots:      NewLoanSlotRepository(db),
	}
}

// Repos returns repositories outside any transaction
func (s *gormStore) Repos() Repos {
	return NewRepos(s.db)
}

// Transaction runs fn inside a database transaction
func (s *gormStore) Transaction(ctx context.Context, fn func(r Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
