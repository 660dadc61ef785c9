package config

import (
	"errors"
	"log"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoLibrarian(); err != nil {
		log.Printf("⚠️ Demo librarian seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoLibrarian seeds a librarian with one book and one member.
// This is for development only.
func (s *Seeder) seedDemoLibrarian() error {
	var count int64
	if err := s.db.Model(&models.Librarian{}).Where("email = ?", "demo@library.local").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("demo123456")
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		librarian := &models.Librarian{
			Name:     "Demo Librarian",
			Email:    "demo@library.local",
			Password: hashedPassword,
		}
		if err := tx.Create(librarian).Error; err != nil {
			return err
		}

		book := &models.Book{
			Title:         "The Go Programming Language",
			Author:        "Alan A. A. Donovan",
			PublishedYear: 2015,
			Available:     true,
			OwnerID:       librarian.ID,
		}
		if err := tx.Create(book).Error; err != nil {
			return err
		}

		member := &models.Member{
			Name:    "Demo Member",
			Email:   "member@library.local",
			OwnerID: librarian.ID,
		}
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		log.Printf("✅ Demo librarian seeded: %s (book #%d, member #%d)", librarian.Email, book.ID, member.ID)
		return nil
	})
}
