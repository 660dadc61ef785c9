package repositories

import (
	"context"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// librarianRepository implements LibrarianRepository interface
type librarianRepository struct {
	db *gorm.DB
}

// NewLibrarianRepository creates a new librarian repository
func NewLibrarianRepository(db *gorm.DB) LibrarianRepository {
	return &librarianRepository{db: db}
}

// Create creates a new librarian and sets its ID
func (r *librarianRepository) Create(ctx context.Context, librarian *domain.Librarian) error {
	row := &models.Librarian{
		Name:     librarian.Name,
		Email:    librarian.Email,
		Password: librarian.Password,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*librarian = *row.ToDomain()
	return nil
}

// GetByID gets a librarian by ID
func (r *librarianRepository) GetByID(ctx context.Context, id uint) (*domain.Librarian, error) {
	var librarian models.Librarian
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&librarian).Error
	if err != nil {
		return nil, err
	}
	return librarian.ToDomain(), nil
}

// GetByEmail gets a librarian by email
func (r *librarianRepository) GetByEmail(ctx context.Context, email string) (*domain.Librarian, error) {
	var librarian models.Librarian
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&librarian).Error
	if err != nil {
		return nil, err
	}
	return librarian.ToDomain(), nil
}

// ExistsByEmail checks if email exists
func (r *librarianRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Librarian{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}
