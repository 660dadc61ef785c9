package repositories

import (
	"context"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book and sets its ID
func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	row := &models.Book{
		Title:         book.Title,
		Author:        book.Author,
		PublishedYear: book.PublishedYear,
		Available:     book.Available,
		OwnerID:       book.OwnerID,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*book = *row.ToDomain()
	return nil
}

// GetForOwner gets a book by ID if it belongs to ownerID
func (r *bookRepository) GetForOwner(ctx context.Context, id, ownerID uint) (*domain.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return book.ToDomain(), nil
}

// ListByOwner lists an owner's books with pagination
func (r *bookRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*domain.Book, int64, error) {
	var rows []*models.Book
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	books := make([]*domain.Book, len(rows))
	for i, row := range rows {
		books[i] = row.ToDomain()
	}
	return books, total, nil
}
