package services

import (
	"context"
	"errors"
	"strings"

	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// catalogDirectory resolves tenant-scoped records on one set of repositories
type catalogDirectory struct {
	books   repositories.BookRepository
	members repositories.MemberRepository
}

func newCatalogDirectory(r repositories.Repos) *catalogDirectory {
	return &catalogDirectory{books: r.Books, members: r.Members}
}

// FindBookForTenant gets a book owned by tenantID
func (d *catalogDirectory) FindBookForTenant(ctx context.Context, bookID, tenantID uint) (*domain.Book, error) {
	book, err := d.books.GetForOwner(ctx, bookID, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, domain.Infrastructure("find book", err)
	}
	return book, nil
}

// FindMemberForTenant gets a member owned by tenantID
func (d *catalogDirectory) FindMemberForTenant(ctx context.Context, memberID, tenantID uint) (*domain.Member, error) {
	member, err := d.members.GetForOwner(ctx, memberID, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, domain.Infrastructure("find member", err)
	}
	return member, nil
}

// CatalogService handles books and members
type CatalogService struct {
	*catalogDirectory
	store  repositories.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store repositories.Store, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalogDirectory: newCatalogDirectory(store.Repos()),
		store:            store,
		logger:           logger,
	}
}

// CreateBookInput represents book creation input
type CreateBookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
	Available     *bool  `json:"available"`
}

// CreateMemberInput represents member creation input
type CreateMemberInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateBook adds a book to the tenant's catalog
func (s *CatalogService) CreateBook(ctx context.Context, tenantID uint, input *CreateBookInput) (*domain.Book, error) {
	title := strings.TrimSpace(input.Title)
	author := strings.TrimSpace(input.Author)
	if title == "" || author == "" {
		return nil, domain.ErrInvalidInput
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	book := &domain.Book{
		Title:         title,
		Author:        author,
		PublishedYear: input.PublishedYear,
		Available:     available,
		OwnerID:       tenantID,
	}
	if err := s.store.Repos().Books.Create(ctx, book); err != nil {
		return nil, domain.Infrastructure("create book", err)
	}

	s.logger.Info("📚 Book created", zap.Uint("book_id", book.ID), zap.Uint("librarian_id", tenantID))
	return book, nil
}

// ListBooks lists the tenant's books
func (s *CatalogService) ListBooks(ctx context.Context, tenantID uint, offset, limit int) ([]*domain.Book, int64, error) {
	books, total, err := s.store.Repos().Books.ListByOwner(ctx, tenantID, offset, limit)
	if err != nil {
		return nil, 0, domain.Infrastructure("list books", err)
	}
	return books, total, nil
}

// CreateMember registers a member under the tenant
// Emails are unique per tenant.
func (s *CatalogService) CreateMember(ctx context.Context, tenantID uint, input *CreateMemberInput) (*domain.Member, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}

	member := &domain.Member{
		Name:    name,
		Email:   email,
		OwnerID: tenantID,
	}
	if err := s.store.Repos().Members.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrMemberEmailTaken
		}
		return nil, domain.Infrastructure("create member", err)
	}

	s.logger.Info("🪪 Member created", zap.Uint("member_id", member.ID), zap.Uint("librarian_id", tenantID))
	return member, nil
}

// ListMembers lists the tenant's members
func (s *CatalogService) ListMembers(ctx context.Context, tenantID uint, offset, limit int) ([]*domain.Member, int64, error) {
	members, total, err := s.store.Repos().Members.ListByOwner(ctx, tenantID, offset, limit)
	if err != nil {
		return nil, 0, domain.Infrastructure("list members", err)
	}
	return members, total, nil
}
