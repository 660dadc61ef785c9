package handlers

import (
	"time"

	"library-lending/internal/adapters/http/middleware"
	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/pagination"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler handles book and member endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// BookResponse is the public view of a book
type BookResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear int       `json:"published_year"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Available:     b.Available,
		CreatedAt:     b.CreatedAt,
	}
}

// MemberResponse is the public view of a member
type MemberResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

// CreateBook adds a book to the caller's catalog
// @Summary Create book
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /books [post]
func (h *CatalogHandler) CreateBook(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateBookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.catalogService.CreateBook(c.UserContext(), tenantID, &input)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", toBookResponse(book))
}

// ListBooks lists the caller's books
// @Summary List books
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *CatalogHandler) ListBooks(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	books, total, err := h.catalogService.ListBooks(c.UserContext(), tenantID, params.Offset, params.Limit)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list books")
	}

	items := make([]BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, toBookResponse(b))
	}

	return response.Success(c, "Books retrieved successfully", pagination.NewPage(items, params, total))
}

// GetBook gets one of the caller's books
// @Summary Get book
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *CatalogHandler) GetBook(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.catalogService.FindBookForTenant(c.UserContext(), id, tenantID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", toBookResponse(book))
}

// CreateMember registers a member under the caller
// @Summary Create member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateMemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *CatalogHandler) CreateMember(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.catalogService.CreateMember(c.UserContext(), tenantID, &input)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create member")
	}

	return response.Created(c, "Member created successfully", toMemberResponse(member))
}

// ListMembers lists the caller's members
// @Summary List members
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *CatalogHandler) ListMembers(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	members, total, err := h.catalogService.ListMembers(c.UserContext(), tenantID, params.Offset, params.Limit)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list members")
	}

	items := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(m))
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewPage(items, params, total))
}

// GetMember gets one of the caller's members
// @Summary Get member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *CatalogHandler) GetMember(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.catalogService.FindMemberForTenant(c.UserContext(), id, tenantID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", toMemberResponse(member))
}
