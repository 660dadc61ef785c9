package handlers

import (
	"strings"
	"time"

	"library-lending/internal/adapters/http/middleware"
	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loans  services.LoanCoordinator
	logger *zap.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loans services.LoanCoordinator, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loans:  loans,
		logger: logger,
	}
}

// CreateLoanRequest represents loan creation request body
// ReturnDate accepts RFC 3339 or YYYY-MM-DD.
type CreateLoanRequest struct {
	BookID     uint   `json:"book_id"`
	MemberID   uint   `json:"member_id"`
	ReturnDate string `json:"return_date,omitempty"`
	Returned   *bool  `json:"returned,omitempty"`
}

// LoanResponse is the public view of a loan
type LoanResponse struct {
	ID         uint      `json:"id"`
	BookID     uint      `json:"book_id"`
	MemberID   uint      `json:"member_id"`
	IssueDate  time.Time `json:"issue_date"`
	ReturnDate time.Time `json:"return_date"`
	Returned   bool      `json:"returned"`
}

// LoanReceiptResponse is a created loan with its book and member
type LoanReceiptResponse struct {
	LoanResponse
	Book   domain.BookSummary   `json:"book"`
	Member domain.MemberSummary `json:"member"`
}

func toLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		IssueDate:  l.IssueDate,
		ReturnDate: l.ReturnDate,
		Returned:   l.Returned,
	}
}

func parseReturnDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// CreateLoan lends a book to a member
// @Summary Create loan
// @Description Creates a loan if the book and member belong to the caller and the member holds fewer than 5 active loans of the book
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response "LIMIT_EXCEEDED"
// @Failure 404 {object} response.Response "BOOK_NOT_FOUND or MEMBER_NOT_FOUND"
// @Failure 500 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	returnDate, ok := parseReturnDate(req.ReturnDate)
	if !ok {
		return response.BadRequest(c, "return_date must be RFC 3339 or YYYY-MM-DD")
	}

	result, err := h.loans.CreateLoan(c.UserContext(), tenantID, services.CreateLoanInput{
		BookID:     req.BookID,
		MemberID:   req.MemberID,
		ReturnDate: returnDate,
		Returned:   req.Returned,
	})
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create loan")
	}

	if !result.Succeeded() {
		decline := result.Decline
		return response.Declined(c, declineStatus(decline.Reason), string(decline.Reason), decline.Message)
	}

	receipt := result.Receipt
	return response.Created(c, "Loan created successfully", LoanReceiptResponse{
		LoanResponse: toLoanResponse(&receipt.Loan),
		Book:         receipt.Book,
		Member:       receipt.Member,
	})
}

// ListLoans lists loans of the caller's books
// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	items := make([]LoanResponse, 0)
	for loan, err := range h.loans.ListLoans(c.UserContext(), tenantID) {
		if err != nil {
			return respondError(c, h.logger, err, "Failed to list loans")
		}
		items = append(items, toLoanResponse(&loan))
	}

	return response.Success(c, "Loans retrieved successfully", items)
}

// GetLoan gets one loan
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loans.GetLoan(c.UserContext(), tenantID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", toLoanResponse(loan))
}

// ReturnLoan marks a loan returned
// @Summary Return loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/return [patch]
func (h *LoanHandler) ReturnLoan(c *fiber.Ctx) error {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := pathID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loans.CloseLoan(c.UserContext(), tenantID, id)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to return loan")
	}

	return response.Success(c, "Loan returned successfully", toLoanResponse(loan))
}
