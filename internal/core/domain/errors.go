package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Librarian errors
var (
	ErrLibrarianNotFound  = errors.New("librarian not found")
	ErrLibrarianExists    = errors.New("librarian already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Catalog errors
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberEmailTaken = errors.New("member email already registered")
)

// Lending errors
var (
	ErrLimitExceeded       = errors.New("member has reached the active loan limit for this book")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrLoanAlreadyReturned = errors.New("loan already returned")
)

// DeclineReason is the stable code reported for a refused loan
type DeclineReason string

const (
	DeclineBookNotFound   DeclineReason = "BOOK_NOT_FOUND"
	DeclineMemberNotFound DeclineReason = "MEMBER_NOT_FOUND"
	DeclineLimitExceeded  DeclineReason = "LIMIT_EXCEEDED"
)

// Message returns a human readable text for the reason
func (r DeclineReason) Message() string {
	switch r {
	case DeclineBookNotFound:
		return "book not found"
	case DeclineMemberNotFound:
		return "member not found"
	case DeclineLimitExceeded:
		return fmt.Sprintf("member has already borrowed this book %d times", MaxActiveLoansPerPair)
	default:
		return string(r)
	}
}

// DeclineReasonFor maps an expected lending error to its reason code
func DeclineReasonFor(err error) (DeclineReason, bool) {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return DeclineBookNotFound, true
	case errors.Is(err, ErrMemberNotFound):
		return DeclineMemberNotFound, true
	case errors.Is(err, ErrLimitExceeded):
		return DeclineLimitExceeded, true
	default:
		return "", false
	}
}

// InfrastructureError wraps a storage or transport failure.
// Its Error text is safe to log but must not be shown to end users.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Infrastructure wraps err unless it is nil or already wrapped
func Infrastructure(op string, err error) error {
	if err == nil {
		return nil
	}
	var infra *InfrastructureError
	if errors.As(err, &infra) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructure reports whether err is an infrastructure failure
func IsInfrastructure(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra)
}
