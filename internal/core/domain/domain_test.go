package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclineReasonFor(t *testing.T) {
	tests := []struct {
		err    error
		reason DeclineReason
		ok     bool
	}{
		{ErrBookNotFound, DeclineBookNotFound, true},
		{fmt.Errorf("lookup: %w", ErrMemberNotFound), DeclineMemberNotFound, true},
		{ErrLimitExceeded, DeclineLimitExceeded, true},
		{ErrLoanNotFound, "", false},
		{Infrastructure("query", errors.New("disk full")), "", false},
	}

	for _, tt := range tests {
		reason, ok := DeclineReasonFor(tt.err)
		assert.Equal(t, tt.ok, ok, tt.err.Error())
		assert.Equal(t, tt.reason, reason)
	}
}

func TestInfrastructure(t *testing.T) {
	assert.Nil(t, Infrastructure("noop", nil))

	cause := errors.New("connection reset")
	err := Infrastructure("insert loan", cause)
	require.Error(t, err)
	assert.True(t, IsInfrastructure(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "insert loan: connection reset", err.Error())

	// Wrapping twice keeps the innermost operation
	again := Infrastructure("create loan", err)
	assert.Equal(t, err, again)

	assert.False(t, IsInfrastructure(ErrLimitExceeded))
}

func TestDeclined(t *testing.T) {
	result := Declined(DeclineLimitExceeded)
	assert.False(t, result.Succeeded())
	assert.Nil(t, result.Receipt)
	require.NotNil(t, result.Decline)
	assert.Contains(t, result.Decline.Message, "5")

	ok := Accepted(&LoanReceipt{Loan: Loan{ID: 1}})
	assert.True(t, ok.Succeeded())
	assert.Nil(t, ok.Decline)
}

func TestLoanIsOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	loan := Loan{ReturnDate: now.Add(-time.Minute)}
	assert.True(t, loan.IsActive())
	assert.True(t, loan.IsOverdue(now))

	loan.Returned = true
	assert.False(t, loan.IsActive())
	assert.False(t, loan.IsOverdue(now))
}
