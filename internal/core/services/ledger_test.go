package services_test

import (
	"context"
	"testing"
	"time"

	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLendingLedger_RecordLoanEnforcesLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	for i := 0; i < domain.MaxActiveLoansPerPair; i++ {
		loan, err := f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{})
		require.NoError(t, err)
		assert.NotZero(t, loan.ID)
	}

	_, err := f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{})
	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
	assert.False(t, domain.IsInfrastructure(err))

	count, err := f.ledger.CountActiveLoans(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxActiveLoansPerPair), count)
}

func TestLendingLedger_CountActiveLoansUnknownPair(t *testing.T) {
	f := newFixture(t)

	count, err := f.ledger.CountActiveLoans(context.Background(), 404, 404)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLendingLedger_CloseLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	loan, err := f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{})
	require.NoError(t, err)

	closed, err := f.ledger.CloseLoan(ctx, tt.librarianID, loan.ID)
	require.NoError(t, err)
	assert.True(t, closed.Returned)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.LoansClosed))

	count, err := f.ledger.CountActiveLoans(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Zero(t, count)

	slots, err := f.store.Repos().Slots.ActiveCount(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Zero(t, slots)

	_, err = f.ledger.CloseLoan(ctx, tt.librarianID, loan.ID)
	assert.ErrorIs(t, err, domain.ErrLoanAlreadyReturned)

	// A refused close is not counted
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.LoansClosed))
}

func TestLendingLedger_CloseLoanForeignTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.seedTenant(t, "t1@example.com")
	t2 := f.seedTenant(t, "t2@example.com")

	loan, err := f.ledger.RecordLoan(ctx, t1.memberID, t1.bookID, domain.LoanOptions{})
	require.NoError(t, err)

	_, err = f.ledger.CloseLoan(ctx, t2.librarianID, loan.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)

	got, err := f.ledger.GetLoan(ctx, t1.librarianID, loan.ID)
	require.NoError(t, err)
	assert.False(t, got.Returned)
}

func TestLendingLedger_GetLoan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.seedTenant(t, "t1@example.com")
	t2 := f.seedTenant(t, "t2@example.com")

	loan, err := f.ledger.RecordLoan(ctx, t1.memberID, t1.bookID, domain.LoanOptions{})
	require.NoError(t, err)

	got, err := f.ledger.GetLoan(ctx, t1.librarianID, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, got.ID)
	assert.True(t, got.IssueDate.Equal(fixedNow))

	_, err = f.ledger.GetLoan(ctx, t2.librarianID, loan.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestLendingLedger_CountOverdueLoans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	past := fixedNow.Add(-24 * time.Hour)
	_, err := f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{ReturnDate: &past})
	require.NoError(t, err)
	_, err = f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{ReturnDate: &past, Returned: boolPtr(true)})
	require.NoError(t, err)
	_, err = f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{})
	require.NoError(t, err)

	count, err := f.ledger.CountOverdueLoans(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = f.ledger.CountOverdueLoans(ctx, fixedNow.Add(15*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCronService_SweepOverdueSetsGauge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	past := time.Now().Add(-time.Hour)
	for i := 0; i < 2; i++ {
		_, err := f.ledger.RecordLoan(ctx, tt.memberID, tt.bookID, domain.LoanOptions{ReturnDate: &past})
		require.NoError(t, err)
	}

	cron, err := services.NewCronService(f.ledger, f.metrics, zaptest.NewLogger(t), "@every 1h")
	require.NoError(t, err)

	cron.SweepOverdue()
	assert.Equal(t, float64(2), promtestutil.ToFloat64(f.metrics.OverdueLoans))

	cron.Start()
	cron.Stop()
}

func TestCronService_InvalidSchedule(t *testing.T) {
	f := newFixture(t)

	_, err := services.NewCronService(f.ledger, f.metrics, zaptest.NewLogger(t), "not a schedule")
	assert.Error(t, err)
}
