package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"library-lending/internal/core/domain"
	"library-lending/internal/core/services"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLoan_DefaultReturnDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Nil(t, result.Decline)

	loan := result.Receipt.Loan
	assert.NotZero(t, loan.ID)
	assert.Equal(t, fixedNow, loan.IssueDate)
	assert.Equal(t, 14*24*time.Hour, loan.ReturnDate.Sub(loan.IssueDate))
	assert.False(t, loan.Returned)

	assert.Equal(t, tt.bookID, result.Receipt.Book.ID)
	assert.Equal(t, "Book of t@example.com", result.Receipt.Book.Title)
	assert.Equal(t, tt.memberID, result.Receipt.Member.ID)
	assert.Equal(t, "member-t@example.com", result.Receipt.Member.Email)

	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.LoansCreated))
}

func TestCreateLoan_Overrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{
		BookID:     tt.bookID,
		MemberID:   tt.memberID,
		ReturnDate: &due,
		Returned:   boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Equal(t, due, result.Receipt.Loan.ReturnDate)
	assert.True(t, result.Receipt.Loan.Returned)

	// A loan created as returned does not count against the limit
	count, err := f.ledger.CountActiveLoans(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Zero(t, count)

	active, err := f.store.Repos().Slots.ActiveCount(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Zero(t, active)
}

func TestCreateLoan_FifthSucceedsSixthDeclined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")
	input := services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID}

	for i := 0; i < 4; i++ {
		result, err := f.loans.CreateLoan(ctx, tt.librarianID, input)
		require.NoError(t, err)
		require.True(t, result.Succeeded())
	}

	fifth, err := f.loans.CreateLoan(ctx, tt.librarianID, input)
	require.NoError(t, err)
	assert.True(t, fifth.Succeeded())

	sixth, err := f.loans.CreateLoan(ctx, tt.librarianID, input)
	require.NoError(t, err)
	require.False(t, sixth.Succeeded())
	assert.Equal(t, domain.DeclineLimitExceeded, sixth.Decline.Reason)
	assert.NotEmpty(t, sixth.Decline.Message)

	count, err := f.ledger.CountActiveLoans(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxActiveLoansPerPair), count)

	assert.Equal(t, float64(5), promtestutil.ToFloat64(f.metrics.LoansCreated))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.LoansDeclined.WithLabelValues(string(domain.DeclineLimitExceeded))))
}

func TestCreateLoan_ReturnedLoansDoNotCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")
	input := services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID}

	var first uint
	for i := 0; i < 5; i++ {
		result, err := f.loans.CreateLoan(ctx, tt.librarianID, input)
		require.NoError(t, err)
		require.True(t, result.Succeeded())
		if i == 0 {
			first = result.Receipt.Loan.ID
		}
	}

	_, err := f.loans.CloseLoan(ctx, tt.librarianID, first)
	require.NoError(t, err)

	result, err := f.loans.CreateLoan(ctx, tt.librarianID, input)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestCreateLoan_LimitIsPerPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	for i := 0; i < domain.MaxActiveLoansPerPair; i++ {
		result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID})
		require.NoError(t, err)
		require.True(t, result.Succeeded())
	}

	otherBook, err := f.catalog.CreateBook(ctx, tt.librarianID, &services.CreateBookInput{Title: "Other", Author: "Someone"})
	require.NoError(t, err)

	result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: otherBook.ID, MemberID: tt.memberID})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestCreateLoan_ForeignBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.seedTenant(t, "t1@example.com")
	t2 := f.seedTenant(t, "t2@example.com")

	result, err := f.loans.CreateLoan(ctx, t1.librarianID, services.CreateLoanInput{BookID: t2.bookID, MemberID: t1.memberID})
	require.NoError(t, err)
	require.False(t, result.Succeeded())
	assert.Equal(t, domain.DeclineBookNotFound, result.Decline.Reason)

	count, err := f.ledger.CountActiveLoans(ctx, t1.memberID, t2.bookID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateLoan_ForeignMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.seedTenant(t, "t1@example.com")
	t2 := f.seedTenant(t, "t2@example.com")

	result, err := f.loans.CreateLoan(ctx, t1.librarianID, services.CreateLoanInput{BookID: t1.bookID, MemberID: t2.memberID})
	require.NoError(t, err)
	require.False(t, result.Succeeded())
	assert.Equal(t, domain.DeclineMemberNotFound, result.Decline.Reason)
}

func TestCreateLoan_BookCheckedBeforeMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: 9999, MemberID: 9999})
	require.NoError(t, err)
	require.False(t, result.Succeeded())
	assert.Equal(t, domain.DeclineBookNotFound, result.Decline.Reason)
}

func TestCreateLoan_UnavailableBookIsStillLent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	book, err := f.catalog.CreateBook(ctx, tt.librarianID, &services.CreateBookInput{Title: "Shelved", Author: "Someone", Available: boolPtr(false)})
	require.NoError(t, err)

	result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: book.ID, MemberID: tt.memberID})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
}

func TestCreateLoan_ConcurrentRequestsRespectLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	const workers = 10
	results := make([]domain.LoanResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID})
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded, declined := 0, 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if results[i].Succeeded() {
			succeeded++
			continue
		}
		assert.Equal(t, domain.DeclineLimitExceeded, results[i].Decline.Reason)
		declined++
	}

	assert.Equal(t, domain.MaxActiveLoansPerPair, succeeded)
	assert.Equal(t, workers-domain.MaxActiveLoansPerPair, declined)

	count, err := f.ledger.CountActiveLoans(ctx, tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(domain.MaxActiveLoansPerPair), count)
}

func TestCreateLoan_CancelledContextIsInfrastructure(t *testing.T) {
	f := newFixture(t)
	tt := f.seedTenant(t, "t@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID})
	require.Error(t, err)
	assert.True(t, domain.IsInfrastructure(err))
	assert.False(t, result.Succeeded())
	assert.Nil(t, result.Decline)

	count, err := f.ledger.CountActiveLoans(context.Background(), tt.memberID, tt.bookID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListLoans_TenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.seedTenant(t, "t1@example.com")
	t2 := f.seedTenant(t, "t2@example.com")

	for i := 0; i < 2; i++ {
		_, err := f.loans.CreateLoan(ctx, t1.librarianID, services.CreateLoanInput{BookID: t1.bookID, MemberID: t1.memberID})
		require.NoError(t, err)
	}
	_, err := f.loans.CreateLoan(ctx, t2.librarianID, services.CreateLoanInput{BookID: t2.bookID, MemberID: t2.memberID})
	require.NoError(t, err)

	var got []domain.Loan
	for loan, err := range f.loans.ListLoans(ctx, t1.librarianID) {
		require.NoError(t, err)
		got = append(got, loan)
	}
	require.Len(t, got, 2)
	for _, loan := range got {
		assert.Equal(t, t1.bookID, loan.BookID)
	}
}

func TestListLoans_SeesLoansAddedBetweenRuns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.seedTenant(t, "t@example.com")

	seq := f.loans.ListLoans(ctx, tt.librarianID)
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}

	assert.Zero(t, count())

	_, err := f.loans.CreateLoan(ctx, tt.librarianID, services.CreateLoanInput{BookID: tt.bookID, MemberID: tt.memberID})
	require.NoError(t, err)

	assert.Equal(t, 1, count())
}
