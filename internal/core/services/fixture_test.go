package services_test

import (
	"testing"
	"time"

	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/metrics"
	"library-lending/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	store   repositories.Store
	metrics *metrics.LendingMetrics
	ledger  *services.LendingLedger
	loans   *services.LoanService
	catalog *services.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	logger := zaptest.NewLogger(t)
	store := repositories.NewStore(db)
	m := metrics.NewLendingMetrics(prometheus.NewRegistry())
	ledger := services.NewLendingLedger(store, m, logger, services.WithClock(func() time.Time { return fixedNow }))

	return &fixture{
		db:      db,
		store:   store,
		metrics: m,
		ledger:  ledger,
		loans:   services.NewLoanService(store, ledger, m, logger),
		catalog: services.NewCatalogService(store, logger),
	}
}

// tenant is one librarian with a book and a member
type tenant struct {
	librarianID uint
	bookID      uint
	memberID    uint
}

func (f *fixture) seedTenant(t *testing.T, email string) tenant {
	t.Helper()

	librarian := testutil.SeedLibrarian(t, f.db, email)
	book := testutil.SeedBook(t, f.db, librarian.ID, "Book of "+email)
	member := testutil.SeedMember(t, f.db, librarian.ID, "member-"+email)

	return tenant{librarianID: librarian.ID, bookID: book.ID, memberID: member.ID}
}

func boolPtr(b bool) *bool { return &b }
