// Package testutil provides database fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temporary directory.
// It uses the same DSN options as the server so transactions take the write
// lock on BEGIN.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lending.db")
	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(path)), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// SeedLibrarian inserts a librarian with a placeholder password hash
func SeedLibrarian(t testing.TB, db *gorm.DB, email string) *models.Librarian {
	t.Helper()

	librarian := &models.Librarian{
		Name:     "Librarian " + email,
		Email:    email,
		Password: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehol",
	}
	require.NoError(t, db.Create(librarian).Error)
	return librarian
}

// SeedBook inserts an available book owned by ownerID
func SeedBook(t testing.TB, db *gorm.DB, ownerID uint, title string) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:         title,
		Author:        "Author of " + title,
		PublishedYear: 2001,
		Available:     true,
		OwnerID:       ownerID,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

// SeedMember inserts a member registered under ownerID
func SeedMember(t testing.TB, db *gorm.DB, ownerID uint, email string) *models.Member {
	t.Helper()

	member := &models.Member{
		Name:    "Member " + email,
		Email:   email,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}
