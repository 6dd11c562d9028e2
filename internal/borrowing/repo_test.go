package borrowing

import (
	"context"
	"testing"
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
)

func setupBorrowTestDB(t *testing.T) *gormlib.DB {
	t.Helper()

	db, err := gormlib.Open(sqlite.Open("file::memory:"), &gormlib.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS books (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  genre TEXT NOT NULL,
  year INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'available',
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS borrows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  book_id INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  borrow_date DATETIME NOT NULL,
  due_date DATETIME NOT NULL,
  return_date DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedBorrowableBook(t *testing.T, db *gormlib.DB, status enums.BookStatus) *models.Book {
	t.Helper()
	book := &models.Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Status: status}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestRepository_CreateClaimsAvailableBookOnce(t *testing.T) {
	db := setupBorrowTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBorrowableBook(t, db, enums.BookStatusAvailable)
	now := time.Now()

	first := &models.Borrow{BookID: book.ID, UserID: 5, BorrowDate: now, DueDate: now.Add(24 * time.Hour)}
	claimed, err := repo.Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.NotZero(t, first.ID)

	var updated models.Book
	require.NoError(t, db.First(&updated, "id = ?", book.ID).Error)
	assert.Equal(t, enums.BookStatusBorrowed, updated.Status)

	// A second borrow must lose the claim and leave no row behind.
	second := &models.Borrow{BookID: book.ID, UserID: 6, BorrowDate: now, DueDate: now.Add(24 * time.Hour)}
	claimed, err = repo.Create(ctx, second)
	require.NoError(t, err)
	assert.False(t, claimed)

	var count int64
	require.NoError(t, db.Model(&models.Borrow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRepository_CreateRejectsReservedBook(t *testing.T) {
	db := setupBorrowTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBorrowableBook(t, db, enums.BookStatusReserved)
	now := time.Now()

	claimed, err := repo.Create(ctx, &models.Borrow{BookID: book.ID, UserID: 5, BorrowDate: now, DueDate: now.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestRepository_MarkReturnedOnlyOnce(t *testing.T) {
	db := setupBorrowTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBorrowableBook(t, db, enums.BookStatusAvailable)
	now := time.Now()

	borrow := &models.Borrow{BookID: book.ID, UserID: 5, BorrowDate: now, DueDate: now.Add(24 * time.Hour)}
	claimed, err := repo.Create(ctx, borrow)
	require.NoError(t, err)
	require.True(t, claimed)

	returned, ok, err := repo.MarkReturned(ctx, borrow.ID, now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, returned.ReturnDate)

	var updated models.Book
	require.NoError(t, db.First(&updated, "id = ?", book.ID).Error)
	assert.Equal(t, enums.BookStatusAvailable, updated.Status)

	_, ok, err = repo.MarkReturned(ctx, borrow.ID, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_CountActiveOverdue(t *testing.T) {
	db := setupBorrowTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-48 * time.Hour)
	returned := now.Add(-time.Hour)

	require.NoError(t, db.Create(&models.Borrow{BookID: 1, UserID: 1, BorrowDate: past, DueDate: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Borrow{BookID: 2, UserID: 1, BorrowDate: past, DueDate: now.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Borrow{BookID: 3, UserID: 1, BorrowDate: past, DueDate: now.Add(-time.Hour), ReturnDate: &returned}).Error)

	count, err := repo.CountActiveOverdue(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRepository_PopularBooksRanksWithTiesById(t *testing.T) {
	db := setupBorrowTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedBorrowableBook(t, db, enums.BookStatusAvailable)
	b := seedBorrowableBook(t, db, enums.BookStatusAvailable)
	c := seedBorrowableBook(t, db, enums.BookStatusAvailable)
	d := seedBorrowableBook(t, db, enums.BookStatusAvailable)

	now := time.Now()
	due := now.Add(24 * time.Hour)
	for _, bookID := range []int64{b.ID, b.ID, c.ID, d.ID} {
		require.NoError(t, db.Create(&models.Borrow{BookID: bookID, UserID: 1, BorrowDate: now, DueDate: due}).Error)
	}

	top, err := repo.PopularBooks(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, b.ID, top[0].ID)
	assert.EqualValues(t, 2, top[0].BorrowCount)
	// c and d tie on one borrow each; the lower id wins.
	assert.Equal(t, c.ID, top[1].ID)
	assert.Equal(t, d.ID, top[2].ID)
}
