package books

import (
	"context"
	"testing"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBooksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
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
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedBook(t *testing.T, db *gorm.DB, title, author, genre string, status enums.BookStatus) *models.Book {
	t.Helper()

	book := &models.Book{Title: title, Author: author, Genre: genre, Status: status}
	require.NoError(t, db.Create(book).Error)
	return book
}

func TestRepository_CreateAndFind(t *testing.T) {
	db := setupBooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateBookDTO{
		Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", Year: 1937,
		Status: enums.BookStatusAvailable,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", found.Title)
	assert.Equal(t, enums.BookStatusAvailable, found.Status)
}

func TestRepository_SearchByField(t *testing.T) {
	db := setupBooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedBook(t, db, "Dune", "Frank Herbert", "Science Fiction", enums.BookStatusAvailable)
	seedBook(t, db, "Dune Messiah", "Frank Herbert", "Science Fiction", enums.BookStatusAvailable)
	seedBook(t, db, "Emma", "Jane Austen", "Romance", enums.BookStatusAvailable)

	byTitle, err := repo.Search(ctx, "dune", enums.SearchFieldTitle)
	require.NoError(t, err)
	assert.Len(t, byTitle, 2)

	byAuthor, err := repo.Search(ctx, "AUSTEN", enums.SearchFieldAuthor)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	all, err := repo.Search(ctx, "fiction", enums.SearchFieldAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := repo.Search(ctx, "austen", enums.SearchFieldGenre)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_GenresDistinctSorted(t *testing.T) {
	db := setupBooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedBook(t, db, "A", "a", "Romance", enums.BookStatusAvailable)
	seedBook(t, db, "B", "b", "Fantasy", enums.BookStatusAvailable)
	seedBook(t, db, "C", "c", "Fantasy", enums.BookStatusAvailable)
	seedBook(t, db, "D", "d", "", enums.BookStatusAvailable)

	genres, err := repo.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantasy", "Romance"}, genres)
}

func TestRepository_ByGenreCaseInsensitive(t *testing.T) {
	db := setupBooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedBook(t, db, "A", "a", "Fantasy", enums.BookStatusAvailable)
	seedBook(t, db, "B", "b", "fantasy", enums.BookStatusAvailable)
	seedBook(t, db, "C", "c", "Horror", enums.BookStatusAvailable)

	books, err := repo.ByGenre(ctx, "FANTASY")
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestRepository_DeleteReportsMissing(t *testing.T) {
	db := setupBooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	book := seedBook(t, db, "A", "a", "Fantasy", enums.BookStatusAvailable)

	deleted, err := repo.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepository_CountByStatus(t *testing.T) {
	db := setupBooksTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedBook(t, db, "A", "a", "Fantasy", enums.BookStatusBorrowed)
	seedBook(t, db, "B", "b", "Fantasy", enums.BookStatusBorrowed)
	seedBook(t, db, "C", "c", "Fantasy", enums.BookStatusAvailable)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	borrowed, err := repo.CountByStatus(ctx, enums.BookStatusBorrowed)
	require.NoError(t, err)
	assert.EqualValues(t, 2, borrowed)
}
