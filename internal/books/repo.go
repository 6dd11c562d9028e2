package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new book row.
func (r *Repository) Create(ctx context.Context, dto CreateBookDTO) (*models.Book, error) {
	book := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// FindByID loads a book by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns all catalog books ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Update saves the provided book.
func (r *Repository) Update(ctx context.Context, book *models.Book) error {
	if book == nil {
		return fmt.Errorf("book is required")
	}
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete removes a book row, reporting whether a row existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Search matches books by case-insensitive substring on the requested field.
func (r *Repository) Search(ctx context.Context, query string, field enums.SearchField) ([]models.Book, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	q := r.db.WithContext(ctx).Order("id")

	switch field {
	case enums.SearchFieldTitle:
		q = q.Where("lower(title) LIKE ?", pattern)
	case enums.SearchFieldAuthor:
		q = q.Where("lower(author) LIKE ?", pattern)
	case enums.SearchFieldGenre:
		q = q.Where("lower(genre) LIKE ?", pattern)
	default:
		q = q.Where("lower(title) LIKE ? OR lower(author) LIKE ? OR lower(genre) LIKE ?", pattern, pattern, pattern)
	}

	var books []models.Book
	if err := q.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Genres returns the distinct non-empty genres, sorted.
func (r *Repository) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Distinct("genre").
		Where("genre IS NOT NULL AND genre != ''").
		Order("genre").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, err
	}
	return genres, nil
}

// ByGenre matches books whose genre equals the input, case-insensitively.
func (r *Repository) ByGenre(ctx context.Context, genre string) ([]models.Book, error) {
	var books []models.Book
	err := r.db.WithContext(ctx).
		Where("lower(genre) = lower(?)", genre).
		Order("id").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// CountAll returns the catalog size.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns how many books carry the given status.
func (r *Repository) CountByStatus(ctx context.Context, status enums.BookStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
