package inventory

import (
	"context"
	"fmt"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles per-location inventory persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to inventory operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindLink loads the inventory row for a book/library pair.
func (r *Repository) FindLink(ctx context.Context, bookID, libraryID int64) (*models.BookLibrary, error) {
	var link models.BookLibrary
	err := r.db.WithContext(ctx).
		First(&link, "book_id = ? AND library_id = ?", bookID, libraryID).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Upsert inserts the inventory row, replacing the quantity when the pair
// already exists.
func (r *Repository) Upsert(ctx context.Context, link *models.BookLibrary) error {
	if link == nil {
		return fmt.Errorf("link is required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}, {Name: "library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(link).Error
}

// UpdateQuantity sets the quantity for an existing pair. It reports whether
// a row was updated.
func (r *Repository) UpdateQuantity(ctx context.Context, bookID, libraryID int64, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BookLibrary{}).
		Where("book_id = ? AND library_id = ?", bookID, libraryID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes the inventory row for a pair and reports whether it existed.
func (r *Repository) Remove(ctx context.Context, bookID, libraryID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("book_id = ? AND library_id = ?", bookID, libraryID).
		Delete(&models.BookLibrary{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByBook returns the inventory rows referencing a book.
func (r *Repository) ListByBook(ctx context.Context, bookID int64) ([]models.BookLibrary, error) {
	var links []models.BookLibrary
	err := r.db.WithContext(ctx).
		Order("library_id").
		Find(&links, "book_id = ?", bookID).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ListByLibrary returns the inventory rows referencing a library.
func (r *Repository) ListByLibrary(ctx context.Context, libraryID int64) ([]models.BookLibrary, error) {
	var links []models.BookLibrary
	err := r.db.WithContext(ctx).
		Order("book_id").
		Find(&links, "library_id = ?", libraryID).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// BookByID loads a book referenced from inventory.
func (r *Repository) BookByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// LibraryByID loads a library referenced from inventory.
func (r *Repository) LibraryByID(ctx context.Context, id int64) (*models.Library, error) {
	var library models.Library
	if err := r.db.WithContext(ctx).First(&library, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &library, nil
}

// BooksByIDs loads the referenced books keyed by id. Missing ids are simply
// absent from the map.
func (r *Repository) BooksByIDs(ctx context.Context, ids []int64) (map[int64]models.Book, error) {
	out := make(map[int64]models.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Book
	if err := r.db.WithContext(ctx).Find(&rows, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// LibrariesByIDs loads the referenced libraries keyed by id.
func (r *Repository) LibrariesByIDs(ctx context.Context, ids []int64) (map[int64]models.Library, error) {
	out := make(map[int64]models.Library, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Library
	if err := r.db.WithContext(ctx).Find(&rows, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
