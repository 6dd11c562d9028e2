package borrowing

import (
	"context"
	"fmt"
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles lending persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to lending operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create claims the book and inserts the borrow row in one transaction. The
// claim is a conditional update, so two concurrent borrows of the same book
// cannot both succeed: the loser sees claimed=false and nothing is written.
func (r *Repository) Create(ctx context.Context, borrow *models.Borrow) (bool, error) {
	if borrow == nil {
		return false, fmt.Errorf("borrow is required")
	}

	claimed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND status = ?", borrow.BookID, enums.BookStatusAvailable).
			Update("status", enums.BookStatusBorrowed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		claimed = true
		return tx.Create(borrow).Error
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}

// FindByID loads a borrow by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Borrow, error) {
	var borrow models.Borrow
	if err := r.db.WithContext(ctx).First(&borrow, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &borrow, nil
}

// MarkReturned stamps the return date and releases the book in one
// transaction. The stamp is conditional on the loan still being open, so a
// second return of the same borrow reports returned=false.
func (r *Repository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (*models.Borrow, bool, error) {
	var borrow models.Borrow
	returned := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Borrow{}).
			Where("id = ? AND return_date IS NULL", id).
			Update("return_date", returnedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		returned = true

		if err := tx.First(&borrow, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&models.Book{}).
			Where("id = ?", borrow.BookID).
			Update("status", enums.BookStatusAvailable).Error
	})
	if err != nil {
		return nil, false, err
	}
	if !returned {
		return nil, false, nil
	}
	return &borrow, true, nil
}

// ListAll returns every borrow ordered by id.
func (r *Repository) ListAll(ctx context.Context) ([]models.Borrow, error) {
	var borrows []models.Borrow
	if err := r.db.WithContext(ctx).Order("id").Find(&borrows).Error; err != nil {
		return nil, err
	}
	return borrows, nil
}

// ListByUser returns a user's borrows ordered by id.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Borrow, error) {
	var borrows []models.Borrow
	err := r.db.WithContext(ctx).Order("id").Find(&borrows, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return borrows, nil
}

// CountActiveOverdue counts open loans whose due date has passed.
func (r *Repository) CountActiveOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Borrow{}).
		Where("return_date IS NULL AND due_date < ?", now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// PopularBooks ranks books by total borrow count, zero-borrow books included.
// Ties break on book id so the ranking is deterministic.
func (r *Repository) PopularBooks(ctx context.Context, limit int) ([]PopularBook, error) {
	var rows []PopularBook
	err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id AS id, books.title AS title, COUNT(borrows.id) AS borrow_count").
		Joins("LEFT JOIN borrows ON borrows.book_id = books.id").
		Group("books.id, books.title").
		Order("borrow_count DESC, books.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
