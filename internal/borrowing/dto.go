package borrowing

import (
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
)

// BorrowDTO exposes one lending record in API responses.
type BorrowDTO struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"bookId"`
	UserID     int64      `json:"userId"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate"`
}

// IsOverdue reports whether the loan is still open past its due date.
func (b BorrowDTO) IsOverdue(now time.Time) bool {
	return b.ReturnDate == nil && b.DueDate.Before(now)
}

// PopularBook is a dashboard aggregate row: a book and how often it has been
// borrowed, zero included.
type PopularBook struct {
	ID          int64  `json:"id" gorm:"column:id"`
	Title       string `json:"title" gorm:"column:title"`
	BorrowCount int64  `json:"borrowCount" gorm:"column:borrow_count"`
}

// FromModel maps the persisted borrow into a DTO.
func FromModel(m *models.Borrow) *BorrowDTO {
	if m == nil {
		return nil
	}
	return &BorrowDTO{
		ID:         m.ID,
		BookID:     m.BookID,
		UserID:     m.UserID,
		BorrowDate: m.BorrowDate,
		DueDate:    m.DueDate,
		ReturnDate: m.ReturnDate,
	}
}

// FromModels maps a slice of borrows into DTOs.
func FromModels(ms []models.Borrow) []BorrowDTO {
	out := make([]BorrowDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
