package models

import "time"

// Borrow records one lending of a book to a user. ReturnDate stays nil while
// the loan is active.
type Borrow struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	BookID     int64      `gorm:"column:book_id;not null;index"`
	UserID     int64      `gorm:"column:user_id;not null;index"`
	BorrowDate time.Time  `gorm:"column:borrow_date;not null"`
	DueDate    time.Time  `gorm:"column:due_date;not null"`
	ReturnDate *time.Time `gorm:"column:return_date"`
}
