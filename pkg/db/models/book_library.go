package models

// BookLibrary links a book to a branch with the number of copies held there.
// The table intentionally carries no foreign keys so stale links survive
// catalog edits; reads substitute placeholders for dangling sides.
type BookLibrary struct {
	BookID    int64 `gorm:"column:book_id;primaryKey;autoIncrement:false"`
	LibraryID int64 `gorm:"column:library_id;primaryKey;autoIncrement:false"`
	Quantity  int   `gorm:"not null;default:1"`
}

func (BookLibrary) TableName() string {
	return "book_libraries"
}
