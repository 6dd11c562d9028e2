package inventory

import (
	"github.com/libreshelf/libreshelf-backend/internal/books"
	"github.com/libreshelf/libreshelf-backend/internal/libraries"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// LinkDTO is one book-to-library inventory row.
type LinkDTO struct {
	BookID    int64 `json:"bookId"`
	LibraryID int64 `json:"libraryId"`
	Quantity  int   `json:"quantity"`
}

// BookLibraryDTO is an inventory row joined with its library, as returned
// when listing the libraries that stock a book.
type BookLibraryDTO struct {
	LinkDTO
	Library libraries.LibraryDTO `json:"library"`
}

// LibraryBookDTO is an inventory row joined with its book, as returned when
// listing the books stocked by a library.
type LibraryBookDTO struct {
	LinkDTO
	Book books.BookDTO `json:"book"`
}

func linkFromModel(m *models.BookLibrary) LinkDTO {
	return LinkDTO{BookID: m.BookID, LibraryID: m.LibraryID, Quantity: m.Quantity}
}

// Inventory rows have no foreign keys, so a link can outlive the entity it
// points at. Joined reads substitute a placeholder instead of failing.
func placeholderLibrary(id int64) libraries.LibraryDTO {
	return libraries.LibraryDTO{ID: id, Name: "Unknown Library"}
}

func placeholderBook(id int64) books.BookDTO {
	return books.BookDTO{
		ID:     id,
		Title:  "Unknown Book",
		Author: "Unknown Author",
		Genre:  "Unknown Genre",
		Status: enums.BookStatusAvailable,
	}
}
