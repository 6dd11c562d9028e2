package books

import (
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// BookDTO exposes catalog data in API responses.
type BookDTO struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	Author    string           `json:"author"`
	Genre     string           `json:"genre"`
	Year      int              `json:"year"`
	Status    enums.BookStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// CreateBookDTO holds creation-time data for a new book.
type CreateBookDTO struct {
	Title  string
	Author string
	Genre  string
	Year   int
	Status enums.BookStatus
}

// ToModel maps creation input into a persistable book.
func (dto CreateBookDTO) ToModel() *models.Book {
	status := dto.Status
	if status == "" {
		status = enums.BookStatusAvailable
	}
	return &models.Book{
		Title:  dto.Title,
		Author: dto.Author,
		Genre:  dto.Genre,
		Year:   dto.Year,
		Status: status,
	}
}

// FromModel maps the persisted book into a DTO.
func FromModel(m *models.Book) *BookDTO {
	if m == nil {
		return nil
	}
	return &BookDTO{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Genre:     m.Genre,
		Year:      m.Year,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

// FromModels maps a slice of books into DTOs.
func FromModels(ms []models.Book) []BookDTO {
	out := make([]BookDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
