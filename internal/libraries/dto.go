package libraries

import (
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
)

// LibraryDTO exposes branch data in API responses.
type LibraryDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	OpenHours   string    `json:"openHours"`
	Description *string   `json:"description"`
	LogoURL     *string   `json:"logoUrl"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LibraryInput captures the fields accepted when creating or replacing a branch.
type LibraryInput struct {
	Name        string
	Address     string
	Phone       string
	Email       string
	OpenHours   string
	Description *string
	LogoURL     *string
}

// ToModel maps branch input into a persistable row.
func (in LibraryInput) ToModel() *models.Library {
	return &models.Library{
		Name:        in.Name,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		OpenHours:   in.OpenHours,
		Description: in.Description,
		LogoURL:     in.LogoURL,
	}
}

// FromModel maps the persisted branch into a DTO.
func FromModel(m *models.Library) *LibraryDTO {
	if m == nil {
		return nil
	}
	return &LibraryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Address:     m.Address,
		Phone:       m.Phone,
		Email:       m.Email,
		OpenHours:   m.OpenHours,
		Description: m.Description,
		LogoURL:     m.LogoURL,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice of branches into DTOs.
func FromModels(ms []models.Library) []LibraryDTO {
	out := make([]LibraryDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
