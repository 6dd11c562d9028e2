package users

import (
	"time"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

// UserDTO exposes account data in API responses. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	IsBlocked   bool           `json:"isBlocked"`
	PhoneNumber *string        `json:"phoneNumber"`
	Address     *string        `json:"address"`
	Bio         *string        `json:"bio"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// FromModel maps the persisted user into a sanitized DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:          m.ID,
		Username:    m.Username,
		Name:        m.Name,
		Email:       m.Email,
		Role:        m.Role,
		IsBlocked:   m.IsBlocked,
		PhoneNumber: m.PhoneNumber,
		Address:     m.Address,
		Bio:         m.Bio,
		CreatedAt:   m.CreatedAt,
	}
}

// FromModels maps a slice of users into sanitized DTOs.
func FromModels(ms []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *FromModel(&ms[i]))
	}
	return out
}
