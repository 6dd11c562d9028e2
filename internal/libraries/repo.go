package libraries

import (
	"context"
	"fmt"

	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles branch persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to branch operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new branch row.
func (r *Repository) Create(ctx context.Context, library *models.Library) error {
	if library == nil {
		return fmt.Errorf("library is required")
	}
	return r.db.WithContext(ctx).Create(library).Error
}

// FindByID loads a branch by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Library, error) {
	var library models.Library
	if err := r.db.WithContext(ctx).First(&library, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &library, nil
}

// First loads the earliest-created branch, backing the legacy single-location view.
func (r *Repository) First(ctx context.Context) (*models.Library, error) {
	var library models.Library
	if err := r.db.WithContext(ctx).Order("id").First(&library).Error; err != nil {
		return nil, err
	}
	return &library, nil
}

// List returns all branches ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Library, error) {
	var libraries []models.Library
	if err := r.db.WithContext(ctx).Order("id").Find(&libraries).Error; err != nil {
		return nil, err
	}
	return libraries, nil
}

// Update saves the provided branch.
func (r *Repository) Update(ctx context.Context, library *models.Library) error {
	if library == nil {
		return fmt.Errorf("library is required")
	}
	return r.db.WithContext(ctx).Save(library).Error
}

// DeleteCascade removes a branch and every inventory link referencing it in
// one transaction, reporting whether the branch existed.
func (r *Repository) DeleteCascade(ctx context.Context, id int64) (bool, error) {
	var existed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Library{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		existed = true
		return tx.Delete(&models.BookLibrary{}, "library_id = ?", id).Error
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}
