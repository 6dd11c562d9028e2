package libraries

import (
	"context"
	"errors"
	"fmt"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type libraryRepository interface {
	Create(ctx context.Context, library *models.Library) error
	FindByID(ctx context.Context, id int64) (*models.Library, error)
	First(ctx context.Context) (*models.Library, error)
	List(ctx context.Context) ([]models.Library, error)
	Update(ctx context.Context, library *models.Library) error
	DeleteCascade(ctx context.Context, id int64) (bool, error)
}

type activityRecorder interface {
	Record(rec activity.Record)
}

// Service exposes branch operations, including the legacy single-location
// info alias backed by the first created branch.
type Service interface {
	List(ctx context.Context) ([]LibraryDTO, error)
	Get(ctx context.Context, id int64) (*LibraryDTO, error)
	Create(ctx context.Context, actor types.Actor, input LibraryInput) (*LibraryDTO, error)
	Update(ctx context.Context, actor types.Actor, id int64, input LibraryInput) (*LibraryDTO, error)
	Delete(ctx context.Context, actor types.Actor, id int64) error
	Info(ctx context.Context) (*LibraryDTO, error)
	UpsertInfo(ctx context.Context, actor types.Actor, input LibraryInput) (*LibraryDTO, error)
}

type service struct {
	repo     libraryRepository
	activity activityRecorder
}

// NewService builds a branch service with the provided repository.
func NewService(repo libraryRepository, recorder activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("library repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, activity: recorder}, nil
}

func (s *service) List(ctx context.Context) ([]LibraryDTO, error) {
	libraries, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list libraries")
	}
	return FromModels(libraries), nil
}

func (s *service) Get(ctx context.Context, id int64) (*LibraryDTO, error) {
	library, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "library not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library")
	}
	return FromModel(library), nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input LibraryInput) (*LibraryDTO, error) {
	library := input.ToModel()
	if err := s.repo.Create(ctx, library); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create library")
	}

	s.activity.Record(activity.Record{
		Type:     enums.ActivityLibraryCreated,
		UserID:   actor.ID,
		Username: actor.Name,
	})
	return FromModel(library), nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id int64, input LibraryInput) (*LibraryDTO, error) {
	library, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "library not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library")
	}

	library.Name = input.Name
	library.Address = input.Address
	library.Phone = input.Phone
	library.Email = input.Email
	library.OpenHours = input.OpenHours
	library.Description = input.Description
	library.LogoURL = input.LogoURL

	if err := s.repo.Update(ctx, library); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update library")
	}

	s.activity.Record(activity.Record{
		Type:     enums.ActivityLibraryUpdated,
		UserID:   actor.ID,
		Username: actor.Name,
	})
	return FromModel(library), nil
}

func (s *service) Delete(ctx context.Context, actor types.Actor, id int64) error {
	deleted, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete library")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "library not found")
	}

	s.activity.Record(activity.Record{
		Type:     enums.ActivityLibraryDeleted,
		UserID:   actor.ID,
		Username: actor.Name,
	})
	return nil
}

func (s *service) Info(ctx context.Context) (*LibraryDTO, error) {
	library, err := s.repo.First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "library information not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library info")
	}
	return FromModel(library), nil
}

func (s *service) UpsertInfo(ctx context.Context, actor types.Actor, input LibraryInput) (*LibraryDTO, error) {
	first, err := s.repo.First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Create(ctx, actor, input)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library info")
	}
	return s.Update(ctx, actor, first.ID, input)
}
