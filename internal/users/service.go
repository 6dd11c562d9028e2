package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/pkg/db"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type activityRecorder interface {
	Record(rec activity.Record)
}

// Service exposes account operations.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, actor types.Actor, id int64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, actor types.Actor, id int64, input UpdateProfileInput) (*UserDTO, error)
	ToggleBlock(ctx context.Context, actor types.Actor, id int64) (*UserDTO, error)
}

type service struct {
	repo     userRepository
	activity activityRecorder
}

// NewService builds an account service with the provided repository.
func NewService(repo userRepository, recorder activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, activity: recorder}, nil
}

// UpdateProfileInput captures the self-editable profile fields. Password and
// role are never touched through this path.
type UpdateProfileInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Address     *string
	Bio         *string
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return FromModels(users), nil
}

func (s *service) Get(ctx context.Context, actor types.Actor, id int64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if actor.ID != id && !actor.IsLibrarian() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you don't have permission to view this user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, actor types.Actor, id int64, input UpdateProfileInput) (*UserDTO, error) {
	if actor.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only update your own profile")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		user.Email = email
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = cloneStringPtr(input.PhoneNumber)
	}
	if input.Address != nil {
		user.Address = cloneStringPtr(input.Address)
	}
	if input.Bio != nil {
		user.Bio = cloneStringPtr(input.Bio)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	s.activity.Record(activity.Record{
		Type:     enums.ActivityProfileUpdated,
		UserID:   user.ID,
		Username: user.Name,
	})
	return FromModel(user), nil
}

func (s *service) ToggleBlock(ctx context.Context, actor types.Actor, id int64) (*UserDTO, error) {
	if actor.ID == id {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot block yourself")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	activityType := enums.ActivityUserUnblocked
	if user.IsBlocked {
		activityType = enums.ActivityUserBlocked
	}
	s.activity.Record(activity.Record{
		Type:     activityType,
		UserID:   user.ID,
		Username: user.Name,
	})
	return FromModel(user), nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
