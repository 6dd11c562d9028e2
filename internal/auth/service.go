package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/internal/users"
	pkgauth "github.com/libreshelf/libreshelf-backend/pkg/auth"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	"github.com/libreshelf/libreshelf-backend/pkg/db"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/security"
	"gorm.io/gorm"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, userID int64) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type activityRecorder interface {
	Record(rec activity.Record)
}

// Session pairs an authenticated user with the signed token carried in the
// session cookie.
type Session struct {
	User  *users.UserDTO
	Token string
}

// Service exposes registration and session lifecycle operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, userID int64) (*users.UserDTO, error)
}

type service struct {
	store      userStore
	sessions   sessionManager
	activity   activityRecorder
	sessionCfg config.SessionConfig
	password   config.PasswordConfig
	now        func() time.Time
}

// NewService builds an auth service with the provided dependencies.
func NewService(store userStore, sessions sessionManager, recorder activityRecorder, sessionCfg config.SessionConfig, password config.PasswordConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{
		store:      store,
		sessions:   sessions,
		activity:   recorder,
		sessionCfg: sessionCfg,
		password:   password,
		now:        time.Now,
	}, nil
}

// RegisterInput captures the fields accepted on sign-up. An empty role
// defaults to reader.
type RegisterInput struct {
	Username    string
	Password    string
	Name        string
	Email       string
	Role        string
	PhoneNumber *string
	Address     *string
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = username
	}

	role := enums.UserRoleReader
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := enums.ParseUserRole(input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		role = parsed
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := s.store.FindByEmail(ctx, email); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Email:        email,
		Role:         role,
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
	}
	if err := s.store.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the existence checks.
		if db.IsUniqueViolation(err, "email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	s.activity.Record(activity.Record{
		Type:     enums.ActivityUserCreated,
		UserID:   user.ID,
		Username: user.Name,
	})

	return s.startSession(ctx, user)
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
	}

	return s.startSession(ctx, user)
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Current(ctx context.Context, userID int64) (*users.UserDTO, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) startSession(ctx context.Context, user *models.User) (*Session, error) {
	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	token, err := pkgauth.MintSessionToken(s.sessionCfg, s.now(), pkgauth.SessionTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	return &Session{User: users.FromModel(user), Token: token}, nil
}
