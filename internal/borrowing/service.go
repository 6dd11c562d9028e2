package borrowing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type borrowRepository interface {
	Create(ctx context.Context, borrow *models.Borrow) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.Borrow, error)
	MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (*models.Borrow, bool, error)
	ListAll(ctx context.Context) ([]models.Borrow, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Borrow, error)
}

type bookFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Book, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type activityRecorder interface {
	Record(rec activity.Record)
}

// Service exposes the lending lifecycle.
type Service interface {
	Create(ctx context.Context, actor types.Actor, input CreateBorrowInput) (*BorrowDTO, error)
	Return(ctx context.Context, actor types.Actor, id int64) (*BorrowDTO, error)
	List(ctx context.Context, actor types.Actor) ([]BorrowDTO, error)
}

type service struct {
	repo     borrowRepository
	books    bookFinder
	users    userFinder
	activity activityRecorder
	now      func() time.Time
}

// NewService builds a lending service with the provided dependencies.
func NewService(repo borrowRepository, books bookFinder, users userFinder, recorder activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("borrow repository required")
	}
	if books == nil {
		return nil, fmt.Errorf("book finder required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, books: books, users: users, activity: recorder, now: time.Now}, nil
}

// CreateBorrowInput captures the fields accepted when lending a book. A zero
// UserID borrows for the actor; a zero BorrowDate means now.
type CreateBorrowInput struct {
	BookID     int64
	UserID     int64
	BorrowDate time.Time
	DueDate    time.Time
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateBorrowInput) (*BorrowDTO, error) {
	// A blocked account cannot borrow, librarian or not.
	if actor.IsBlocked {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "your account is blocked, you cannot borrow books")
	}
	if input.DueDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date is required")
	}

	userID := input.UserID
	if userID == 0 {
		userID = actor.ID
	}
	borrowDate := input.BorrowDate
	if borrowDate.IsZero() {
		borrowDate = s.now()
	}

	book, err := s.books.FindByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}

	borrow := &models.Borrow{
		BookID:     input.BookID,
		UserID:     userID,
		BorrowDate: borrowDate,
		DueDate:    input.DueDate,
	}
	claimed, err := s.repo.Create(ctx, borrow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create borrow")
	}
	if !claimed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "book is not available for borrowing")
	}

	s.activity.Record(activity.Record{
		Type:      enums.ActivityBookBorrowed,
		UserID:    userID,
		Username:  s.displayName(ctx, userID),
		BookID:    &book.ID,
		BookTitle: &book.Title,
	})
	return FromModel(borrow), nil
}

func (s *service) Return(ctx context.Context, actor types.Actor, id int64) (*BorrowDTO, error) {
	// Librarians can still process returns while blocked.
	if actor.IsBlocked && !actor.IsLibrarian() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "your account is blocked, you cannot return books")
	}

	borrow, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "borrow record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load borrow")
	}
	if !actor.IsLibrarian() && actor.ID != borrow.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you don't have permission to return this book")
	}

	returned, ok, err := s.repo.MarkReturned(ctx, id, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return borrow")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "borrow record not found")
	}

	rec := activity.Record{
		Type:     enums.ActivityBookReturned,
		UserID:   returned.UserID,
		Username: s.displayName(ctx, returned.UserID),
		BookID:   &returned.BookID,
	}
	title := "Unknown Book"
	if book, err := s.books.FindByID(ctx, returned.BookID); err == nil {
		title = book.Title
	}
	rec.BookTitle = &title
	s.activity.Record(rec)

	return FromModel(returned), nil
}

func (s *service) List(ctx context.Context, actor types.Actor) ([]BorrowDTO, error) {
	var (
		borrows []models.Borrow
		err     error
	)
	if actor.IsLibrarian() {
		borrows, err = s.repo.ListAll(ctx)
	} else {
		borrows, err = s.repo.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list borrows")
	}
	return FromModels(borrows), nil
}

func (s *service) displayName(ctx context.Context, userID int64) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "Unknown User"
	}
	return user.Name
}
