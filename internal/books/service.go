package books

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type bookRepository interface {
	Create(ctx context.Context, dto CreateBookDTO) (*models.Book, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string, field enums.SearchField) ([]models.Book, error)
	Genres(ctx context.Context) ([]string, error)
	ByGenre(ctx context.Context, genre string) ([]models.Book, error)
}

type activityRecorder interface {
	Record(rec activity.Record)
}

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context) ([]BookDTO, error)
	Get(ctx context.Context, id int64) (*BookDTO, error)
	Create(ctx context.Context, actor types.Actor, input CreateBookInput) (*BookDTO, error)
	Update(ctx context.Context, actor types.Actor, id int64, input UpdateBookInput) (*BookDTO, error)
	Delete(ctx context.Context, actor types.Actor, id int64) error
	Search(ctx context.Context, query, field string) ([]BookDTO, error)
	Genres(ctx context.Context) ([]string, error)
	ByGenre(ctx context.Context, genre string) ([]BookDTO, error)
}

type service struct {
	repo     bookRepository
	activity activityRecorder
}

// NewService builds a catalog service with the provided repository.
func NewService(repo bookRepository, recorder activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("book repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, activity: recorder}, nil
}

// CreateBookInput captures the fields accepted when adding a book.
type CreateBookInput struct {
	Title  string
	Author string
	Genre  string
	Year   int
	Status *string
}

// UpdateBookInput captures the fields accepted when replacing a book.
type UpdateBookInput struct {
	Title  string
	Author string
	Genre  string
	Year   int
	Status *string
}

func (s *service) List(ctx context.Context) ([]BookDTO, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list books")
	}
	return FromModels(books), nil
}

func (s *service) Get(ctx context.Context, id int64) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return FromModel(book), nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateBookInput) (*BookDTO, error) {
	status, err := resolveStatus(input.Status, enums.BookStatusAvailable)
	if err != nil {
		return nil, err
	}

	book, err := s.repo.Create(ctx, CreateBookDTO{
		Title:  strings.TrimSpace(input.Title),
		Author: strings.TrimSpace(input.Author),
		Genre:  strings.TrimSpace(input.Genre),
		Year:   input.Year,
		Status: status,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create book")
	}

	s.activity.Record(activity.Record{
		Type:      enums.ActivityBookAdded,
		UserID:    actor.ID,
		Username:  actor.Name,
		BookID:    &book.ID,
		BookTitle: &book.Title,
	})
	return FromModel(book), nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id int64, input UpdateBookInput) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}

	status, err := resolveStatus(input.Status, book.Status)
	if err != nil {
		return nil, err
	}

	book.Title = strings.TrimSpace(input.Title)
	book.Author = strings.TrimSpace(input.Author)
	book.Genre = strings.TrimSpace(input.Genre)
	book.Year = input.Year
	book.Status = status

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update book")
	}

	s.activity.Record(activity.Record{
		Type:      enums.ActivityBookUpdated,
		UserID:    actor.ID,
		Username:  actor.Name,
		BookID:    &book.ID,
		BookTitle: &book.Title,
	})
	return FromModel(book), nil
}

func (s *service) Delete(ctx context.Context, actor types.Actor, id int64) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete book")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
	}

	s.activity.Record(activity.Record{
		Type:      enums.ActivityBookDeleted,
		UserID:    actor.ID,
		Username:  actor.Name,
		BookID:    &book.ID,
		BookTitle: &book.Title,
	})
	return nil
}

func (s *service) Search(ctx context.Context, query, field string) ([]BookDTO, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	searchField, err := enums.ParseSearchField(field)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	books, err := s.repo.Search(ctx, query, searchField)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search books")
	}
	return FromModels(books), nil
}

func (s *service) Genres(ctx context.Context) ([]string, error) {
	genres, err := s.repo.Genres(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list genres")
	}
	return genres, nil
}

func (s *service) ByGenre(ctx context.Context, genre string) ([]BookDTO, error) {
	books, err := s.repo.ByGenre(ctx, genre)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list books by genre")
	}
	return FromModels(books), nil
}

func resolveStatus(input *string, fallback enums.BookStatus) (enums.BookStatus, error) {
	if input == nil || strings.TrimSpace(*input) == "" {
		return fallback, nil
	}
	status, err := enums.ParseBookStatus(*input)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return status, nil
}
