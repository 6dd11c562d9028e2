package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/internal/books"
	"github.com/libreshelf/libreshelf-backend/internal/libraries"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type inventoryRepository interface {
	Upsert(ctx context.Context, link *models.BookLibrary) error
	UpdateQuantity(ctx context.Context, bookID, libraryID int64, quantity int) (bool, error)
	Remove(ctx context.Context, bookID, libraryID int64) (bool, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.BookLibrary, error)
	ListByLibrary(ctx context.Context, libraryID int64) ([]models.BookLibrary, error)
	BookByID(ctx context.Context, id int64) (*models.Book, error)
	LibraryByID(ctx context.Context, id int64) (*models.Library, error)
	BooksByIDs(ctx context.Context, ids []int64) (map[int64]models.Book, error)
	LibrariesByIDs(ctx context.Context, ids []int64) (map[int64]models.Library, error)
}

type activityRecorder interface {
	Record(rec activity.Record)
}

// Service exposes per-location inventory operations.
type Service interface {
	Upsert(ctx context.Context, actor types.Actor, input UpsertInput) (*LinkDTO, error)
	UpdateQuantity(ctx context.Context, actor types.Actor, bookID, libraryID int64, quantity int) (*LinkDTO, error)
	Remove(ctx context.Context, actor types.Actor, bookID, libraryID int64) error
	LibrariesForBook(ctx context.Context, bookID int64) ([]BookLibraryDTO, error)
	BooksForLibrary(ctx context.Context, libraryID int64) ([]LibraryBookDTO, error)
}

type service struct {
	repo     inventoryRepository
	activity activityRecorder
}

// NewService builds an inventory service with the provided repository.
func NewService(repo inventoryRepository, recorder activityRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, activity: recorder}, nil
}

// UpsertInput captures the fields accepted when stocking a book at a library.
// A nil quantity defaults to 1.
type UpsertInput struct {
	BookID    int64
	LibraryID int64
	Quantity  *int
}

func (s *service) Upsert(ctx context.Context, actor types.Actor, input UpsertInput) (*LinkDTO, error) {
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	book, err := s.repo.BookByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	if _, err := s.repo.LibraryByID(ctx, input.LibraryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "library not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load library")
	}

	link := &models.BookLibrary{BookID: input.BookID, LibraryID: input.LibraryID, Quantity: quantity}
	if err := s.repo.Upsert(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert inventory link")
	}

	s.activity.Record(activity.Record{
		Type:      enums.ActivityBookAddedToLibrary,
		UserID:    actor.ID,
		Username:  actor.Name,
		BookID:    &book.ID,
		BookTitle: &book.Title,
	})
	dto := linkFromModel(link)
	return &dto, nil
}

func (s *service) UpdateQuantity(ctx context.Context, actor types.Actor, bookID, libraryID int64, quantity int) (*LinkDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	updated, err := s.repo.UpdateQuantity(ctx, bookID, libraryID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory quantity")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book-library relationship not found")
	}
	return &LinkDTO{BookID: bookID, LibraryID: libraryID, Quantity: quantity}, nil
}

func (s *service) Remove(ctx context.Context, actor types.Actor, bookID, libraryID int64) error {
	deleted, err := s.repo.Remove(ctx, bookID, libraryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove inventory link")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "book-library relationship not found")
	}

	rec := activity.Record{
		Type:     enums.ActivityBookRemovedFromLibrary,
		UserID:   actor.ID,
		Username: actor.Name,
		BookID:   &bookID,
	}
	// The link may have outlived the book; keep the feed entry either way.
	if book, err := s.repo.BookByID(ctx, bookID); err == nil {
		rec.BookTitle = &book.Title
	}
	s.activity.Record(rec)
	return nil
}

func (s *service) LibrariesForBook(ctx context.Context, bookID int64) ([]BookLibraryDTO, error) {
	links, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory by book")
	}

	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.LibraryID)
	}
	found, err := s.repo.LibrariesByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked libraries")
	}

	out := make([]BookLibraryDTO, 0, len(links))
	for i := range links {
		entry := BookLibraryDTO{LinkDTO: linkFromModel(&links[i])}
		if library, ok := found[links[i].LibraryID]; ok {
			entry.Library = *libraries.FromModel(&library)
		} else {
			entry.Library = placeholderLibrary(links[i].LibraryID)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *service) BooksForLibrary(ctx context.Context, libraryID int64) ([]LibraryBookDTO, error) {
	links, err := s.repo.ListByLibrary(ctx, libraryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory by library")
	}

	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.BookID)
	}
	found, err := s.repo.BooksByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked books")
	}

	out := make([]LibraryBookDTO, 0, len(links))
	for i := range links {
		entry := LibraryBookDTO{LinkDTO: linkFromModel(&links[i])}
		if book, ok := found[links[i].BookID]; ok {
			entry.Book = *books.FromModel(&book)
		} else {
			entry.Book = placeholderBook(links[i].BookID)
		}
		out = append(out, entry)
	}
	return out, nil
}
