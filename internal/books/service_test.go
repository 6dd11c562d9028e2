package books

import (
	"context"
	"errors"
	"testing"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, dto CreateBookDTO) (*models.Book, error)
	findByIDFn func(ctx context.Context, id int64) (*models.Book, error)
	listFn     func(ctx context.Context) ([]models.Book, error)
	updateFn   func(ctx context.Context, book *models.Book) error
	deleteFn   func(ctx context.Context, id int64) (bool, error)
	searchFn   func(ctx context.Context, query string, field enums.SearchField) ([]models.Book, error)
	genresFn   func(ctx context.Context) ([]string, error)
	byGenreFn  func(ctx context.Context, genre string) ([]models.Book, error)
}

func (f *fakeRepository) Create(ctx context.Context, dto CreateBookDTO) (*models.Book, error) {
	if f.createFn != nil {
		return f.createFn(ctx, dto)
	}
	return dto.ToModel(), nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Book, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) Update(ctx context.Context, book *models.Book) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, book)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return false, nil
}

func (f *fakeRepository) Search(ctx context.Context, query string, field enums.SearchField) ([]models.Book, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, query, field)
	}
	return nil, nil
}

func (f *fakeRepository) Genres(ctx context.Context) ([]string, error) {
	if f.genresFn != nil {
		return f.genresFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) ByGenre(ctx context.Context, genre string) ([]models.Book, error) {
	if f.byGenreFn != nil {
		return f.byGenreFn(ctx, genre)
	}
	return nil, nil
}

func librarian() types.Actor {
	return types.Actor{ID: 1, Username: "admin", Name: "Admin User", Role: enums.UserRoleLibrarian}
}

func newServiceWithRepo(t *testing.T, repo bookRepository) (Service, *activity.Recorder) {
	t.Helper()
	recorder := activity.NewRecorder()
	svc, err := NewService(repo, recorder)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, recorder
}

func TestService_CreateRecordsActivity(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, dto CreateBookDTO) (*models.Book, error) {
			book := dto.ToModel()
			book.ID = 9
			return book, nil
		},
	}
	svc, recorder := newServiceWithRepo(t, repo)

	dto, err := svc.Create(context.Background(), librarian(), CreateBookInput{
		Title:  "Dune",
		Author: "Frank Herbert",
		Genre:  "Science Fiction",
		Year:   1965,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if dto.Status != enums.BookStatusAvailable {
		t.Fatalf("expected default status available, got %q", dto.Status)
	}

	recent := recorder.Recent()
	if len(recent) != 1 {
		t.Fatalf("expected 1 activity record, got %d", len(recent))
	}
	if recent[0].Type != enums.ActivityBookAdded {
		t.Fatalf("expected book_added activity, got %q", recent[0].Type)
	}
	if recent[0].BookTitle == nil || *recent[0].BookTitle != "Dune" {
		t.Fatal("expected book title on activity record")
	}
}

func TestService_CreateRejectsInvalidStatus(t *testing.T) {
	svc, _ := newServiceWithRepo(t, &fakeRepository{})

	bad := "checked_out"
	_, err := svc.Create(context.Background(), librarian(), CreateBookInput{
		Title: "X", Author: "Y", Genre: "Z", Status: &bad,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc, _ := newServiceWithRepo(t, &fakeRepository{})

	_, err := svc.Get(context.Background(), 42)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_UpdateKeepsStatusWhenOmitted(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Book, error) {
			return &models.Book{ID: id, Title: "Old", Author: "A", Genre: "G", Status: enums.BookStatusBorrowed}, nil
		},
	}
	svc, _ := newServiceWithRepo(t, repo)

	dto, err := svc.Update(context.Background(), librarian(), 3, UpdateBookInput{
		Title: "New", Author: "A", Genre: "G", Year: 2001,
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if dto.Status != enums.BookStatusBorrowed {
		t.Fatalf("expected status preserved, got %q", dto.Status)
	}
	if dto.Title != "New" {
		t.Fatalf("expected title replaced, got %q", dto.Title)
	}
}

func TestService_DeleteNotFound(t *testing.T) {
	svc, recorder := newServiceWithRepo(t, &fakeRepository{})

	err := svc.Delete(context.Background(), librarian(), 404)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
	if len(recorder.Recent()) != 0 {
		t.Fatal("expected no activity for failed delete")
	}
}

func TestService_SearchValidation(t *testing.T) {
	svc, _ := newServiceWithRepo(t, &fakeRepository{})

	if _, err := svc.Search(context.Background(), "  ", "all"); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for blank query")
	}
	if _, err := svc.Search(context.Background(), "dune", "publisher"); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for unknown field")
	}
}

func TestService_SearchDefaultsToAllFields(t *testing.T) {
	var gotField enums.SearchField
	repo := &fakeRepository{
		searchFn: func(ctx context.Context, query string, field enums.SearchField) ([]models.Book, error) {
			gotField = field
			return []models.Book{{ID: 1, Title: "Dune"}}, nil
		},
	}
	svc, _ := newServiceWithRepo(t, repo)

	results, err := svc.Search(context.Background(), "dune", "")
	if err != nil {
		t.Fatalf("unexpected search error: %v", err)
	}
	if gotField != enums.SearchFieldAll {
		t.Fatalf("expected empty field to default to all, got %q", gotField)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestService_ListDependencyError(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context) ([]models.Book, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc, _ := newServiceWithRepo(t, repo)

	_, err := svc.List(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
