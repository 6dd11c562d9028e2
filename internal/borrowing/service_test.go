package borrowing

import (
	"context"
	"testing"
	"time"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn       func(ctx context.Context, borrow *models.Borrow) (bool, error)
	findByIDFn     func(ctx context.Context, id int64) (*models.Borrow, error)
	markReturnedFn func(ctx context.Context, id int64, returnedAt time.Time) (*models.Borrow, bool, error)
	listAllFn      func(ctx context.Context) ([]models.Borrow, error)
	listByUserFn   func(ctx context.Context, userID int64) ([]models.Borrow, error)
}

func (f *fakeRepository) Create(ctx context.Context, borrow *models.Borrow) (bool, error) {
	if f.createFn != nil {
		return f.createFn(ctx, borrow)
	}
	borrow.ID = 1
	return true, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.Borrow, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) MarkReturned(ctx context.Context, id int64, returnedAt time.Time) (*models.Borrow, bool, error) {
	if f.markReturnedFn != nil {
		return f.markReturnedFn(ctx, id, returnedAt)
	}
	return nil, false, nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]models.Borrow, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID int64) ([]models.Borrow, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

type fakeBookFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*models.Book, error)
}

func (f *fakeBookFinder) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUserFinder struct {
	findByIDFn func(ctx context.Context, id int64) (*models.User, error)
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func reader(id int64) types.Actor {
	return types.Actor{ID: id, Username: "reader", Name: "Reader", Role: enums.UserRoleReader}
}

func librarian() types.Actor {
	return types.Actor{ID: 1, Username: "admin", Name: "Admin User", Role: enums.UserRoleLibrarian}
}

func knownBook() *fakeBookFinder {
	return &fakeBookFinder{
		findByIDFn: func(ctx context.Context, id int64) (*models.Book, error) {
			return &models.Book{ID: id, Title: "Dune", Status: enums.BookStatusAvailable}, nil
		},
	}
}

func knownUser() *fakeUserFinder {
	return &fakeUserFinder{
		findByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Name: "Reader"}, nil
		},
	}
}

func newTestService(t *testing.T, repo borrowRepository, books bookFinder, users userFinder) (Service, *activity.Recorder) {
	t.Helper()
	recorder := activity.NewRecorder()
	svc, err := NewService(repo, books, users, recorder)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, recorder
}

func dueNextWeek() time.Time {
	return time.Now().Add(7 * 24 * time.Hour)
}

func TestService_CreateDefaultsToActorAndRecords(t *testing.T) {
	var saved *models.Borrow
	repo := &fakeRepository{
		createFn: func(ctx context.Context, borrow *models.Borrow) (bool, error) {
			borrow.ID = 10
			saved = borrow
			return true, nil
		},
	}
	svc, recorder := newTestService(t, repo, knownBook(), knownUser())

	dto, err := svc.Create(context.Background(), reader(5), CreateBorrowInput{BookID: 2, DueDate: dueNextWeek()})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if saved.UserID != 5 {
		t.Fatalf("expected borrow for actor, got user %d", saved.UserID)
	}
	if saved.BorrowDate.IsZero() {
		t.Fatal("expected borrow date to be filled")
	}
	if dto.ID != 10 {
		t.Fatalf("unexpected borrow id %d", dto.ID)
	}

	recent := recorder.Recent()
	if len(recent) != 1 || recent[0].Type != enums.ActivityBookBorrowed {
		t.Fatalf("expected book_borrowed activity, got %+v", recent)
	}
	if recent[0].Username != "Reader" {
		t.Fatalf("expected borrower name on activity, got %q", recent[0].Username)
	}
}

func TestService_CreateBlockedActorForbidden(t *testing.T) {
	svc, recorder := newTestService(t, &fakeRepository{}, knownBook(), knownUser())

	actor := reader(5)
	actor.IsBlocked = true
	_, err := svc.Create(context.Background(), actor, CreateBorrowInput{BookID: 2, DueDate: dueNextWeek()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if len(recorder.Recent()) != 0 {
		t.Fatal("expected no activity for blocked borrow")
	}
}

func TestService_CreateBlockedLibrarianAlsoForbidden(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepository{}, knownBook(), knownUser())

	actor := librarian()
	actor.IsBlocked = true
	_, err := svc.Create(context.Background(), actor, CreateBorrowInput{BookID: 2, DueDate: dueNextWeek()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestService_CreateMissingBookNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepository{}, &fakeBookFinder{}, knownUser())

	_, err := svc.Create(context.Background(), reader(5), CreateBorrowInput{BookID: 2, DueDate: dueNextWeek()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_CreateUnavailableBookConflicts(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, borrow *models.Borrow) (bool, error) {
			return false, nil
		},
	}
	svc, recorder := newTestService(t, repo, knownBook(), knownUser())

	_, err := svc.Create(context.Background(), reader(5), CreateBorrowInput{BookID: 2, DueDate: dueNextWeek()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict error, got %v", err)
	}
	if len(recorder.Recent()) != 0 {
		t.Fatal("expected no activity for failed claim")
	}
}

func TestService_ReturnOwnerOrLibrarianOnly(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Borrow, error) {
			return &models.Borrow{ID: id, BookID: 2, UserID: 5}, nil
		},
		markReturnedFn: func(ctx context.Context, id int64, returnedAt time.Time) (*models.Borrow, bool, error) {
			ret := returnedAt
			return &models.Borrow{ID: id, BookID: 2, UserID: 5, ReturnDate: &ret}, true, nil
		},
	}
	svc, _ := newTestService(t, repo, knownBook(), knownUser())

	_, err := svc.Return(context.Background(), reader(6), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error for stranger, got %v", err)
	}

	dto, err := svc.Return(context.Background(), reader(5), 1)
	if err != nil {
		t.Fatalf("unexpected owner return error: %v", err)
	}
	if dto.ReturnDate == nil {
		t.Fatal("expected return date set")
	}

	if _, err := svc.Return(context.Background(), librarian(), 1); err != nil {
		t.Fatalf("unexpected librarian return error: %v", err)
	}
}

func TestService_ReturnTwiceNotFound(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Borrow, error) {
			ret := time.Now()
			return &models.Borrow{ID: id, BookID: 2, UserID: 5, ReturnDate: &ret}, nil
		},
	}
	svc, recorder := newTestService(t, repo, knownBook(), knownUser())

	_, err := svc.Return(context.Background(), reader(5), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for closed loan, got %v", err)
	}
	if len(recorder.Recent()) != 0 {
		t.Fatal("expected no activity for repeated return")
	}
}

func TestService_ReturnRecordsPlaceholderWhenBookDeleted(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Borrow, error) {
			return &models.Borrow{ID: id, BookID: 2, UserID: 5}, nil
		},
		markReturnedFn: func(ctx context.Context, id int64, returnedAt time.Time) (*models.Borrow, bool, error) {
			ret := returnedAt
			return &models.Borrow{ID: id, BookID: 2, UserID: 5, ReturnDate: &ret}, true, nil
		},
	}
	svc, recorder := newTestService(t, repo, &fakeBookFinder{}, &fakeUserFinder{})

	if _, err := svc.Return(context.Background(), reader(5), 1); err != nil {
		t.Fatalf("unexpected return error: %v", err)
	}

	recent := recorder.Recent()
	if len(recent) != 1 || recent[0].Type != enums.ActivityBookReturned {
		t.Fatalf("expected book_returned activity, got %+v", recent)
	}
	if recent[0].Username != "Unknown User" || *recent[0].BookTitle != "Unknown Book" {
		t.Fatalf("expected placeholders, got %+v", recent[0])
	}
}

func TestService_ListScopesByRole(t *testing.T) {
	repo := &fakeRepository{
		listAllFn: func(ctx context.Context) ([]models.Borrow, error) {
			return []models.Borrow{{ID: 1}, {ID: 2}}, nil
		},
		listByUserFn: func(ctx context.Context, userID int64) ([]models.Borrow, error) {
			return []models.Borrow{{ID: 1, UserID: userID}}, nil
		},
	}
	svc, _ := newTestService(t, repo, knownBook(), knownUser())

	all, err := svc.List(context.Background(), librarian())
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected librarian to see all borrows, got %d", len(all))
	}

	own, err := svc.List(context.Background(), reader(5))
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(own) != 1 || own[0].UserID != 5 {
		t.Fatalf("expected reader to see own borrows, got %+v", own)
	}
}

func TestBorrowDTO_IsOverdue(t *testing.T) {
	now := time.Now()
	open := BorrowDTO{DueDate: now.Add(-time.Hour)}
	if !open.IsOverdue(now) {
		t.Fatal("expected open past-due loan to be overdue")
	}

	future := BorrowDTO{DueDate: now.Add(time.Hour)}
	if future.IsOverdue(now) {
		t.Fatal("expected future due date not overdue")
	}

	ret := now
	closed := BorrowDTO{DueDate: now.Add(-time.Hour), ReturnDate: &ret}
	if closed.IsOverdue(now) {
		t.Fatal("expected returned loan not overdue")
	}
}
