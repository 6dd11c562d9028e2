package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/internal/borrowing"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
)

const popularBooksLimit = 3

type bookCounter interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.BookStatus) (int64, error)
}

type userCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type borrowAggregator interface {
	CountActiveOverdue(ctx context.Context, now time.Time) (int64, error)
	PopularBooks(ctx context.Context, limit int) ([]borrowing.PopularBook, error)
}

type activityFeed interface {
	Recent() []activity.Record
}

// DashboardDTO is the librarian dashboard payload.
type DashboardDTO struct {
	TotalBooks     int64                   `json:"totalBooks"`
	TotalUsers     int64                   `json:"totalUsers"`
	BorrowedBooks  int64                   `json:"borrowedBooks"`
	OverdueBooks   int64                   `json:"overdueBooks"`
	RecentActivity []activity.Record       `json:"recentActivity"`
	PopularBooks   []borrowing.PopularBook `json:"popularBooks"`
}

// Service aggregates dashboard statistics.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardDTO, error)
}

type service struct {
	books   bookCounter
	users   userCounter
	borrows borrowAggregator
	feed    activityFeed
	now     func() time.Time
}

// NewService builds a stats service over the catalog, account and lending stores.
func NewService(books bookCounter, users userCounter, borrows borrowAggregator, feed activityFeed) (Service, error) {
	if books == nil {
		return nil, fmt.Errorf("book counter required")
	}
	if users == nil {
		return nil, fmt.Errorf("user counter required")
	}
	if borrows == nil {
		return nil, fmt.Errorf("borrow aggregator required")
	}
	if feed == nil {
		return nil, fmt.Errorf("activity feed required")
	}
	return &service{books: books, users: users, borrows: borrows, feed: feed, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	totalBooks, err := s.books.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count books")
	}
	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	borrowed, err := s.books.CountByStatus(ctx, enums.BookStatusBorrowed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count borrowed books")
	}
	overdue, err := s.borrows.CountActiveOverdue(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count overdue borrows")
	}
	popular, err := s.borrows.PopularBooks(ctx, popularBooksLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank popular books")
	}

	return &DashboardDTO{
		TotalBooks:     totalBooks,
		TotalUsers:     totalUsers,
		BorrowedBooks:  borrowed,
		OverdueBooks:   overdue,
		RecentActivity: s.feed.Recent(),
		PopularBooks:   popular,
	}, nil
}
