package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/libreshelf/libreshelf-backend/internal/books"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
)

type fakeBooksService struct {
	searches []string
}

func (f *fakeBooksService) List(ctx context.Context) ([]books.BookDTO, error) { return nil, nil }

func (f *fakeBooksService) Get(ctx context.Context, id int64) (*books.BookDTO, error) {
	return &books.BookDTO{ID: id}, nil
}

func (f *fakeBooksService) Create(ctx context.Context, actor types.Actor, input books.CreateBookInput) (*books.BookDTO, error) {
	return &books.BookDTO{ID: 1}, nil
}

func (f *fakeBooksService) Update(ctx context.Context, actor types.Actor, id int64, input books.UpdateBookInput) (*books.BookDTO, error) {
	return &books.BookDTO{ID: id}, nil
}

func (f *fakeBooksService) Delete(ctx context.Context, actor types.Actor, id int64) error {
	return nil
}

func (f *fakeBooksService) Search(ctx context.Context, query, field string) ([]books.BookDTO, error) {
	f.searches = append(f.searches, query+"/"+field)
	return []books.BookDTO{}, nil
}

func (f *fakeBooksService) Genres(ctx context.Context) ([]string, error) {
	return []string{"Fantasy"}, nil
}

func (f *fakeBooksService) ByGenre(ctx context.Context, genre string) ([]books.BookDTO, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, booksSvc books.Service) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Session: config.SessionConfig{
			Secret:     "test-secret",
			Issuer:     "libreshelf-test",
			TTLMinutes: 60,
			CookieName: "libreshelf_session",
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	return NewRouter(Deps{
		Config: cfg,
		Logger: logg,
		Books:  booksSvc,
	})
}

func TestRouter_SearchAndGenresLiveAtAPIRoot(t *testing.T) {
	svc := &fakeBooksService{}
	router := newTestRouter(t, svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/search?query=dune&field=title", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("GET /api/search returned %d", resp.Code)
	}
	if len(svc.searches) != 1 || svc.searches[0] != "dune/title" {
		t.Fatalf("search not routed with query params, got %v", svc.searches)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("GET /api/genres returned %d", resp.Code)
	}

	// The catalog-prefixed variants are not part of the API surface.
	for _, path := range []string{"/api/books/search", "/api/books/genres"} {
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusBadRequest && resp.Code != http.StatusNotFound {
			t.Fatalf("GET %s returned %d, expected it to miss the search handlers", path, resp.Code)
		}
	}
}

func TestRouter_ProfileAndModerationUsePatch(t *testing.T) {
	router := newTestRouter(t, &fakeBooksService{})

	// Profile updates require a session, so the gate answers before the handler.
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/users/7/profile", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("PATCH /api/users/7/profile returned %d, want 401", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/users/7/toggle-block", nil))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("PATCH /api/users/7/toggle-block returned %d, want 403", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPatch, "/api/libraries/7", nil))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("PATCH /api/libraries/7 returned %d, want 403", resp.Code)
	}

	// The old verbs fall through to 405.
	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodPut, "/api/users/7"},
		{http.MethodPost, "/api/users/7/toggle-block"},
		{http.MethodPut, "/api/libraries/7"},
	} {
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s returned %d, want 405", tc.method, tc.path, resp.Code)
		}
	}
}
