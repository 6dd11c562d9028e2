package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/libreshelf/libreshelf-backend/pkg/auth"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/enums"
)

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		Issuer:     "libreshelf-test",
		TTLMinutes: 60,
		CookieName: "libreshelf_session",
	}
}

func mintTestSessionToken(t *testing.T, cfg config.SessionConfig, userID int64, jti string) string {
	t.Helper()
	token, err := pkgauth.MintSessionToken(cfg, time.Now(), pkgauth.SessionTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleReader,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionChecker struct {
	ok  bool
	err error
}

func (s stubSessionChecker) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}

type stubActorLoader struct {
	user *models.User
	err  error
}

func (s stubActorLoader) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func TestSessionLoadsActorFromCookie(t *testing.T) {
	cfg := sessionTestConfig()
	loader := stubActorLoader{user: &models.User{
		ID:       7,
		Username: "reader",
		Name:     "Reader",
		Role:     enums.UserRoleReader,
	}}

	var captured struct {
		actor     bool
		actorID   int64
		sessionID string
	}
	handler := Session(cfg, stubSessionChecker{ok: true}, loader, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		captured.actor = ok
		captured.actorID = actor.ID
		captured.sessionID = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: mintTestSessionToken(t, cfg, 7, "session-1")})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if !captured.actor {
		t.Fatal("expected actor in context")
	}
	if captured.actorID != 7 {
		t.Fatalf("expected actor id 7 got %d", captured.actorID)
	}
	if captured.sessionID != "session-1" {
		t.Fatalf("expected session id session-1 got %q", captured.sessionID)
	}
}

func TestSessionContinuesAnonymouslyWithoutCookie(t *testing.T) {
	cfg := sessionTestConfig()
	handler := Session(cfg, stubSessionChecker{ok: true}, stubActorLoader{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); ok {
			t.Fatal("expected no actor for anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestSessionIgnoresRevokedSession(t *testing.T) {
	cfg := sessionTestConfig()
	loader := stubActorLoader{user: &models.User{ID: 7, Username: "reader", Role: enums.UserRoleReader}}
	handler := Session(cfg, stubSessionChecker{ok: false}, loader, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); ok {
			t.Fatal("expected no actor after session revocation")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: mintTestSessionToken(t, cfg, 7, "session-1")})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestSessionIgnoresForgedToken(t *testing.T) {
	cfg := sessionTestConfig()
	forged := mintTestSessionToken(t, config.SessionConfig{
		Secret:     "other-secret",
		Issuer:     cfg.Issuer,
		TTLMinutes: 60,
	}, 7, "session-1")

	handler := Session(cfg, stubSessionChecker{ok: true}, stubActorLoader{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromContext(r.Context()); ok {
			t.Fatal("expected no actor for forged token")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: forged})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
