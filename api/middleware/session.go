package middleware

import (
	"context"
	"net/http"

	pkgauth "github.com/libreshelf/libreshelf-backend/pkg/auth"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	"github.com/libreshelf/libreshelf-backend/pkg/db/models"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
	"github.com/libreshelf/libreshelf-backend/pkg/session"
	"github.com/libreshelf/libreshelf-backend/pkg/types"
)

type actorLoader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Session resolves the session cookie into an actor and seeds the request
// context. Requests without a valid live session continue anonymously; the
// role gates decide what anonymous callers may do.
func Session(cfg config.SessionConfig, checker session.Checker, users actorLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, cookie.Value)
			if err != nil || claims.ID == "" {
				next.ServeHTTP(w, r)
				return
			}

			if checker != nil {
				ok, err := checker.HasSession(r.Context(), claims.ID)
				if err != nil || !ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			// The actor is loaded fresh so role changes and blocks take
			// effect on the next request, not at the next login.
			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			actor := types.Actor{
				ID:        user.ID,
				Username:  user.Username,
				Name:      user.Name,
				Role:      user.Role,
				IsBlocked: user.IsBlocked,
			}

			ctx := WithActor(r.Context(), actor)
			ctx = WithSessionID(ctx, claims.ID)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    actor.ID,
					"actor_role": string(actor.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
