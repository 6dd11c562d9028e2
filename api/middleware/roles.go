package middleware

import (
	"net/http"

	"github.com/libreshelf/libreshelf-backend/api/responses"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
)

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ActorFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you must be logged in"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLibrarian rejects non-librarians with 403. Anonymous callers get the
// same 403, not a 401.
func RequireLibrarian(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || !actor.IsLibrarian() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "librarian role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
