package controllers

import (
	"net/http"

	"github.com/libreshelf/libreshelf-backend/api/middleware"
	"github.com/libreshelf/libreshelf-backend/api/responses"
	"github.com/libreshelf/libreshelf-backend/api/validators"
	"github.com/libreshelf/libreshelf-backend/internal/auth"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
)

type registerRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=64"`
	Password    string  `json:"password" validate:"required,min=6"`
	Name        string  `json:"name" validate:"omitempty,max=128"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Role        string  `json:"role" validate:"omitempty,oneof=reader librarian"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=32"`
	Address     *string `json:"address" validate:"omitempty,max=256"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates an account and immediately opens a session for it.
func Register(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Register(r.Context(), auth.RegisterInput{
			Username:    req.Username,
			Password:    req.Password,
			Name:        req.Name,
			Email:       req.Email,
			Role:        req.Role,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, sessionCfg, session.Token)
		responses.WriteSuccessStatus(w, http.StatusCreated, session.User)
	}
}

func Login(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, sessionCfg, session.Token)
		responses.WriteSuccess(w, session.User)
	}
}

// Logout revokes the live session and expires the cookie.
func Logout(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearSessionCookie(w, sessionCfg)
		responses.WriteNoContent(w)
	}
}

// CurrentUser returns the account behind the active session.
func CurrentUser(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you must be logged in"))
			return
		}

		user, err := svc.Current(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
