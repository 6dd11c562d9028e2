package controllers

import (
	"net/http"

	"github.com/libreshelf/libreshelf-backend/api/middleware"
	"github.com/libreshelf/libreshelf-backend/api/responses"
	"github.com/libreshelf/libreshelf-backend/api/validators"
	"github.com/libreshelf/libreshelf-backend/internal/inventory"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
)

// The link endpoints carry both IDs in the body rather than the path.
type upsertLinkRequest struct {
	BookID    int64 `json:"bookId" validate:"required,gt=0"`
	LibraryID int64 `json:"libraryId" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity" validate:"omitempty,gt=0"`
}

type updateLinkRequest struct {
	BookID    int64 `json:"bookId" validate:"required,gt=0"`
	LibraryID int64 `json:"libraryId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type removeLinkRequest struct {
	BookID    int64 `json:"bookId" validate:"required,gt=0"`
	LibraryID int64 `json:"libraryId" validate:"required,gt=0"`
}

func UpsertBookLibrary(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "librarian role required"))
			return
		}

		var req upsertLinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.Upsert(r.Context(), actor, inventory.UpsertInput{
			BookID:    req.BookID,
			LibraryID: req.LibraryID,
			Quantity:  req.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

func UpdateBookLibrary(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "librarian role required"))
			return
		}

		var req updateLinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.UpdateQuantity(r.Context(), actor, req.BookID, req.LibraryID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, link)
	}
}

func RemoveBookLibrary(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "librarian role required"))
			return
		}

		var req removeLinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), actor, req.BookID, req.LibraryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
