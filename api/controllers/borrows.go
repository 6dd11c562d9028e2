package controllers

import (
	"net/http"
	"time"

	"github.com/libreshelf/libreshelf-backend/api/middleware"
	"github.com/libreshelf/libreshelf-backend/api/responses"
	"github.com/libreshelf/libreshelf-backend/api/validators"
	"github.com/libreshelf/libreshelf-backend/internal/borrowing"
	pkgerrors "github.com/libreshelf/libreshelf-backend/pkg/errors"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
)

type createBorrowRequest struct {
	BookID     int64      `json:"bookId" validate:"required,gt=0"`
	UserID     int64      `json:"userId" validate:"omitempty,gt=0"`
	BorrowDate *time.Time `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate" validate:"required"`
}

// ListBorrows returns every loan for librarians and only the caller's own
// loans for readers.
func ListBorrows(svc borrowing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you must be logged in"))
			return
		}

		result, err := svc.List(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CreateBorrow(svc borrowing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you must be logged in"))
			return
		}

		var req createBorrowRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := borrowing.CreateBorrowInput{
			BookID:  req.BookID,
			UserID:  req.UserID,
			DueDate: req.DueDate,
		}
		if req.BorrowDate != nil {
			input.BorrowDate = *req.BorrowDate
		}

		borrow, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, borrow)
	}
}

func ReturnBorrow(svc borrowing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "you must be logged in"))
			return
		}

		id, err := validators.IDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		borrow, err := svc.Return(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, borrow)
	}
}
