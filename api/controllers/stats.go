package controllers

import (
	"net/http"

	"github.com/libreshelf/libreshelf-backend/api/responses"
	"github.com/libreshelf/libreshelf-backend/internal/stats"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
)

// DashboardStats aggregates catalog, account and lending counters with the
// recent activity feed and the most-borrowed titles.
func DashboardStats(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
