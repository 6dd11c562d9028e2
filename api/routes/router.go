package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libreshelf/libreshelf-backend/api/controllers"
	"github.com/libreshelf/libreshelf-backend/api/middleware"
	"github.com/libreshelf/libreshelf-backend/internal/auth"
	"github.com/libreshelf/libreshelf-backend/internal/books"
	"github.com/libreshelf/libreshelf-backend/internal/borrowing"
	"github.com/libreshelf/libreshelf-backend/internal/inventory"
	"github.com/libreshelf/libreshelf-backend/internal/libraries"
	"github.com/libreshelf/libreshelf-backend/internal/stats"
	"github.com/libreshelf/libreshelf-backend/internal/users"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	"github.com/libreshelf/libreshelf-backend/pkg/db"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
	"github.com/libreshelf/libreshelf-backend/pkg/metrics"
	"github.com/libreshelf/libreshelf-backend/pkg/redis"
	"github.com/libreshelf/libreshelf-backend/pkg/session"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Sessions       session.Checker
	UserRepo       *users.Repository
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth      auth.Service
	Books     books.Service
	Libraries libraries.Service
	Inventory inventory.Service
	Borrowing borrowing.Service
	Users     users.Service
	Stats     stats.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
		middleware.Session(cfg.Session, deps.Sessions, deps.UserRepo, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.Auth, cfg.Session, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, cfg.Session, logg))

		// Catalog reads are open to guests.
		r.Get("/books", controllers.ListBooks(deps.Books, logg))
		r.Get("/search", controllers.SearchBooks(deps.Books, logg))
		r.Get("/genres", controllers.ListGenres(deps.Books, logg))
		r.Get("/books/genre/{genre}", controllers.ListBooksByGenre(deps.Books, logg))
		r.Get("/books/{id}", controllers.GetBook(deps.Books, logg))
		r.Get("/books/{id}/libraries", controllers.ListBookLibraries(deps.Inventory, logg))

		r.Get("/libraries", controllers.ListLibraries(deps.Libraries, logg))
		r.Get("/libraries/{id}", controllers.GetLibrary(deps.Libraries, logg))
		r.Get("/libraries/{id}/books", controllers.ListLibraryBooks(deps.Inventory, logg))
		r.Get("/library-info", controllers.GetLibraryInfo(deps.Libraries, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))

			r.Post("/logout", controllers.Logout(deps.Auth, cfg.Session, logg))
			r.Get("/user", controllers.CurrentUser(deps.Auth, logg))
			r.Get("/users/{id}", controllers.GetUser(deps.Users, logg))
			r.Patch("/users/{id}/profile", controllers.UpdateUserProfile(deps.Users, logg))

			r.Get("/borrows", controllers.ListBorrows(deps.Borrowing, logg))
			r.Post("/borrows", controllers.CreateBorrow(deps.Borrowing, logg))
			r.Put("/borrows/{id}/return", controllers.ReturnBorrow(deps.Borrowing, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLibrarian(logg))

			r.Post("/books", controllers.CreateBook(deps.Books, logg))
			r.Put("/books/{id}", controllers.UpdateBook(deps.Books, logg))
			r.Delete("/books/{id}", controllers.DeleteBook(deps.Books, logg))

			r.Post("/libraries", controllers.CreateLibrary(deps.Libraries, logg))
			r.Patch("/libraries/{id}", controllers.UpdateLibrary(deps.Libraries, logg))
			r.Delete("/libraries/{id}", controllers.DeleteLibrary(deps.Libraries, logg))
			r.Put("/library-info", controllers.UpdateLibraryInfo(deps.Libraries, logg))

			r.Post("/book-libraries", controllers.UpsertBookLibrary(deps.Inventory, logg))
			r.Patch("/book-libraries", controllers.UpdateBookLibrary(deps.Inventory, logg))
			r.Delete("/book-libraries", controllers.RemoveBookLibrary(deps.Inventory, logg))

			r.Get("/users", controllers.ListUsers(deps.Users, logg))
			r.Patch("/users/{id}/toggle-block", controllers.ToggleUserBlock(deps.Users, logg))

			r.Get("/stats", controllers.DashboardStats(deps.Stats, logg))
		})
	})

	return r
}
