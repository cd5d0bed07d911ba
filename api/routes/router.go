package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preserveapp/preserve-backend/api/controllers"
	"github.com/preserveapp/preserve-backend/api/middleware"
	"github.com/preserveapp/preserve-backend/internal/applications"
	"github.com/preserveapp/preserve-backend/internal/assignments"
	internalauth "github.com/preserveapp/preserve-backend/internal/auth"
	"github.com/preserveapp/preserve-backend/internal/earnings"
	"github.com/preserveapp/preserve-backend/internal/locations"
	"github.com/preserveapp/preserve-backend/internal/matching"
	"github.com/preserveapp/preserve-backend/internal/users"
	"github.com/preserveapp/preserve-backend/pkg/config"
	"github.com/preserveapp/preserve-backend/pkg/db"
	"github.com/preserveapp/preserve-backend/pkg/enums"
	"github.com/preserveapp/preserve-backend/pkg/logger"
	"github.com/preserveapp/preserve-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    db.Pinger
	RedisClient *redis.Client

	AuthService     internalauth.Service
	RegisterService internalauth.RegisterService

	UsersRepo     *users.Repository
	PreserverRepo *users.PreserverRepository

	Applications *applications.Service
	Locations    *locations.Service
	Assignments  *assignments.Service
	Matching     *matching.Service
	Earnings     *earnings.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.RedisClient, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/users/me", controllers.UserProfile(p.UsersRepo, p.PreserverRepo, logg))

		r.Route("/applications", func(r chi.Router) {
			r.Post("/", controllers.ApplicationSubmit(p.Applications, logg))
			r.Get("/me", controllers.ApplicationStatus(p.Applications, logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Post("/", controllers.LocationCreate(p.Locations, logg))
			r.Get("/{locationId}", controllers.LocationDetail(p.Locations, logg))
		})
		r.Get("/routes/driving", controllers.DrivingRoute(p.Locations, logg))

		r.Route("/assignments", func(r chi.Router) {
			r.With(middleware.RequireUserType(string(enums.UserTypeClient), logg)).
				Post("/", controllers.AssignmentCreate(p.Assignments, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireClearance(p.PreserverRepo, logg))
				r.Get("/open", controllers.AssignmentListOpen(p.Assignments, logg))
				r.Get("/nearby", controllers.AssignmentsNearby(p.Matching, logg))
				r.Get("/assigned", controllers.AssignmentAssigned(p.Assignments, logg))
				r.Get("/{assignmentId}", controllers.AssignmentDetail(p.Assignments, logg))
				r.Post("/{assignmentId}/claim", controllers.AssignmentClaim(p.Assignments, logg))
				r.Post("/{assignmentId}/start", controllers.AssignmentStart(p.Assignments, logg))
				r.Post("/{assignmentId}/submit", controllers.AssignmentSubmit(p.Assignments, logg))
			})
		})

		r.Route("/earnings", func(r chi.Router) {
			r.Use(middleware.RequireClearance(p.PreserverRepo, logg))
			r.Get("/", controllers.EarningsHistory(p.Earnings, logg))
			r.Get("/summary", controllers.EarningsSummary(p.Earnings, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireUserType(string(enums.UserTypeAdmin), logg))

		r.Post("/applications/{applicationId}/decision", controllers.AdminApplicationDecision(p.Applications, logg))
		r.Post("/assignments/{assignmentId}/complete", controllers.AdminAssignmentComplete(p.Assignments, logg))
	})

	return r
}
