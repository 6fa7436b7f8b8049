package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/controllers"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/api/middleware"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/identity"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/notifications"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/projects"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/syslog"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/internal/valuations"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/redis"
)

// sessionManager is the slice of the redis client the auth surface needs.
type sessionManager interface {
	StoreSession(ctx context.Context, jti, userID string, ttl time.Duration) error
	SessionUserID(ctx context.Context, jti string) (string, error)
	RevokeSession(ctx context.Context, jti string) error
}

// NewRouter wires every HTTP surface: health, metrics, auth and the
// role-guarded v1 API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	metricsRegistry *prometheus.Registry,
	sessions sessionManager,
	identityService identity.Service,
	auditService syslog.Service,
	recorder syslog.Recorder,
	notificationsService notifications.Service,
	projectsService projects.Service,
	valuationsService valuations.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbClient, redisClient, logg))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(identityService, sessions, cfg.JWT, logg))
		r.Post("/register", controllers.AuthRegister(identityService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.AuthLogout(sessions, recorder, logg))
			r.Get("/me", controllers.AuthMe(identityService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.RoleAdmin)).Post("/{userId}/role", controllers.AssignUserRole(identityService, logg))
			r.With(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleCoordinator)).Post("/provision", controllers.ProvisionAccount(identityService, logg))
		})

		r.Route("/system-logs", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
			r.Get("/", controllers.ListSystemLogs(auditService, logg))
			r.Post("/verify", controllers.VerifyAuditChain(auditService, logg))
		})

		r.Route("/projects", func(r chi.Router) {
			coordinator := middleware.RequireRole(logg, enums.RoleCoordinator)
			mdgm := middleware.RequireRole(logg, enums.RoleMDGM)

			r.With(coordinator).Post("/", controllers.CreateProject(projectsService, logg))
			r.Get("/", controllers.ListProjects(projectsService, logg))

			r.Route("/{projectId}", func(r chi.Router) {
				r.Get("/", controllers.GetProject(projectsService, logg))
				r.Get("/history", controllers.ProjectStatusHistory(projectsService, logg))

				r.With(coordinator).Post("/assign", controllers.AssignProjectTeam(projectsService, logg))
				r.With(mdgm).Post("/approve", controllers.MDGMApproveProject(projectsService, logg))
				r.With(mdgm).Post("/reject", controllers.MDGMRejectProject(projectsService, logg))
				r.With(coordinator).Post("/start", controllers.StartProject(projectsService, logg))
				r.With(coordinator).Post("/complete", controllers.CompleteProject(projectsService, logg))

				r.Route("/payment", func(r chi.Router) {
					r.Get("/", controllers.GetProjectPayment(projectsService, logg))
					r.With(coordinator).Post("/request", controllers.SendPaymentRequest(projectsService, logg))
					r.With(middleware.RequireRole(logg, enums.RoleClient, enums.RoleAgent)).Post("/slip", controllers.SubmitBankSlip(projectsService, logg))
					r.With(coordinator).Post("/approve", controllers.ApprovePayment(projectsService, logg))
					r.With(coordinator).Post("/reject", controllers.RejectPayment(projectsService, logg))
				})

				r.With(coordinator).Post("/cancellation", controllers.RequestProjectCancellation(projectsService, logg))
			})
		})

		r.Route("/cancellations", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleMDGM))
			r.Get("/", controllers.ListProjectCancellations(projectsService, logg))
			r.Post("/{requestId}/approve", controllers.ApproveProjectCancellation(projectsService, logg))
			r.Post("/{requestId}/reject", controllers.RejectProjectCancellation(projectsService, logg))
		})

		r.Route("/valuations", func(r chi.Router) {
			fieldOfficer := middleware.RequireRole(logg, enums.RoleFieldOfficer)

			r.With(fieldOfficer).Post("/", controllers.CreateValuation(valuationsService, logg))
			r.Get("/", controllers.ListValuations(valuationsService, logg))

			r.Route("/{valuationId}", func(r chi.Router) {
				r.Get("/", controllers.GetValuation(valuationsService, logg))
				r.Get("/history", controllers.ValuationHistory(valuationsService, logg))

				r.With(fieldOfficer).Patch("/", controllers.UpdateValuation(valuationsService, logg))
				r.With(fieldOfficer).Post("/submit", controllers.SubmitValuation(valuationsService, logg))

				r.Route("/accessor", func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.RoleAccessor))
					r.Post("/accept", controllers.AccessorAcceptValuation(valuationsService, logg))
					r.Post("/reject", controllers.AccessorRejectValuation(valuationsService, logg))
				})

				r.Route("/senior-valuer", func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.RoleSeniorValuer))
					r.Post("/approve", controllers.SVApproveValuation(valuationsService, logg))
					r.Post("/reject", controllers.SVRejectValuation(valuationsService, logg))
				})

				r.Route("/md-gm", func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.RoleMDGM))
					r.Post("/approve", controllers.MDGMApproveValuation(valuationsService, logg))
					r.Post("/reject", controllers.MDGMRejectValuation(valuationsService, logg))
				})
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	return r
}
