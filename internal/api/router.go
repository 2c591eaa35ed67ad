package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/taskboard-be/internal/api/handlers"
	"github.com/isdelr/taskboard-be/internal/api/response"
	"github.com/isdelr/taskboard-be/internal/auth"
	"github.com/isdelr/taskboard-be/internal/config"
	"github.com/isdelr/taskboard-be/internal/logger"
	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/monitoring"
	"github.com/isdelr/taskboard-be/internal/pipeline"
	"github.com/isdelr/taskboard-be/internal/services"
	"github.com/isdelr/taskboard-be/internal/websocket"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Config     *config.Config
	Codec      *auth.TokenCodec
	Guard      *auth.Guard
	Login      *auth.LoginService
	Metrics    *monitoring.Metrics
	Users      services.UserServiceProvider
	Tasks      services.TaskServiceProvider
	Milestones services.MilestoneServiceProvider
	Stars      services.StarServiceProvider
	Hub        *websocket.Hub
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}
	r.Use(response.Recoverer)
	r.Use(middleware.Compress(5))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "ok", nil)
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	var events handlers.EventPublisher
	if d.Hub != nil {
		events = d.Hub
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Login, d.Codec)
	userHandler := handlers.NewUserHandler(d.Users)
	taskHandler := handlers.NewTaskHandler(d.Tasks, events)
	milestoneHandler := handlers.NewMilestoneHandler(d.Milestones, events)
	starHandler := handlers.NewStarHandler(d.Stars)

	// Stages run in order: validation, authentication, authorization.
	g := d.Guard
	authed := pipeline.New(g.Authenticate())
	adminOnly := authed.Append(g.Authorize(models.RoleAdmin))
	validated := func(v pipeline.Stage, roles ...models.Role) pipeline.Chain {
		c := pipeline.New(v, g.Authenticate())
		if len(roles) > 0 {
			c = c.Append(g.Authorize(roles...))
		}
		return c
	}

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Method(http.MethodPost, "/login", pipeline.New(loginRules()).ThenFunc(authHandler.Login))
			r.Method(http.MethodGet, "/me", authed.ThenFunc(authHandler.Me))
			r.Method(http.MethodPost, "/logout", authed.ThenFunc(authHandler.Logout))
			r.Method(http.MethodPost, "/verify", pipeline.New(verifyRules()).ThenFunc(authHandler.Verify))
		})

		r.Route("/users", func(r chi.Router) {
			r.Method(http.MethodGet, "/", adminOnly.ThenFunc(userHandler.List))
			r.Method(http.MethodPost, "/", validated(createUserRules(), models.RoleAdmin).ThenFunc(userHandler.Create))
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Method(http.MethodGet, "/", validated(listTasksRules()).ThenFunc(taskHandler.List))
			r.Method(http.MethodPost, "/", validated(createTaskRules()).ThenFunc(taskHandler.Create))
			r.Route("/{id}", func(r chi.Router) {
				r.Method(http.MethodGet, "/", validated(taskIDRules()).ThenFunc(taskHandler.Get))
				r.Method(http.MethodPut, "/", validated(updateTaskRules()).ThenFunc(taskHandler.Update))
				r.Method(http.MethodDelete, "/", validated(taskIDRules(), models.RoleAdmin).ThenFunc(taskHandler.Delete))
			})
		})

		r.Route("/milestones", func(r chi.Router) {
			r.Method(http.MethodGet, "/", authed.ThenFunc(milestoneHandler.List))
			r.Method(http.MethodPost, "/", validated(createMilestoneRules()).ThenFunc(milestoneHandler.Create))
			r.Route("/{id}", func(r chi.Router) {
				r.Method(http.MethodGet, "/", validated(milestoneIDRules()).ThenFunc(milestoneHandler.Get))
				r.Method(http.MethodPut, "/", validated(updateMilestoneRules()).ThenFunc(milestoneHandler.Update))
				r.Method(http.MethodDelete, "/", validated(milestoneIDRules(), models.RoleAdmin).ThenFunc(milestoneHandler.Delete))
			})
		})

		r.Method(http.MethodGet, "/stars", pipeline.New(g.OptionalAuthenticate()).ThenFunc(starHandler.List))

		// Board change feed
		if d.Hub != nil {
			eventHandler := handlers.NewEventHandler(d.Hub, d.Config.CORSOrigins)
			r.Method(http.MethodGet, "/events", authed.ThenFunc(eventHandler.Serve))
		}
	})

	return r
}
