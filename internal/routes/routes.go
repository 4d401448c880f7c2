package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nikhil/taskflow/internal/config"
	"github.com/nikhil/taskflow/internal/handlers"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/mailer"
	"github.com/nikhil/taskflow/internal/middleware"
	"github.com/nikhil/taskflow/internal/ordering"
	"github.com/nikhil/taskflow/internal/realtime"
	"github.com/nikhil/taskflow/internal/service/auth"
	"github.com/nikhil/taskflow/internal/service/boards"
	"github.com/nikhil/taskflow/internal/service/users"
	"github.com/nikhil/taskflow/internal/store"
	"github.com/nikhil/taskflow/pkg/utils"
)

// Dependencies are the services the route modules mount.
type Dependencies struct {
	Store     store.Store
	Tokens    *auth.TokenIssuer
	Auth      *auth.AuthService
	Profiles  *users.ProfileService
	Boards    *boards.BoardService
	Lists     *boards.ListService
	Cards     *boards.CardService
	Checklist *boards.ChecklistService
	Comments  *boards.CommentService
	Hub       *realtime.Hub
	Log       *logger.Logger
}

// NewDependencies wires the services over one store and hub.
func NewDependencies(cfg *config.Config, st store.Store, m mailer.Mailer, hub *realtime.Hub, log *logger.Logger) *Dependencies {
	tokens := auth.NewTokenIssuer(cfg.JWT)
	ord := ordering.NewMaintainer(log)
	return &Dependencies{
		Store:     st,
		Tokens:    tokens,
		Auth:      auth.NewAuthService(st, tokens, m, cfg.VerificationTTL, log),
		Profiles:  users.NewProfileService(st, log),
		Boards:    boards.NewBoardService(st, hub, log),
		Lists:     boards.NewListService(st, ord, hub, log),
		Cards:     boards.NewCardService(st, ord, hub, log),
		Checklist: boards.NewChecklistService(st, ord, hub, log),
		Comments:  boards.NewCommentService(st, hub, log),
		Hub:       hub,
		Log:       log,
	}
}

// List of all route registration functions, mounted under /api/v1
var routeModules = []func(*mux.Router, *Dependencies){
	RegisterAuthRoutes,
	UserProfileRoutes,
	BoardRoutes,
	ListRoutes,
	CardRoutes,
	ChecklistRoutes,
	CommentRoutes,
}

// RegisterAllRoutes builds the router with every route module.
func RegisterAllRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.AccessLog(deps.Log), middleware.Recoverer(deps.Log))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, r, http.StatusNotFound, "No handler found for "+r.Method+" "+r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method "+r.Method+" is not supported")
	})

	router.HandleFunc("/healthz", handlers.Health(deps.Store)).Methods(http.MethodGet)
	RegisterWebSocketRoutes(router, deps)

	api := router.PathPrefix("/api/v1").Subrouter()
	for _, register := range routeModules {
		register(api, deps)
	}

	return router
}

// NewServer returns the HTTP server for router. There is no write timeout:
// websocket connections stay open for the life of a board view.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
