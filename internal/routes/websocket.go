package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/taskflow/internal/handlers"
	"github.com/nikhil/taskflow/internal/middleware"
)

// RegisterWebSocketRoutes registers all WebSocket related routes
func RegisterWebSocketRoutes(router *mux.Router, deps *Dependencies) {
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Boards, deps.Log)

	// WebSocket endpoint with authentication via query parameter
	router.Handle("/ws", middleware.WebSocketAuthMiddleware(deps.Tokens)(http.HandlerFunc(wsHandler.HandleWebSocket))).Methods(http.MethodGet)
}
