package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/taskflow/internal/handlers"
	"github.com/nikhil/taskflow/internal/middleware"
)

func RegisterAuthRoutes(router *mux.Router, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Log)

	// Public routes without auth middleware
	publicRouter := router.PathPrefix("/auth").Subrouter()
	publicRouter.Use(middleware.ResponseWrapperMiddleware)
	publicRouter.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	publicRouter.HandleFunc("/authenticate", authHandler.Authenticate).Methods(http.MethodPost)
	publicRouter.HandleFunc("/verify", authHandler.Verify).Methods(http.MethodPost)
	publicRouter.HandleFunc("/resend-verification", authHandler.ResendVerification).Methods(http.MethodPost)
}

func UserProfileRoutes(router *mux.Router, deps *Dependencies) {
	profileHandler := handlers.NewProfileHandler(deps.Profiles, deps.Log)

	protectedRouter := router.PathPrefix("/users").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware(deps.Tokens), middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/me", profileHandler.GetProfile).Methods(http.MethodGet)
	protectedRouter.HandleFunc("/me", profileHandler.UpdateProfile).Methods(http.MethodPut)
}
