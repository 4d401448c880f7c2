package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nikhil/taskflow/internal/handlers"
	"github.com/nikhil/taskflow/internal/middleware"
)

func protected(router *mux.Router, prefix string, deps *Dependencies) *mux.Router {
	sub := router.PathPrefix(prefix).Subrouter()
	sub.Use(middleware.AuthMiddleware(deps.Tokens), middleware.ResponseWrapperMiddleware)
	return sub
}

func BoardRoutes(router *mux.Router, deps *Dependencies) {
	h := handlers.NewBoardHandler(deps.Boards, deps.Log)
	r := protected(router, "/boards", deps)
	r.HandleFunc("", h.ListBoards).Methods(http.MethodGet)
	r.HandleFunc("", h.CreateBoard).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", h.GetBoard).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.UpdateBoard).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.DeleteBoard).Methods(http.MethodDelete)
}

func ListRoutes(router *mux.Router, deps *Dependencies) {
	h := handlers.NewListHandler(deps.Lists, deps.Log)
	r := protected(router, "/lists", deps)
	r.HandleFunc("/board/{boardId:[0-9]+}", h.ListByBoard).Methods(http.MethodGet)
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func CardRoutes(router *mux.Router, deps *Dependencies) {
	h := handlers.NewCardHandler(deps.Cards, deps.Log)
	r := protected(router, "/cards", deps)
	r.HandleFunc("/list/{listId:[0-9]+}", h.ListByList).Methods(http.MethodGet)
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/{id:[0-9]+}/details", h.Details).Methods(http.MethodGet)
}

func ChecklistRoutes(router *mux.Router, deps *Dependencies) {
	h := handlers.NewChecklistHandler(deps.Checklist, deps.Log)
	r := protected(router, "/checklist-items", deps)
	r.HandleFunc("/card/{cardId:[0-9]+}", h.ListByCard).Methods(http.MethodGet)
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}

func CommentRoutes(router *mux.Router, deps *Dependencies) {
	h := handlers.NewCommentHandler(deps.Comments, deps.Log)
	r := protected(router, "/comments", deps)
	r.HandleFunc("/card/{cardId:[0-9]+}", h.ListByCard).Methods(http.MethodGet)
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
