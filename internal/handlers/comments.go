package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/service/boards"
)

type CommentHandler struct {
	Service *boards.CommentService
	Log     *logger.Logger
}

func NewCommentHandler(service *boards.CommentService, log *logger.Logger) *CommentHandler {
	return &CommentHandler{Service: service, Log: log.Service("comment-handler")}
}

func (h *CommentHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		cardID, err := pathID(r, "cardId")
		if err != nil {
			return nil, err
		}
		return h.Service.ListByCard(r.Context(), userID, cardID)
	})
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusCreated, func(userID int64) (interface{}, error) {
		var req models.CreateCommentRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Create(r.Context(), userID, req)
	})
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusNoContent, func(userID int64) (interface{}, error) {
		commentID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return nil, h.Service.Delete(r.Context(), userID, commentID)
	})
}
