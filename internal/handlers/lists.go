package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/service/boards"
)

type ListHandler struct {
	Service *boards.ListService
	Log     *logger.Logger
}

func NewListHandler(service *boards.ListService, log *logger.Logger) *ListHandler {
	return &ListHandler{Service: service, Log: log.Service("list-handler")}
}

func (h *ListHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		boardID, err := pathID(r, "boardId")
		if err != nil {
			return nil, err
		}
		return h.Service.ListByBoard(r.Context(), userID, boardID)
	})
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusCreated, func(userID int64) (interface{}, error) {
		var req models.CreateBoardListRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Create(r.Context(), userID, req)
	})
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		listID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var req models.CreateBoardListRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Update(r.Context(), userID, listID, req)
	})
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusNoContent, func(userID int64) (interface{}, error) {
		listID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return nil, h.Service.Delete(r.Context(), userID, listID)
	})
}
