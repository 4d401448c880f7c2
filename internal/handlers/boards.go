package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/service/boards"
)

type BoardHandler struct {
	Service *boards.BoardService
	Log     *logger.Logger
}

func NewBoardHandler(service *boards.BoardService, log *logger.Logger) *BoardHandler {
	return &BoardHandler{Service: service, Log: log.Service("board-handler")}
}

func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		return h.Service.ListBoards(r.Context(), userID)
	})
}

func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusCreated, func(userID int64) (interface{}, error) {
		var req models.CreateBoardRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.CreateBoard(r.Context(), userID, req)
	})
}

func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		boardID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return h.Service.GetBoard(r.Context(), userID, boardID)
	})
}

func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		boardID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var req models.CreateBoardRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.UpdateBoard(r.Context(), userID, boardID, req)
	})
}

func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusNoContent, func(userID int64) (interface{}, error) {
		boardID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return nil, h.Service.DeleteBoard(r.Context(), userID, boardID)
	})
}
