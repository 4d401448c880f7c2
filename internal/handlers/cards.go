package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/service/boards"
)

type CardHandler struct {
	Service *boards.CardService
	Log     *logger.Logger
}

func NewCardHandler(service *boards.CardService, log *logger.Logger) *CardHandler {
	return &CardHandler{Service: service, Log: log.Service("card-handler")}
}

func (h *CardHandler) ListByList(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		listID, err := pathID(r, "listId")
		if err != nil {
			return nil, err
		}
		return h.Service.ListByList(r.Context(), userID, listID)
	})
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusCreated, func(userID int64) (interface{}, error) {
		var req models.CreateCardRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Create(r.Context(), userID, req)
	})
}

// Update also moves the card when the body carries a position or a
// different listId.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		cardID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var req models.CreateCardRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Update(r.Context(), userID, cardID, req)
	})
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusNoContent, func(userID int64) (interface{}, error) {
		cardID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return nil, h.Service.Delete(r.Context(), userID, cardID)
	})
}

func (h *CardHandler) Details(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		cardID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return h.Service.Details(r.Context(), userID, cardID)
	})
}
