package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/service/boards"
)

type ChecklistHandler struct {
	Service *boards.ChecklistService
	Log     *logger.Logger
}

func NewChecklistHandler(service *boards.ChecklistService, log *logger.Logger) *ChecklistHandler {
	return &ChecklistHandler{Service: service, Log: log.Service("checklist-handler")}
}

func (h *ChecklistHandler) ListByCard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		cardID, err := pathID(r, "cardId")
		if err != nil {
			return nil, err
		}
		return h.Service.ListByCard(r.Context(), userID, cardID)
	})
}

func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusCreated, func(userID int64) (interface{}, error) {
		var req models.CreateChecklistItemRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Create(r.Context(), userID, req)
	})
}

func (h *ChecklistHandler) Update(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusOK, func(userID int64) (interface{}, error) {
		itemID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var req models.CreateChecklistItemRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return h.Service.Update(r.Context(), userID, itemID, req)
	})
}

func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.Log, http.StatusNoContent, func(userID int64) (interface{}, error) {
		itemID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		return nil, h.Service.Delete(r.Context(), userID, itemID)
	})
}
