package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/service/users"
	"github.com/nikhil/taskflow/pkg/utils"
)

type ProfileHandler struct {
	Service *users.ProfileService
	Log     *logger.Logger
}

func NewProfileHandler(service *users.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{Service: service, Log: log.Service("profile-handler")}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	user, err := h.Service.GetProfile(r.Context(), userID)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	var req usermodels.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	user, err := h.Service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
