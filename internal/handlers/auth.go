package handlers

import (
	"net/http"

	"github.com/nikhil/taskflow/internal/logger"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/service/auth"
	"github.com/nikhil/taskflow/pkg/utils"
)

type AuthHandler struct {
	Service *auth.AuthService
	Log     *logger.Logger
}

func NewAuthHandler(service *auth.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Service: service, Log: log.Service("auth-handler")}
}

// Register handles the user registration request
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usermodels.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	res, err := h.Service.Register(r.Context(), req)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, res)
}

// Authenticate handles the login request
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req usermodels.AuthenticationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	res, err := h.Service.Authenticate(r.Context(), req)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Service.VerifyEmail(r.Context(), q.Get("email"), q.Get("code"))
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.ResendVerification(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
