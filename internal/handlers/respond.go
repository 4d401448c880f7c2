// Package handlers adapts HTTP requests to the service layer.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/middleware"
	"github.com/nikhil/taskflow/pkg/utils"
)

// respondWithError maps err to its status and writes the error body.
// Unexpected errors are logged with the request id and hidden from the
// caller.
func respondWithError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	code := apperrors.StatusCode(err)
	if code == http.StatusInternalServerError {
		log.WithContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
	}
	utils.RespondWithError(w, r, code, apperrors.Message(err))
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Invalid("Invalid request body")
	}
	return nil
}

// pathID parses the named mux variable as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Invalid("Invalid %s", name)
	}
	return id, nil
}

// currentUserID returns the authenticated user's id.
func currentUserID(r *http.Request) (int64, error) {
	claims, ok := middleware.CurrentUser(r.Context())
	if !ok {
		return 0, apperrors.New(apperrors.ErrUnauthorized, "Invalid token")
	}
	return claims.UserID, nil
}

// serve runs fn as the authenticated user and writes its result with
// status. A nil result writes the status alone.
func serve(w http.ResponseWriter, r *http.Request, log *logger.Logger, status int, fn func(userID int64) (interface{}, error)) {
	userID, err := currentUserID(r)
	if err != nil {
		respondWithError(w, r, log, err)
		return
	}
	result, err := fn(userID)
	if err != nil {
		respondWithError(w, r, log, err)
		return
	}
	utils.RespondWithJSON(w, status, result)
}
