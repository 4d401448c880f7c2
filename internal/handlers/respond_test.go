package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/pkg/utils"
)

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		description string
		err         error
		status      int
		message     string
	}{
		{description: "not found", err: apperrors.NotFound("card"), status: http.StatusNotFound, message: "card not found"},
		{description: "invalid position", err: apperrors.New(apperrors.ErrInvalidPosition, "position -1 is out of range"), status: http.StatusBadRequest, message: "position -1 is out of range"},
		{description: "internal error is hidden", err: errors.New("dial tcp: connection refused"), status: http.StatusInternalServerError, message: "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cards/1", nil), logger.NewNop(), tc.err)

			var body utils.APIError
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tc.status || body.Message != tc.message {
				t.Errorf("got %d %q, expected %d %q", rec.Code, body.Message, tc.status, tc.message)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		description string
		value       string
		expected    int64
		fails       bool
	}{
		{description: "valid", value: "42", expected: 42},
		{description: "zero", value: "0", fails: true},
		{description: "not a number", value: "abc", fails: true},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tc.value})
			id, err := pathID(req, "id")
			if tc.fails {
				if !errors.Is(err, apperrors.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil || id != tc.expected {
				t.Errorf("got %d, %v", id, err)
			}
		})
	}
}

func TestServeRequiresUser(t *testing.T) {
	rec := httptest.NewRecorder()
	called := false
	serve(rec, httptest.NewRequest(http.MethodGet, "/", nil), logger.NewNop(), http.StatusOK, func(int64) (interface{}, error) {
		called = true
		return nil, nil
	})
	if called || rec.Code != http.StatusUnauthorized {
		t.Errorf("called=%v status=%d", called, rec.Code)
	}
}
