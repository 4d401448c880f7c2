package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikhil/taskflow/internal/config"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/service/auth"
)

func whoAmI(t *testing.T, seen *int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CurrentUser(r.Context())
		if !ok {
			t.Error("claims missing from context")
			return
		}
		*seen = claims.UserID
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Expiration: time.Hour})
	valid, err := tokens.Issue(42, "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		description string
		header      string
		status      int
		userID      int64
	}{
		{description: "valid bearer", header: "Bearer " + valid, status: http.StatusNoContent, userID: 42},
		{description: "missing header", header: "", status: http.StatusUnauthorized},
		{description: "no bearer prefix", header: valid, status: http.StatusUnauthorized},
		{description: "garbage token", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			var seen int64
			h := AuthMiddleware(tokens)(whoAmI(t, &seen))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/boards", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.status || seen != tc.userID {
				t.Errorf("status %d user %d, expected %d user %d", rec.Code, seen, tc.status, tc.userID)
			}
		})
	}
}

func TestWebSocketAuthReadsQueryToken(t *testing.T) {
	tokens := auth.NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Expiration: time.Hour})
	valid, _ := tokens.Issue(7, "grace@example.com")

	var seen int64
	h := WebSocketAuthMiddleware(tokens)(whoAmI(t, &seen))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?board_id=1&token="+valid, nil))
	if rec.Code != http.StatusNoContent || seen != 7 {
		t.Errorf("status %d user %d", rec.Code, seen)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?board_id=1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	var inner string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = logger.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if inner == "" || rec.Header().Get(RequestIDHeader) != inner {
		t.Errorf("generated id %q, header %q", inner, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if inner != "abc-123" {
		t.Errorf("caller id not reused: %q", inner)
	}
}

func TestRecovererAndAccessLog(t *testing.T) {
	log := logger.NewNop()
	h := AccessLog(log)(Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}
