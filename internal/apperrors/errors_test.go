package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		description string
		err         error
		expected    int
	}{
		{description: "nil", err: nil, expected: http.StatusOK},
		{description: "not found", err: NotFound("card"), expected: http.StatusNotFound},
		{description: "forbidden", err: Forbidden("not your board"), expected: http.StatusForbidden},
		{description: "unverified", err: ErrEmailNotVerified, expected: http.StatusForbidden},
		{description: "position", err: fmt.Errorf("move: %w", ErrInvalidPosition), expected: http.StatusBadRequest},
		{description: "validation", err: Invalid("title is required"), expected: http.StatusBadRequest},
		{description: "credentials", err: ErrUnauthorized, expected: http.StatusUnauthorized},
		{description: "conflict", err: ErrConflict, expected: http.StatusConflict},
		{description: "internal", err: errors.New("connection reset"), expected: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := StatusCode(tc.err); got != tc.expected {
			t.Errorf("(%s) got %d, expected %d", tc.description, got, tc.expected)
		}
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	if got := Message(errors.New("dial tcp 10.0.0.3:3306: refused")); got != "An unexpected error occurred" {
		t.Errorf("internal error leaked: %q", got)
	}
	if got := Message(NotFound("board")); got != "board not found" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestWrappedKindsStillMatch(t *testing.T) {
	err := fmt.Errorf("update card: %w", NotFound("list"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("wrapped not found does not match ErrNotFound")
	}
	if err.Error() != "update card: list not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
