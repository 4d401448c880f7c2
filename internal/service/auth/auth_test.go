package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/config"
	"github.com/nikhil/taskflow/internal/logger"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/store"
	"github.com/nikhil/taskflow/internal/store/memstore"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (m *captureMailer) SendVerificationEmail(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[to] = code
	return nil
}

func (m *captureMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

func newTestService() (*AuthService, *captureMailer) {
	m := &captureMailer{}
	tokens := NewTokenIssuer(config.JWTConfig{Secret: "test-secret", Expiration: time.Hour})
	return NewAuthService(memstore.New(), tokens, m, 24*time.Hour, logger.NewNop()), m
}

// setCode replaces the pending code of email.
func setCode(t *testing.T, svc *AuthService, email, code string) {
	t.Helper()
	ctx := context.Background()
	err := svc.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := tx.Tokens().DeleteByUser(ctx, user.UserID); err != nil {
			return err
		}
		return tx.Tokens().Create(ctx, &usermodels.VerificationToken{
			UserID:    user.UserID,
			Code:      code,
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		})
	})
	if err != nil {
		t.Fatal(err)
	}
}

var ada = usermodels.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "analytical"}

func TestRegisterVerifyAuthenticate(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()

	res, err := svc.Register(ctx, ada)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token != "" || res.User.Email != "ada@example.com" {
		t.Errorf("unexpected register response %+v", res)
	}

	_, err = svc.Authenticate(ctx, usermodels.AuthenticationRequest{Email: ada.Email, Password: ada.Password})
	if !errors.Is(err, apperrors.ErrEmailNotVerified) {
		t.Fatalf("expected unverified error, got %v", err)
	}

	code := m.code("ada@example.com")
	if len(code) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", code)
	}
	verified, err := svc.VerifyEmail(ctx, "ada@example.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	claims, err := svc.Tokens.Parse(verified.Token)
	if err != nil || claims.UserID != verified.User.UserID || claims.Subject != "ada@example.com" {
		t.Fatalf("bad token from verify: %+v, %v", claims, err)
	}

	res, err = svc.Authenticate(ctx, usermodels.AuthenticationRequest{Email: "ada@example.com", Password: ada.Password})
	if err != nil || res.Token == "" {
		t.Fatalf("authenticate: %+v, %v", res, err)
	}

	if _, err := svc.VerifyEmail(ctx, "ada@example.com", code); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("code reused: %v", err)
	}
	if _, err := svc.ResendVerification(ctx, "ada@example.com"); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("expected conflict on resend for verified user, got %v", err)
	}
}

func TestRegisterRejects(t *testing.T) {
	tests := []struct {
		description string
		req         usermodels.RegisterRequest
		expected    error
	}{
		{description: "missing email", req: usermodels.RegisterRequest{Password: "secret1"}, expected: apperrors.ErrValidation},
		{description: "short password", req: usermodels.RegisterRequest{Email: "a@b.c", Password: "abc"}, expected: apperrors.ErrValidation},
		{description: "duplicate email", req: usermodels.RegisterRequest{Email: "ADA@example.com", Password: "secret1"}, expected: apperrors.ErrConflict},
	}

	svc, _ := newTestService()
	if _, err := svc.Register(context.Background(), ada); err != nil {
		t.Fatal(err)
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.req); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestRegisterRollsBackWhenMailFails(t *testing.T) {
	svc, m := newTestService()
	m.err = errors.New("smtp down")

	if _, err := svc.Register(context.Background(), ada); err == nil {
		t.Fatal("expected mail error")
	}
	m.err = nil
	if _, err := svc.Register(context.Background(), ada); err != nil {
		t.Fatalf("account was kept after failed mail: %v", err)
	}
}

func TestAuthenticateBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, ada); err != nil {
		t.Fatal(err)
	}

	for _, req := range []usermodels.AuthenticationRequest{
		{Email: "ada@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: ada.Password},
	} {
		if _, err := svc.Authenticate(ctx, req); !errors.Is(err, apperrors.ErrUnauthorized) {
			t.Errorf("%s: expected unauthorized, got %v", req.Email, err)
		}
	}
}

func TestExpiredCodeIsDeleted(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, ada); err != nil {
		t.Fatal(err)
	}
	code := m.code("ada@example.com")

	svc.now = func() time.Time { return time.Now().UTC().Add(25 * time.Hour) }
	if _, err := svc.VerifyEmail(ctx, "ada@example.com", code); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected expiry error, got %v", err)
	}
	svc.now = func() time.Time { return time.Now().UTC() }
	if _, err := svc.VerifyEmail(ctx, "ada@example.com", code); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expired code was not deleted: %v", err)
	}

	if _, err := svc.ResendVerification(ctx, "ada@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	fresh := m.code("ada@example.com")
	if _, err := svc.VerifyEmail(ctx, "ada@example.com", fresh); err != nil {
		t.Fatalf("verify with resent code: %v", err)
	}
}

func TestVerifyRejectsCodeOfAnotherEmail(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, ada); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.VerifyEmail(ctx, "grace@example.com", m.code("ada@example.com")); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected invalid code, got %v", err)
	}
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenIssuer(config.JWTConfig{Secret: "one", Expiration: time.Minute})
	other := NewTokenIssuer(config.JWTConfig{Secret: "two", Expiration: time.Minute})

	token, err := other.Issue(1, "a@b.c")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("foreign signature accepted: %v", err)
	}

	token, _ = issuer.Issue(1, "a@b.c")
	issuer.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := issuer.Parse(token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("expired token accepted: %v", err)
	}
	if _, err := issuer.Parse("not-a-token"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("garbage accepted: %v", err)
	}
}

func TestVerifyWhenUsersShareACode(t *testing.T) {
	svc, m := newTestService()
	ctx := context.Background()
	grace := usermodels.RegisterRequest{Email: "grace@example.com", Password: "compiler"}
	for _, req := range []usermodels.RegisterRequest{ada, grace} {
		if _, err := svc.Register(ctx, req); err != nil {
			t.Fatal(err)
		}
	}
	shared := m.code("ada@example.com")
	setCode(t, svc, "grace@example.com", shared)

	for _, email := range []string{"grace@example.com", "ada@example.com"} {
		res, err := svc.VerifyEmail(ctx, email, shared)
		if err != nil {
			t.Fatalf("verify %s: %v", email, err)
		}
		if res.User.Email != email {
			t.Errorf("verified %s, expected %s", res.User.Email, email)
		}
	}
}
