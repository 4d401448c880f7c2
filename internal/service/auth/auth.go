// Package auth registers users, verifies their email address and issues
// access tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/mailer"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/store"
	"github.com/nikhil/taskflow/pkg/utils"
)

const minPasswordLength = 6

type AuthService struct {
	Store           store.Store
	Tokens          *TokenIssuer
	Mailer          mailer.Mailer
	VerificationTTL time.Duration
	Log             *logger.Logger
	now             func() time.Time
}

func NewAuthService(st store.Store, tokens *TokenIssuer, m mailer.Mailer, verificationTTL time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		Store:           st,
		Tokens:          tokens,
		Mailer:          m,
		VerificationTTL: verificationTTL,
		Log:             log.Service("auth-service"),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a disabled account and mails it a verification code.
// The account cannot authenticate until VerifyEmail succeeds.
func (s *AuthService) Register(ctx context.Context, req usermodels.RegisterRequest) (*usermodels.AuthenticationResponse, error) {
	email := normalizeEmail(req.Email)
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &usermodels.User{
		Email:     email,
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		// The mail is sent last so a delivery failure rolls the account back.
		return s.sendCode(ctx, tx, user)
	})
	if err != nil {
		s.Log.WithContext(ctx).Warn("Registration failed", "email", email, "error", err)
		return nil, err
	}

	s.Log.WithContext(ctx).WithUser(user.UserID).Audit("User registered", "email", email)
	return &usermodels.AuthenticationResponse{
		Message: "Registration successful. Please check your email for the verification code.",
		User:    user,
	}, nil
}

// Authenticate checks the credentials of a verified user and returns a token.
func (s *AuthService) Authenticate(ctx context.Context, req usermodels.AuthenticationRequest) (*usermodels.AuthenticationResponse, error) {
	email := normalizeEmail(req.Email)
	badCredentials := apperrors.New(apperrors.ErrUnauthorized, "Invalid email or password")

	var user *usermodels.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetByEmail(ctx, email)
		return err
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, badCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		s.Log.WithContext(ctx).Warn("Failed login attempt", "email", email)
		return nil, badCredentials
	}
	if !user.Enabled {
		return nil, apperrors.New(apperrors.ErrEmailNotVerified, "Please verify your email before logging in")
	}

	token, err := s.Tokens.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}
	s.Log.WithContext(ctx).WithUser(user.UserID).Info("User authenticated")
	return &usermodels.AuthenticationResponse{Token: token, User: user}, nil
}

// VerifyEmail enables the account of email when code is its pending code
// and returns a token. An
// expired code is deleted and must be resent.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*usermodels.AuthenticationResponse, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, apperrors.Invalid("Email and verification code are required")
	}
	invalidCode := apperrors.Invalid("Invalid verification code")

	var (
		user    *usermodels.User
		expired bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetByEmail(ctx, email)
		if errors.Is(err, apperrors.ErrNotFound) {
			return invalidCode
		}
		if err != nil {
			return err
		}

		// Codes are not unique across users, so the lookup is per user.
		token, err := tx.Tokens().GetByUserAndCode(ctx, user.UserID, code)
		if errors.Is(err, apperrors.ErrNotFound) {
			return invalidCode
		}
		if err != nil {
			return err
		}

		if token.Expired(s.now()) {
			expired = true
			return tx.Tokens().Delete(ctx, token.ID)
		}

		user.Enabled = true
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		return tx.Tokens().Delete(ctx, token.ID)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, apperrors.Invalid("Verification code has expired. Please request a new one.")
	}

	token, err := s.Tokens.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}
	s.Log.WithContext(ctx).WithUser(user.UserID).Audit("Email verified")
	return &usermodels.AuthenticationResponse{
		Token:   token,
		Message: "Email verified successfully",
		User:    user,
	}, nil
}

// ResendVerification replaces the pending code of an unverified account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (*usermodels.AuthenticationResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.Invalid("Email is required")
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.Enabled {
			return apperrors.New(apperrors.ErrConflict, "Email is already verified")
		}
		if err := tx.Tokens().DeleteByUser(ctx, user.UserID); err != nil {
			return err
		}
		return s.sendCode(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return &usermodels.AuthenticationResponse{Message: "Verification code sent"}, nil
}

func (s *AuthService) sendCode(ctx context.Context, tx store.Tx, user *usermodels.User) error {
	code, err := utils.VerificationCode()
	if err != nil {
		return err
	}
	token := &usermodels.VerificationToken{
		UserID:    user.UserID,
		Code:      code,
		ExpiresAt: s.now().Add(s.VerificationTTL),
	}
	if err := tx.Tokens().Create(ctx, token); err != nil {
		return err
	}
	return s.Mailer.SendVerificationEmail(ctx, user.Email, code)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.Invalid("A valid email is required")
	}
	if len(password) < minPasswordLength {
		return apperrors.Invalid("Password must be at least %d characters", minPasswordLength)
	}
	return nil
}
