package mysqlstore

import (
	"context"

	"github.com/nikhil/taskflow/internal/apperrors"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
)

type userRepo struct{ t *txn }

const userColumns = "user_id, email, password, first_name, last_name, enabled, created_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*usermodels.User, error) {
	var u usermodels.User
	err := row.Scan(&u.UserID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Enabled, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r userRepo) Create(ctx context.Context, user *usermodels.User) error {
	user.CreatedAt = r.t.now()
	query := `INSERT INTO users (email, password, first_name, last_name, enabled, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, user.Email, user.Password, user.FirstName, user.LastName, user.Enabled, user.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return apperrors.New(apperrors.ErrConflict, "Email already registered")
		}
		return err
	}
	user.UserID, err = res.LastInsertId()
	return err
}

func (r userRepo) GetByID(ctx context.Context, id int64) (*usermodels.User, error) {
	return scanUser(r.t.tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = ?", id))
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*usermodels.User, error) {
	return scanUser(r.t.tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

func (r userRepo) Update(ctx context.Context, user *usermodels.User) error {
	query := `UPDATE users SET first_name = ?, last_name = ?, password = ?, enabled = ? WHERE user_id = ?`
	res, err := r.t.tx.ExecContext(ctx, query, user.FirstName, user.LastName, user.Password, user.Enabled, user.UserID)
	if err != nil {
		return err
	}
	return requireAffected(res, "user")
}

type tokenRepo struct{ t *txn }

func (r tokenRepo) Create(ctx context.Context, token *usermodels.VerificationToken) error {
	query := `INSERT INTO verification_tokens (user_id, code, expires_at) VALUES (?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, token.UserID, token.Code, token.ExpiresAt)
	if err != nil {
		return err
	}
	token.ID, err = res.LastInsertId()
	return err
}

func (r tokenRepo) GetByUserAndCode(ctx context.Context, userID int64, code string) (*usermodels.VerificationToken, error) {
	var tok usermodels.VerificationToken
	query := `SELECT token_id, user_id, code, expires_at FROM verification_tokens WHERE user_id = ? AND code = ?`
	err := r.t.tx.QueryRowContext(ctx, query, userID, code).Scan(&tok.ID, &tok.UserID, &tok.Code, &tok.ExpiresAt)
	if err != nil {
		return nil, notFound(err, "verification code")
	}
	return &tok, nil
}

func (r tokenRepo) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.t.tx.ExecContext(ctx, `DELETE FROM verification_tokens WHERE user_id = ?`, userID)
	return err
}

func (r tokenRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.t.tx.ExecContext(ctx, `DELETE FROM verification_tokens WHERE token_id = ?`, id)
	return err
}
