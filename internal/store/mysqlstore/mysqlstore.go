// Package mysqlstore implements store.Store on MySQL through database/sql
// and go-sql-driver/mysql.
package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/multierr"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/store"
)

const errDuplicateEntry = 1062

type Store struct {
	DB  *sql.DB
	Log *logger.Logger
	now func() time.Time
}

func New(db *sql.DB, log *logger.Logger) *Store {
	return &Store{
		DB:  db,
		Log: log.Service("mysql-store"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithTx runs fn in one transaction. Rows read through the ordering
// families are locked with SELECT ... FOR UPDATE until commit or rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&txn{tx: sqlTx, now: s.now}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.Log.WithContext(ctx).Error("Failed to roll back transaction", "error", rbErr)
			return multierr.Append(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

type txn struct {
	tx  *sql.Tx
	now func() time.Time
}

func (t *txn) Users() store.UserRepository                   { return userRepo{t} }
func (t *txn) Tokens() store.TokenRepository                 { return tokenRepo{t} }
func (t *txn) Boards() store.BoardRepository                 { return boardRepo{t} }
func (t *txn) Lists() store.ListRepository                   { return listRepo{listFamily(t)} }
func (t *txn) Cards() store.CardRepository                   { return cardRepo{cardFamily(t)} }
func (t *txn) ChecklistItems() store.ChecklistItemRepository { return itemRepo{itemFamily(t)} }
func (t *txn) Comments() store.CommentRepository             { return commentRepo{t} }

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

// notFound maps sql.ErrNoRows to an apperrors not-found error for entity.
func notFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(entity)
	}
	return err
}

// requireAffected turns an UPDATE/DELETE that touched no row into a
// not-found error.
func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(entity)
	}
	return nil
}
