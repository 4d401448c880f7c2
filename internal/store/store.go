// Package store defines the persistence contracts shared by the MySQL and
// in-memory implementations.
package store

import (
	"context"

	"github.com/nikhil/taskflow/internal/models"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/ordering"
)

// Store runs units of work. Every repository call happens inside WithTx:
// fn's error rolls the transaction back, a nil error commits it.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

type Tx interface {
	Users() UserRepository
	Tokens() TokenRepository
	Boards() BoardRepository
	Lists() ListRepository
	Cards() CardRepository
	ChecklistItems() ChecklistItemRepository
	Comments() CommentRepository
}

type UserRepository interface {
	Create(ctx context.Context, user *usermodels.User) error
	GetByID(ctx context.Context, id int64) (*usermodels.User, error)
	// GetByEmail returns apperrors.ErrNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*usermodels.User, error)
	Update(ctx context.Context, user *usermodels.User) error
}

type TokenRepository interface {
	Create(ctx context.Context, token *usermodels.VerificationToken) error
	// GetByUserAndCode returns apperrors.ErrNotFound unless userID holds code.
	GetByUserAndCode(ctx context.Context, userID int64, code string) (*usermodels.VerificationToken, error)
	DeleteByUser(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64) error
}

type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByID(ctx context.Context, id int64) (*models.Board, error)
	// ListByOwner returns the owner's boards, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	// Delete removes the board with its lists, cards, checklist items and comments.
	Delete(ctx context.Context, id int64) error
	OwnerOf(ctx context.Context, boardID int64) (int64, error)
}

// ListRepository positions lists within a board. Its ordering.Family parent
// is the board.
type ListRepository interface {
	ordering.Family
	Create(ctx context.Context, list *models.BoardList) error
	GetByID(ctx context.Context, id int64) (*models.BoardList, error)
	ListByBoard(ctx context.Context, boardID int64) ([]*models.BoardList, error)
	Update(ctx context.Context, list *models.BoardList) error
	// OwnerOf resolves the owning user and board of a list in one lookup.
	OwnerOf(ctx context.Context, listID int64) (ownerID, boardID int64, err error)
}

// CardRepository positions cards within a list and can move them across
// lists.
type CardRepository interface {
	ordering.Reparenter
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	ListByList(ctx context.Context, listID int64) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	OwnerOf(ctx context.Context, cardID int64) (ownerID, boardID int64, err error)
}

// ChecklistItemRepository positions checklist items within a card.
type ChecklistItemRepository interface {
	ordering.Family
	Create(ctx context.Context, item *models.ChecklistItem) error
	GetByID(ctx context.Context, id int64) (*models.ChecklistItem, error)
	ListByCard(ctx context.Context, cardID int64) ([]*models.ChecklistItem, error)
	Update(ctx context.Context, item *models.ChecklistItem) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	// ListByCard returns comments newest first with Author populated.
	ListByCard(ctx context.Context, cardID int64) ([]*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}
