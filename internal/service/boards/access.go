// Package boards implements the board, list, card, checklist and comment
// operations. Every operation checks that the requester owns the board the
// entity belongs to and runs in a single store transaction.
package boards

import (
	"context"
	"strings"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/store"
)

// Publisher receives board events once the transaction that produced them
// has committed.
type Publisher interface {
	Publish(event models.Event)
}

func publish(p Publisher, eventType string, boardID int64, payload interface{}) {
	if p == nil {
		return
	}
	p.Publish(models.Event{Type: eventType, BoardID: boardID, Payload: payload})
}

func checkOwner(ownerID, userID int64, entity string) error {
	if ownerID != userID {
		return apperrors.Forbidden("You do not have access to this " + entity)
	}
	return nil
}

func authorizeBoard(ctx context.Context, tx store.Tx, userID, boardID int64) error {
	ownerID, err := tx.Boards().OwnerOf(ctx, boardID)
	if err != nil {
		return err
	}
	return checkOwner(ownerID, userID, "board")
}

// authorizeList returns the board the list belongs to.
func authorizeList(ctx context.Context, tx store.Tx, userID, listID int64) (int64, error) {
	ownerID, boardID, err := tx.Lists().OwnerOf(ctx, listID)
	if err != nil {
		return 0, err
	}
	return boardID, checkOwner(ownerID, userID, "board")
}

// authorizeCard returns the board the card belongs to.
func authorizeCard(ctx context.Context, tx store.Tx, userID, cardID int64) (int64, error) {
	ownerID, boardID, err := tx.Cards().OwnerOf(ctx, cardID)
	if err != nil {
		return 0, err
	}
	return boardID, checkOwner(ownerID, userID, "board")
}

func required(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.Invalid("%s is required", field)
	}
	return value, nil
}
