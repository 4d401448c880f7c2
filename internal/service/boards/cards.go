package boards

import (
	"context"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/ordering"
	"github.com/nikhil/taskflow/internal/store"
)

type CardService struct {
	Store    store.Store
	Ordering *ordering.Maintainer
	Events   Publisher
	Log      *logger.Logger
}

func NewCardService(st store.Store, ord *ordering.Maintainer, events Publisher, log *logger.Logger) *CardService {
	return &CardService{Store: st, Ordering: ord, Events: events, Log: log.Service("card-service")}
}

func (s *CardService) ListByList(ctx context.Context, userID, listID int64) ([]*models.Card, error) {
	var cards []*models.Card
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := authorizeList(ctx, tx, userID, listID); err != nil {
			return err
		}
		var err error
		cards, err = tx.Cards().ListByList(ctx, listID)
		return err
	})
	return cards, err
}

func (s *CardService) Create(ctx context.Context, userID int64, req models.CreateCardRequest) (*models.Card, error) {
	title, err := required(req.Title, "Title")
	if err != nil {
		return nil, err
	}

	card := &models.Card{ListID: req.ListID, Title: title, DueDate: req.DueDate}
	if req.Description != nil {
		card.Description = *req.Description
	}

	var boardID int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if boardID, err = authorizeList(ctx, tx, userID, req.ListID); err != nil {
			return err
		}
		position, err := s.Ordering.Insert(ctx, tx.Cards(), req.ListID, req.Position)
		if err != nil {
			return err
		}
		card.Position = position
		return tx.Cards().Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventCardCreated, boardID, card)
	return card, nil
}

// Update edits the card. A listId different from the current list moves
// the card there, at position or at the end; otherwise a position moves it
// within its list. Description and due date change only when present.
func (s *CardService) Update(ctx context.Context, userID, cardID int64, req models.CreateCardRequest) (*models.Card, error) {
	title, err := required(req.Title, "Title")
	if err != nil {
		return nil, err
	}

	var (
		card               *models.Card
		fromBoard, toBoard int64
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if fromBoard, err = authorizeCard(ctx, tx, userID, cardID); err != nil {
			return err
		}
		if card, err = tx.Cards().GetByID(ctx, cardID); err != nil {
			return err
		}
		toBoard = fromBoard

		switch {
		case req.ListID != 0 && req.ListID != card.ListID:
			if toBoard, err = authorizeList(ctx, tx, userID, req.ListID); err != nil {
				return err
			}
			if card.Position, err = s.Ordering.Transfer(ctx, tx.Cards(), card.ListID, req.ListID, cardID, req.Position); err != nil {
				return err
			}
			card.ListID = req.ListID
		case req.Position != nil:
			if card.Position, err = s.Ordering.Move(ctx, tx.Cards(), card.ListID, cardID, *req.Position); err != nil {
				return err
			}
		}

		card.Title = title
		if req.Description != nil {
			card.Description = *req.Description
		}
		if req.DueDate != nil {
			card.DueDate = req.DueDate
		}
		return tx.Cards().Update(ctx, card)
	})
	if err != nil {
		return nil, err
	}

	if toBoard != fromBoard {
		publish(s.Events, models.EventCardDeleted, fromBoard, map[string]int64{"id": cardID})
	}
	publish(s.Events, models.EventCardUpdated, toBoard, card)
	return card, nil
}

// Delete removes the card with its checklist and comments and closes the
// gap in its list.
func (s *CardService) Delete(ctx context.Context, userID, cardID int64) error {
	var boardID int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if boardID, err = authorizeCard(ctx, tx, userID, cardID); err != nil {
			return err
		}
		card, err := tx.Cards().GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		return s.Ordering.Delete(ctx, tx.Cards(), card.ListID, cardID)
	})
	if err != nil {
		return err
	}

	publish(s.Events, models.EventCardDeleted, boardID, map[string]int64{"id": cardID})
	return nil
}

// Details returns the card with its checklist in position order and its
// comments newest first.
func (s *CardService) Details(ctx context.Context, userID, cardID int64) (*models.Card, error) {
	var card *models.Card
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := authorizeCard(ctx, tx, userID, cardID); err != nil {
			return err
		}
		var err error
		if card, err = tx.Cards().GetByID(ctx, cardID); err != nil {
			return err
		}
		if card.ChecklistItems, err = tx.ChecklistItems().ListByCard(ctx, cardID); err != nil {
			return err
		}
		card.Comments, err = tx.Comments().ListByCard(ctx, cardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}
