package boards

import (
	"context"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/ordering"
	"github.com/nikhil/taskflow/internal/store"
)

type ChecklistService struct {
	Store    store.Store
	Ordering *ordering.Maintainer
	Events   Publisher
	Log      *logger.Logger
}

func NewChecklistService(st store.Store, ord *ordering.Maintainer, events Publisher, log *logger.Logger) *ChecklistService {
	return &ChecklistService{Store: st, Ordering: ord, Events: events, Log: log.Service("checklist-service")}
}

func (s *ChecklistService) ListByCard(ctx context.Context, userID, cardID int64) ([]*models.ChecklistItem, error) {
	var items []*models.ChecklistItem
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := authorizeCard(ctx, tx, userID, cardID); err != nil {
			return err
		}
		var err error
		items, err = tx.ChecklistItems().ListByCard(ctx, cardID)
		return err
	})
	return items, err
}

func (s *ChecklistService) Create(ctx context.Context, userID int64, req models.CreateChecklistItemRequest) (*models.ChecklistItem, error) {
	content, err := required(req.Content, "Content")
	if err != nil {
		return nil, err
	}

	item := &models.ChecklistItem{CardID: req.CardID, Content: content, Completed: req.Completed}
	var boardID int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if boardID, err = authorizeCard(ctx, tx, userID, req.CardID); err != nil {
			return err
		}
		position, err := s.Ordering.Insert(ctx, tx.ChecklistItems(), req.CardID, req.Position)
		if err != nil {
			return err
		}
		item.Position = position
		return tx.ChecklistItems().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventChecklistCreated, boardID, item)
	return item, nil
}

// Update sets content and completion and, when a position is given, moves
// the item within its card.
func (s *ChecklistService) Update(ctx context.Context, userID, itemID int64, req models.CreateChecklistItemRequest) (*models.ChecklistItem, error) {
	content, err := required(req.Content, "Content")
	if err != nil {
		return nil, err
	}

	var (
		item    *models.ChecklistItem
		boardID int64
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if item, err = tx.ChecklistItems().GetByID(ctx, itemID); err != nil {
			return err
		}
		if boardID, err = authorizeCard(ctx, tx, userID, item.CardID); err != nil {
			return err
		}
		if req.Position != nil {
			if item.Position, err = s.Ordering.Move(ctx, tx.ChecklistItems(), item.CardID, itemID, *req.Position); err != nil {
				return err
			}
		}
		item.Content = content
		item.Completed = req.Completed
		return tx.ChecklistItems().Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventChecklistUpdated, boardID, item)
	return item, nil
}

func (s *ChecklistService) Delete(ctx context.Context, userID, itemID int64) error {
	var boardID int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		item, err := tx.ChecklistItems().GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if boardID, err = authorizeCard(ctx, tx, userID, item.CardID); err != nil {
			return err
		}
		return s.Ordering.Delete(ctx, tx.ChecklistItems(), item.CardID, itemID)
	})
	if err != nil {
		return err
	}

	publish(s.Events, models.EventChecklistDeleted, boardID, map[string]int64{"id": itemID})
	return nil
}
