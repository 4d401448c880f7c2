package boards

import (
	"context"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/ordering"
	"github.com/nikhil/taskflow/internal/store"
)

type ListService struct {
	Store    store.Store
	Ordering *ordering.Maintainer
	Events   Publisher
	Log      *logger.Logger
}

func NewListService(st store.Store, ord *ordering.Maintainer, events Publisher, log *logger.Logger) *ListService {
	return &ListService{Store: st, Ordering: ord, Events: events, Log: log.Service("list-service")}
}

func (s *ListService) ListByBoard(ctx context.Context, userID, boardID int64) ([]*models.BoardList, error) {
	var lists []*models.BoardList
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := authorizeBoard(ctx, tx, userID, boardID); err != nil {
			return err
		}
		var err error
		lists, err = tx.Lists().ListByBoard(ctx, boardID)
		return err
	})
	return lists, err
}

// Create inserts a list at the requested position, or at the end of the
// board when none is given.
func (s *ListService) Create(ctx context.Context, userID int64, req models.CreateBoardListRequest) (*models.BoardList, error) {
	title, err := required(req.Title, "Title")
	if err != nil {
		return nil, err
	}

	list := &models.BoardList{BoardID: req.BoardID, Title: title}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := authorizeBoard(ctx, tx, userID, req.BoardID); err != nil {
			return err
		}
		position, err := s.Ordering.Insert(ctx, tx.Lists(), req.BoardID, req.Position)
		if err != nil {
			return err
		}
		list.Position = position
		return tx.Lists().Create(ctx, list)
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventListCreated, list.BoardID, list)
	return list, nil
}

// Update renames the list and, when a position is given, moves it within
// its board.
func (s *ListService) Update(ctx context.Context, userID, listID int64, req models.CreateBoardListRequest) (*models.BoardList, error) {
	title, err := required(req.Title, "Title")
	if err != nil {
		return nil, err
	}

	var list *models.BoardList
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		boardID, err := authorizeList(ctx, tx, userID, listID)
		if err != nil {
			return err
		}
		if req.Position != nil {
			if _, err := s.Ordering.Move(ctx, tx.Lists(), boardID, listID, *req.Position); err != nil {
				return err
			}
		}
		if list, err = tx.Lists().GetByID(ctx, listID); err != nil {
			return err
		}
		list.Title = title
		return tx.Lists().Update(ctx, list)
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventListUpdated, list.BoardID, list)
	return list, nil
}

// Delete removes the list with its cards and closes the gap it leaves.
func (s *ListService) Delete(ctx context.Context, userID, listID int64) error {
	var boardID int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if boardID, err = authorizeList(ctx, tx, userID, listID); err != nil {
			return err
		}
		return s.Ordering.Delete(ctx, tx.Lists(), boardID, listID)
	})
	if err != nil {
		return err
	}

	publish(s.Events, models.EventListDeleted, boardID, map[string]int64{"id": listID})
	return nil
}
