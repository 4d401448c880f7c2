package boards

import (
	"context"

	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/store"
)

const defaultWorkspace = "Personal"

type BoardService struct {
	Store  store.Store
	Events Publisher
	Log    *logger.Logger
}

func NewBoardService(st store.Store, events Publisher, log *logger.Logger) *BoardService {
	return &BoardService{Store: st, Events: events, Log: log.Service("board-service")}
}

// ListBoards returns the user's boards, newest first.
func (s *BoardService) ListBoards(ctx context.Context, userID int64) ([]*models.Board, error) {
	var boards []*models.Board
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		boards, err = tx.Boards().ListByOwner(ctx, userID)
		return err
	})
	return boards, err
}

func (s *BoardService) CreateBoard(ctx context.Context, userID int64, req models.CreateBoardRequest) (*models.Board, error) {
	title, err := required(req.Title, "Title")
	if err != nil {
		return nil, err
	}

	board := &models.Board{OwnerID: userID, Title: title, Workspace: defaultWorkspace}
	if req.BackgroundColor != nil {
		board.BackgroundColor = *req.BackgroundColor
	}
	if req.Workspace != nil {
		board.Workspace = *req.Workspace
	}

	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Boards().Create(ctx, board)
	}); err != nil {
		return nil, err
	}

	s.Log.WithContext(ctx).WithUser(userID).Info("Board created", "board_id", board.ID)
	return board, nil
}

// GetBoard returns the board with its lists and their cards in position
// order.
func (s *BoardService) GetBoard(ctx context.Context, userID, boardID int64) (*models.Board, error) {
	var board *models.Board
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := authorizeBoard(ctx, tx, userID, boardID); err != nil {
			return err
		}
		var err error
		if board, err = tx.Boards().GetByID(ctx, boardID); err != nil {
			return err
		}
		if board.Lists, err = tx.Lists().ListByBoard(ctx, boardID); err != nil {
			return err
		}
		for _, list := range board.Lists {
			if list.Cards, err = tx.Cards().ListByList(ctx, list.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// UpdateBoard replaces the title; background color and workspace change
// only when present in the request.
func (s *BoardService) UpdateBoard(ctx context.Context, userID, boardID int64, req models.CreateBoardRequest) (*models.Board, error) {
	title, err := required(req.Title, "Title")
	if err != nil {
		return nil, err
	}

	var board *models.Board
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := authorizeBoard(ctx, tx, userID, boardID); err != nil {
			return err
		}
		var err error
		if board, err = tx.Boards().GetByID(ctx, boardID); err != nil {
			return err
		}
		board.Title = title
		if req.BackgroundColor != nil {
			board.BackgroundColor = *req.BackgroundColor
		}
		if req.Workspace != nil {
			board.Workspace = *req.Workspace
		}
		return tx.Boards().Update(ctx, board)
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventBoardUpdated, boardID, board)
	return board, nil
}

func (s *BoardService) DeleteBoard(ctx context.Context, userID, boardID int64) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := authorizeBoard(ctx, tx, userID, boardID); err != nil {
			return err
		}
		return tx.Boards().Delete(ctx, boardID)
	})
	if err != nil {
		return err
	}

	s.Log.WithContext(ctx).WithUser(userID).Audit("Board deleted", "board_id", boardID)
	publish(s.Events, models.EventBoardDeleted, boardID, map[string]int64{"id": boardID})
	return nil
}

// Authorize reports whether userID may watch boardID.
func (s *BoardService) Authorize(ctx context.Context, userID, boardID int64) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return authorizeBoard(ctx, tx, userID, boardID)
	})
}
