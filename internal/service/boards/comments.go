package boards

import (
	"context"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/models"
	"github.com/nikhil/taskflow/internal/store"
)

type CommentService struct {
	Store  store.Store
	Events Publisher
	Log    *logger.Logger
}

func NewCommentService(st store.Store, events Publisher, log *logger.Logger) *CommentService {
	return &CommentService{Store: st, Events: events, Log: log.Service("comment-service")}
}

// ListByCard returns the card's comments newest first.
func (s *CommentService) ListByCard(ctx context.Context, userID, cardID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := authorizeCard(ctx, tx, userID, cardID); err != nil {
			return err
		}
		var err error
		comments, err = tx.Comments().ListByCard(ctx, cardID)
		return err
	})
	return comments, err
}

func (s *CommentService) Create(ctx context.Context, userID int64, req models.CreateCommentRequest) (*models.Comment, error) {
	content, err := required(req.Content, "Content")
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{CardID: req.CardID, AuthorID: userID, Content: content}
	var boardID int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if boardID, err = authorizeCard(ctx, tx, userID, req.CardID); err != nil {
			return err
		}
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return err
		}
		comment.Author, err = tx.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(s.Events, models.EventCommentCreated, boardID, comment)
	return comment, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	var boardID int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		comment, err := tx.Comments().GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment.AuthorID != userID {
			return apperrors.Forbidden("You are not authorized to delete this comment")
		}
		if _, boardID, err = tx.Cards().OwnerOf(ctx, comment.CardID); err != nil {
			return err
		}
		return tx.Comments().Delete(ctx, commentID)
	})
	if err != nil {
		return err
	}

	s.Log.WithContext(ctx).WithUser(userID).Info("Comment deleted", "comment_id", commentID)
	publish(s.Events, models.EventCommentDeleted, boardID, map[string]int64{"id": commentID})
	return nil
}
