package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/models"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/store"
)

func seedBoard(t *testing.T, s *Store) (owner, board, list, card int64) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		ctx := context.Background()
		u := &usermodels.User{Email: "ada@example.com", Password: "x"}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		b := &models.Board{OwnerID: u.UserID, Title: "Roadmap", Workspace: "Personal"}
		if err := tx.Boards().Create(ctx, b); err != nil {
			return err
		}
		l := &models.BoardList{BoardID: b.ID, Title: "Todo"}
		if err := tx.Lists().Create(ctx, l); err != nil {
			return err
		}
		c := &models.Card{ListID: l.ID, Title: "Write docs"}
		if err := tx.Cards().Create(ctx, c); err != nil {
			return err
		}
		if err := tx.ChecklistItems().Create(ctx, &models.ChecklistItem{CardID: c.ID, Content: "outline"}); err != nil {
			return err
		}
		if err := tx.Comments().Create(ctx, &models.Comment{CardID: c.ID, AuthorID: u.UserID, Content: "on it"}); err != nil {
			return err
		}
		owner, board, list, card = u.UserID, b.ID, l.ID, c.ID
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return owner, board, list, card
}

func TestRollbackDiscardsWrites(t *testing.T) {
	s := New()
	_, board, _, _ := seedBoard(t, s)
	boom := errors.New("boom")

	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		if err := tx.Lists().Create(context.Background(), &models.BoardList{BoardID: board, Title: "Doing", Position: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_ = s.WithTx(context.Background(), func(tx store.Tx) error {
		lists, _ := tx.Lists().ListByBoard(context.Background(), board)
		if len(lists) != 1 {
			t.Errorf("rolled back list is visible: %d lists", len(lists))
		}
		return nil
	})
}

func TestBoardDeleteCascades(t *testing.T) {
	s := New()
	_, board, list, card := seedBoard(t, s)
	ctx := context.Background()

	if err := s.WithTx(ctx, func(tx store.Tx) error { return tx.Boards().Delete(ctx, board) }); err != nil {
		t.Fatal(err)
	}

	_ = s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Lists().GetByID(ctx, list); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("list survived board delete: %v", err)
		}
		if _, err := tx.Cards().GetByID(ctx, card); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("card survived board delete: %v", err)
		}
		items, _ := tx.ChecklistItems().ListByCard(ctx, card)
		comments, _ := tx.Comments().ListByCard(ctx, card)
		if len(items)+len(comments) != 0 {
			t.Errorf("children survived: %d items, %d comments", len(items), len(comments))
		}
		return nil
	})
}

func TestOwnerLookups(t *testing.T) {
	s := New()
	owner, board, list, card := seedBoard(t, s)
	ctx := context.Background()

	_ = s.WithTx(ctx, func(tx store.Tx) error {
		got, err := tx.Boards().OwnerOf(ctx, board)
		if err != nil || got != owner {
			t.Errorf("board owner = %d, %v", got, err)
		}
		o, b, err := tx.Lists().OwnerOf(ctx, list)
		if err != nil || o != owner || b != board {
			t.Errorf("list owner = %d/%d, %v", o, b, err)
		}
		o, b, err = tx.Cards().OwnerOf(ctx, card)
		if err != nil || o != owner || b != board {
			t.Errorf("card owner = %d/%d, %v", o, b, err)
		}
		if _, _, err := tx.Cards().OwnerOf(ctx, 999); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
		return nil
	})
}

func TestDuplicateEmailConflicts(t *testing.T) {
	s := New()
	seedBoard(t, s)
	err := s.WithTx(context.Background(), func(tx store.Tx) error {
		return tx.Users().Create(context.Background(), &usermodels.User{Email: "ADA@example.com"})
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCommentsNewestFirstWithAuthor(t *testing.T) {
	s := New()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { clock = clock.Add(time.Minute); return clock })
	owner, _, _, card := seedBoard(t, s)
	ctx := context.Background()

	_ = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Comments().Create(ctx, &models.Comment{CardID: card, AuthorID: owner, Content: "done"})
	})
	_ = s.WithTx(ctx, func(tx store.Tx) error {
		comments, err := tx.Comments().ListByCard(ctx, card)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, c := range comments {
			got = append(got, c.Content)
			if c.Author == nil || c.Author.Email != "ada@example.com" {
				t.Errorf("comment %d missing author", c.ID)
			}
		}
		if expected := []string{"done", "on it"}; !cmp.Equal(got, expected) {
			t.Errorf("diff: %v", cmp.Diff(got, expected))
		}
		return nil
	})
}

func TestCardSetParent(t *testing.T) {
	s := New()
	_, board, list, first := seedBoard(t, s)
	ctx := context.Background()
	var other int64
	err := s.WithTx(ctx, func(tx store.Tx) error {
		l := &models.BoardList{BoardID: board, Title: "Done", Position: 1}
		if err := tx.Lists().Create(ctx, l); err != nil {
			return err
		}
		other = l.ID
		for i, title := range []string{"b", "c"} {
			if err := tx.Cards().Create(ctx, &models.Card{ListID: list, Title: title, Position: i + 1}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	_ = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Cards().SetParent(ctx, first, other, 0); err != nil {
			t.Fatal(err)
		}
		source, _ := tx.Cards().Siblings(ctx, list)
		target, _ := tx.Cards().Siblings(ctx, other)
		if len(source) != 2 || len(target) != 1 || target[0].ID != first {
			t.Errorf("source=%v target=%v", source, target)
		}
		return nil
	})
}

func TestTokenLookupIsPerUser(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.WithTx(ctx, func(tx store.Tx) error {
		var ids []int64
		for _, email := range []string{"a@example.com", "b@example.com"} {
			u := &usermodels.User{Email: email}
			if err := tx.Users().Create(ctx, u); err != nil {
				t.Fatal(err)
			}
			if err := tx.Tokens().Create(ctx, &usermodels.VerificationToken{UserID: u.UserID, Code: "123456"}); err != nil {
				t.Fatal(err)
			}
			ids = append(ids, u.UserID)
		}
		for _, id := range ids {
			tok, err := tx.Tokens().GetByUserAndCode(ctx, id, "123456")
			if err != nil || tok.UserID != id {
				t.Errorf("user %d got %+v, %v", id, tok, err)
			}
		}
		if _, err := tx.Tokens().GetByUserAndCode(ctx, ids[0], "654321"); !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
		return nil
	})
}
