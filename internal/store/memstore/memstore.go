// Package memstore is an in-memory store.Store. Transactions run one at a
// time under a single lock and work on a copy of the data that replaces the
// committed copy only when the unit of work succeeds.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/models"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
	"github.com/nikhil/taskflow/internal/ordering"
	"github.com/nikhil/taskflow/internal/store"
)

type Store struct {
	mu   sync.Mutex
	data *dataset
	now  func() time.Time
}

type dataset struct {
	seq      int64
	users    map[int64]usermodels.User
	tokens   map[int64]usermodels.VerificationToken
	boards   map[int64]models.Board
	lists    map[int64]models.BoardList
	cards    map[int64]models.Card
	items    map[int64]models.ChecklistItem
	comments map[int64]models.Comment
}

func newDataset() *dataset {
	return &dataset{
		users:    map[int64]usermodels.User{},
		tokens:   map[int64]usermodels.VerificationToken{},
		boards:   map[int64]models.Board{},
		lists:    map[int64]models.BoardList{},
		cards:    map[int64]models.Card{},
		items:    map[int64]models.ChecklistItem{},
		comments: map[int64]models.Comment{},
	}
}

// clone copies every row. Rows are stored by value and never hold nested
// slices, so copying the maps is enough.
func (d *dataset) clone() *dataset {
	c := newDataset()
	c.seq = d.seq
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.tokens {
		c.tokens[k] = v
	}
	for k, v := range d.boards {
		c.boards[k] = v
	}
	for k, v := range d.lists {
		c.lists[k] = v
	}
	for k, v := range d.cards {
		c.cards[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.comments {
		c.comments[k] = v
	}
	return c
}

func (d *dataset) nextID() int64 {
	d.seq++
	return d.seq
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newDataset(), now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source. Used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(&tx{d: working, now: s.now}); err != nil {
		return err
	}
	s.data = working
	return nil
}

func (s *Store) Close() error { return nil }

type tx struct {
	d   *dataset
	now func() time.Time
}

func (t *tx) Users() store.UserRepository                   { return userRepo{t} }
func (t *tx) Tokens() store.TokenRepository                 { return tokenRepo{t} }
func (t *tx) Boards() store.BoardRepository                 { return boardRepo{t} }
func (t *tx) Lists() store.ListRepository                   { return listRepo{t} }
func (t *tx) Cards() store.CardRepository                   { return cardRepo{t} }
func (t *tx) ChecklistItems() store.ChecklistItemRepository { return itemRepo{t} }
func (t *tx) Comments() store.CommentRepository             { return commentRepo{t} }

// cascade helpers

func (t *tx) deleteCard(id int64) {
	delete(t.d.cards, id)
	for k, v := range t.d.items {
		if v.CardID == id {
			delete(t.d.items, k)
		}
	}
	for k, v := range t.d.comments {
		if v.CardID == id {
			delete(t.d.comments, k)
		}
	}
}

func (t *tx) deleteList(id int64) {
	delete(t.d.lists, id)
	for k, v := range t.d.cards {
		if v.ListID == id {
			t.deleteCard(k)
		}
	}
}

func sortMembers(members []ordering.Member) []ordering.Member {
	sort.Slice(members, func(i, j int) bool {
		if members[i].Position != members[j].Position {
			return members[i].Position < members[j].Position
		}
		return members[i].ID < members[j].ID
	})
	return members
}

type userRepo struct{ t *tx }

func (r userRepo) Create(_ context.Context, user *usermodels.User) error {
	for _, u := range r.t.d.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.New(apperrors.ErrConflict, "Email already registered")
		}
	}
	user.UserID = r.t.d.nextID()
	user.CreatedAt = r.t.now()
	r.t.d.users[user.UserID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*usermodels.User, error) {
	u, ok := r.t.d.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*usermodels.User, error) {
	for _, u := range r.t.d.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (r userRepo) Update(_ context.Context, user *usermodels.User) error {
	if _, ok := r.t.d.users[user.UserID]; !ok {
		return apperrors.NotFound("user")
	}
	r.t.d.users[user.UserID] = *user
	return nil
}

type tokenRepo struct{ t *tx }

func (r tokenRepo) Create(_ context.Context, token *usermodels.VerificationToken) error {
	token.ID = r.t.d.nextID()
	r.t.d.tokens[token.ID] = *token
	return nil
}

func (r tokenRepo) GetByUserAndCode(_ context.Context, userID int64, code string) (*usermodels.VerificationToken, error) {
	for _, tok := range r.t.d.tokens {
		if tok.UserID == userID && tok.Code == code {
			return &tok, nil
		}
	}
	return nil, apperrors.NotFound("verification code")
}

func (r tokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	for k, v := range r.t.d.tokens {
		if v.UserID == userID {
			delete(r.t.d.tokens, k)
		}
	}
	return nil
}

func (r tokenRepo) Delete(_ context.Context, id int64) error {
	delete(r.t.d.tokens, id)
	return nil
}

type boardRepo struct{ t *tx }

func (r boardRepo) Create(_ context.Context, board *models.Board) error {
	board.ID = r.t.d.nextID()
	board.CreatedAt = r.t.now()
	board.UpdatedAt = board.CreatedAt
	row := *board
	row.Lists = nil
	r.t.d.boards[board.ID] = row
	return nil
}

func (r boardRepo) GetByID(_ context.Context, id int64) (*models.Board, error) {
	b, ok := r.t.d.boards[id]
	if !ok {
		return nil, apperrors.NotFound("board")
	}
	return &b, nil
}

func (r boardRepo) ListByOwner(_ context.Context, ownerID int64) ([]*models.Board, error) {
	out := []*models.Board{}
	for _, b := range r.t.d.boards {
		if b.OwnerID == ownerID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r boardRepo) Update(_ context.Context, board *models.Board) error {
	if _, ok := r.t.d.boards[board.ID]; !ok {
		return apperrors.NotFound("board")
	}
	board.UpdatedAt = r.t.now()
	row := *board
	row.Lists = nil
	r.t.d.boards[board.ID] = row
	return nil
}

func (r boardRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.t.d.boards[id]; !ok {
		return apperrors.NotFound("board")
	}
	delete(r.t.d.boards, id)
	for k, v := range r.t.d.lists {
		if v.BoardID == id {
			r.t.deleteList(k)
		}
	}
	return nil
}

func (r boardRepo) OwnerOf(_ context.Context, boardID int64) (int64, error) {
	b, ok := r.t.d.boards[boardID]
	if !ok {
		return 0, apperrors.NotFound("board")
	}
	return b.OwnerID, nil
}

type listRepo struct{ t *tx }

func (r listRepo) LockParent(_ context.Context, boardID int64) error {
	if _, ok := r.t.d.boards[boardID]; !ok {
		return apperrors.NotFound("board")
	}
	return nil
}

func (r listRepo) Siblings(_ context.Context, boardID int64) ([]ordering.Member, error) {
	var out []ordering.Member
	for _, l := range r.t.d.lists {
		if l.BoardID == boardID {
			out = append(out, ordering.Member{ID: l.ID, Position: l.Position})
		}
	}
	return sortMembers(out), nil
}

func (r listRepo) SetPosition(_ context.Context, id int64, position int) error {
	l, ok := r.t.d.lists[id]
	if !ok {
		return apperrors.NotFound("list")
	}
	l.Position = position
	l.UpdatedAt = r.t.now()
	r.t.d.lists[id] = l
	return nil
}

func (r listRepo) Remove(_ context.Context, id int64) error {
	if _, ok := r.t.d.lists[id]; !ok {
		return apperrors.NotFound("list")
	}
	r.t.deleteList(id)
	return nil
}

func (r listRepo) Create(_ context.Context, list *models.BoardList) error {
	list.ID = r.t.d.nextID()
	list.CreatedAt = r.t.now()
	list.UpdatedAt = list.CreatedAt
	row := *list
	row.Cards = nil
	r.t.d.lists[list.ID] = row
	return nil
}

func (r listRepo) GetByID(_ context.Context, id int64) (*models.BoardList, error) {
	l, ok := r.t.d.lists[id]
	if !ok {
		return nil, apperrors.NotFound("list")
	}
	return &l, nil
}

func (r listRepo) ListByBoard(ctx context.Context, boardID int64) ([]*models.BoardList, error) {
	members, _ := r.Siblings(ctx, boardID)
	out := make([]*models.BoardList, 0, len(members))
	for _, m := range members {
		l := r.t.d.lists[m.ID]
		out = append(out, &l)
	}
	return out, nil
}

// Update writes the content fields only; positions belong to the family
// methods.
func (r listRepo) Update(_ context.Context, list *models.BoardList) error {
	row, ok := r.t.d.lists[list.ID]
	if !ok {
		return apperrors.NotFound("list")
	}
	list.UpdatedAt = r.t.now()
	row.Title = list.Title
	row.UpdatedAt = list.UpdatedAt
	r.t.d.lists[list.ID] = row
	return nil
}

func (r listRepo) OwnerOf(_ context.Context, listID int64) (int64, int64, error) {
	l, ok := r.t.d.lists[listID]
	if !ok {
		return 0, 0, apperrors.NotFound("list")
	}
	b := r.t.d.boards[l.BoardID]
	return b.OwnerID, b.ID, nil
}

type cardRepo struct{ t *tx }

func (r cardRepo) LockParent(_ context.Context, listID int64) error {
	if _, ok := r.t.d.lists[listID]; !ok {
		return apperrors.NotFound("list")
	}
	return nil
}

func (r cardRepo) Siblings(_ context.Context, listID int64) ([]ordering.Member, error) {
	var out []ordering.Member
	for _, c := range r.t.d.cards {
		if c.ListID == listID {
			out = append(out, ordering.Member{ID: c.ID, Position: c.Position})
		}
	}
	return sortMembers(out), nil
}

func (r cardRepo) SetPosition(_ context.Context, id int64, position int) error {
	c, ok := r.t.d.cards[id]
	if !ok {
		return apperrors.NotFound("card")
	}
	c.Position = position
	c.UpdatedAt = r.t.now()
	r.t.d.cards[id] = c
	return nil
}

func (r cardRepo) SetParent(_ context.Context, id, listID int64, position int) error {
	c, ok := r.t.d.cards[id]
	if !ok {
		return apperrors.NotFound("card")
	}
	c.ListID = listID
	c.Position = position
	c.UpdatedAt = r.t.now()
	r.t.d.cards[id] = c
	return nil
}

func (r cardRepo) Remove(_ context.Context, id int64) error {
	if _, ok := r.t.d.cards[id]; !ok {
		return apperrors.NotFound("card")
	}
	r.t.deleteCard(id)
	return nil
}

func (r cardRepo) Create(_ context.Context, card *models.Card) error {
	card.ID = r.t.d.nextID()
	card.CreatedAt = r.t.now()
	card.UpdatedAt = card.CreatedAt
	row := *card
	row.Comments, row.ChecklistItems = nil, nil
	r.t.d.cards[card.ID] = row
	return nil
}

func (r cardRepo) GetByID(_ context.Context, id int64) (*models.Card, error) {
	c, ok := r.t.d.cards[id]
	if !ok {
		return nil, apperrors.NotFound("card")
	}
	return &c, nil
}

func (r cardRepo) ListByList(ctx context.Context, listID int64) ([]*models.Card, error) {
	members, _ := r.Siblings(ctx, listID)
	out := make([]*models.Card, 0, len(members))
	for _, m := range members {
		c := r.t.d.cards[m.ID]
		out = append(out, &c)
	}
	return out, nil
}

func (r cardRepo) Update(_ context.Context, card *models.Card) error {
	row, ok := r.t.d.cards[card.ID]
	if !ok {
		return apperrors.NotFound("card")
	}
	card.UpdatedAt = r.t.now()
	row.Title = card.Title
	row.Description = card.Description
	row.DueDate = card.DueDate
	row.UpdatedAt = card.UpdatedAt
	r.t.d.cards[card.ID] = row
	return nil
}

func (r cardRepo) OwnerOf(_ context.Context, cardID int64) (int64, int64, error) {
	c, ok := r.t.d.cards[cardID]
	if !ok {
		return 0, 0, apperrors.NotFound("card")
	}
	l := r.t.d.lists[c.ListID]
	b := r.t.d.boards[l.BoardID]
	return b.OwnerID, b.ID, nil
}

type itemRepo struct{ t *tx }

func (r itemRepo) LockParent(_ context.Context, cardID int64) error {
	if _, ok := r.t.d.cards[cardID]; !ok {
		return apperrors.NotFound("card")
	}
	return nil
}

func (r itemRepo) Siblings(_ context.Context, cardID int64) ([]ordering.Member, error) {
	var out []ordering.Member
	for _, i := range r.t.d.items {
		if i.CardID == cardID {
			out = append(out, ordering.Member{ID: i.ID, Position: i.Position})
		}
	}
	return sortMembers(out), nil
}

func (r itemRepo) SetPosition(_ context.Context, id int64, position int) error {
	i, ok := r.t.d.items[id]
	if !ok {
		return apperrors.NotFound("checklist item")
	}
	i.Position = position
	i.UpdatedAt = r.t.now()
	r.t.d.items[id] = i
	return nil
}

func (r itemRepo) Remove(_ context.Context, id int64) error {
	if _, ok := r.t.d.items[id]; !ok {
		return apperrors.NotFound("checklist item")
	}
	delete(r.t.d.items, id)
	return nil
}

func (r itemRepo) Create(_ context.Context, item *models.ChecklistItem) error {
	item.ID = r.t.d.nextID()
	item.CreatedAt = r.t.now()
	item.UpdatedAt = item.CreatedAt
	r.t.d.items[item.ID] = *item
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id int64) (*models.ChecklistItem, error) {
	i, ok := r.t.d.items[id]
	if !ok {
		return nil, apperrors.NotFound("checklist item")
	}
	return &i, nil
}

func (r itemRepo) ListByCard(ctx context.Context, cardID int64) ([]*models.ChecklistItem, error) {
	members, _ := r.Siblings(ctx, cardID)
	out := make([]*models.ChecklistItem, 0, len(members))
	for _, m := range members {
		i := r.t.d.items[m.ID]
		out = append(out, &i)
	}
	return out, nil
}

func (r itemRepo) Update(_ context.Context, item *models.ChecklistItem) error {
	row, ok := r.t.d.items[item.ID]
	if !ok {
		return apperrors.NotFound("checklist item")
	}
	item.UpdatedAt = r.t.now()
	row.Content = item.Content
	row.Completed = item.Completed
	row.UpdatedAt = item.UpdatedAt
	r.t.d.items[item.ID] = row
	return nil
}

type commentRepo struct{ t *tx }

func (r commentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = r.t.d.nextID()
	comment.CreatedAt = r.t.now()
	comment.UpdatedAt = comment.CreatedAt
	row := *comment
	row.Author = nil
	r.t.d.comments[comment.ID] = row
	return nil
}

func (r commentRepo) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	c, ok := r.t.d.comments[id]
	if !ok {
		return nil, apperrors.NotFound("comment")
	}
	return &c, nil
}

func (r commentRepo) ListByCard(_ context.Context, cardID int64) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range r.t.d.comments {
		if c.CardID != cardID {
			continue
		}
		c := c
		if u, ok := r.t.d.users[c.AuthorID]; ok {
			c.Author = &u
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r commentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.t.d.comments[id]; !ok {
		return apperrors.NotFound("comment")
	}
	delete(r.t.d.comments, id)
	return nil
}
