package mysqlstore

import (
	"context"
	"database/sql"

	"github.com/nikhil/taskflow/internal/models"
	usermodels "github.com/nikhil/taskflow/internal/models/users"
)

type boardRepo struct{ t *txn }

const boardColumns = "board_id, owner_id, title, background_color, workspace, created_at, updated_at"

func scanBoard(row interface{ Scan(...interface{}) error }) (*models.Board, error) {
	var b models.Board
	err := row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.BackgroundColor, &b.Workspace, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "board")
	}
	return &b, nil
}

func (r boardRepo) Create(ctx context.Context, board *models.Board) error {
	board.CreatedAt = r.t.now()
	board.UpdatedAt = board.CreatedAt
	query := `INSERT INTO boards (owner_id, title, background_color, workspace, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, board.OwnerID, board.Title, board.BackgroundColor, board.Workspace, board.CreatedAt, board.UpdatedAt)
	if err != nil {
		return err
	}
	board.ID, err = res.LastInsertId()
	return err
}

func (r boardRepo) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	return scanBoard(r.t.tx.QueryRowContext(ctx, "SELECT "+boardColumns+" FROM boards WHERE board_id = ?", id))
}

func (r boardRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Board, error) {
	query := "SELECT " + boardColumns + " FROM boards WHERE owner_id = ? ORDER BY created_at DESC, board_id DESC"
	rows, err := r.t.tx.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []*models.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (r boardRepo) Update(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = r.t.now()
	query := `UPDATE boards SET title = ?, background_color = ?, workspace = ?, updated_at = ? WHERE board_id = ?`
	res, err := r.t.tx.ExecContext(ctx, query, board.Title, board.BackgroundColor, board.Workspace, board.UpdatedAt, board.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, "board")
}

func (r boardRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.t.tx.ExecContext(ctx, `DELETE FROM boards WHERE board_id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "board")
}

func (r boardRepo) OwnerOf(ctx context.Context, boardID int64) (int64, error) {
	var owner int64
	err := r.t.tx.QueryRowContext(ctx, `SELECT owner_id FROM boards WHERE board_id = ?`, boardID).Scan(&owner)
	if err != nil {
		return 0, notFound(err, "board")
	}
	return owner, nil
}

type listRepo struct{ family }

const listColumns = "list_id, board_id, title, position, created_at, updated_at"

func scanList(row interface{ Scan(...interface{}) error }) (*models.BoardList, error) {
	var l models.BoardList
	if err := row.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, notFound(err, "list")
	}
	return &l, nil
}

func (r listRepo) Create(ctx context.Context, list *models.BoardList) error {
	list.CreatedAt = r.t.now()
	list.UpdatedAt = list.CreatedAt
	query := `INSERT INTO board_lists (board_id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, list.BoardID, list.Title, list.Position, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return err
	}
	list.ID, err = res.LastInsertId()
	return err
}

func (r listRepo) GetByID(ctx context.Context, id int64) (*models.BoardList, error) {
	return scanList(r.t.tx.QueryRowContext(ctx, "SELECT "+listColumns+" FROM board_lists WHERE list_id = ?", id))
}

func (r listRepo) ListByBoard(ctx context.Context, boardID int64) ([]*models.BoardList, error) {
	query := "SELECT " + listColumns + " FROM board_lists WHERE board_id = ? ORDER BY position, list_id"
	rows, err := r.t.tx.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []*models.BoardList{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r listRepo) Update(ctx context.Context, list *models.BoardList) error {
	list.UpdatedAt = r.t.now()
	query := `UPDATE board_lists SET title = ?, updated_at = ? WHERE list_id = ?`
	res, err := r.t.tx.ExecContext(ctx, query, list.Title, list.UpdatedAt, list.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, "list")
}

func (r listRepo) OwnerOf(ctx context.Context, listID int64) (int64, int64, error) {
	var owner, board int64
	query := `SELECT b.owner_id, b.board_id FROM board_lists l JOIN boards b ON b.board_id = l.board_id WHERE l.list_id = ?`
	if err := r.t.tx.QueryRowContext(ctx, query, listID).Scan(&owner, &board); err != nil {
		return 0, 0, notFound(err, "list")
	}
	return owner, board, nil
}

type cardRepo struct{ family }

const cardColumns = "card_id, list_id, title, description, position, due_date, created_at, updated_at"

func scanCard(row interface{ Scan(...interface{}) error }) (*models.Card, error) {
	var c models.Card
	var due sql.NullTime
	if err := row.Scan(&c.ID, &c.ListID, &c.Title, &c.Description, &c.Position, &due, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, notFound(err, "card")
	}
	if due.Valid {
		c.DueDate = &due.Time
	}
	return &c, nil
}

func dueDate(c *models.Card) sql.NullTime {
	if c.DueDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *c.DueDate, Valid: true}
}

func (r cardRepo) Create(ctx context.Context, card *models.Card) error {
	card.CreatedAt = r.t.now()
	card.UpdatedAt = card.CreatedAt
	query := `INSERT INTO cards (list_id, title, description, position, due_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, card.ListID, card.Title, card.Description, card.Position, dueDate(card), card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return err
	}
	card.ID, err = res.LastInsertId()
	return err
}

func (r cardRepo) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return scanCard(r.t.tx.QueryRowContext(ctx, "SELECT "+cardColumns+" FROM cards WHERE card_id = ?", id))
}

func (r cardRepo) ListByList(ctx context.Context, listID int64) ([]*models.Card, error) {
	query := "SELECT " + cardColumns + " FROM cards WHERE list_id = ? ORDER BY position, card_id"
	rows, err := r.t.tx.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Update writes the card's content fields. Position and list are owned by
// the ordering family methods.
func (r cardRepo) Update(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = r.t.now()
	query := `UPDATE cards SET title = ?, description = ?, due_date = ?, updated_at = ? WHERE card_id = ?`
	res, err := r.t.tx.ExecContext(ctx, query, card.Title, card.Description, dueDate(card), card.UpdatedAt, card.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, "card")
}

func (r cardRepo) OwnerOf(ctx context.Context, cardID int64) (int64, int64, error) {
	var owner, board int64
	query := `SELECT b.owner_id, b.board_id FROM cards c
		JOIN board_lists l ON l.list_id = c.list_id
		JOIN boards b ON b.board_id = l.board_id
		WHERE c.card_id = ?`
	if err := r.t.tx.QueryRowContext(ctx, query, cardID).Scan(&owner, &board); err != nil {
		return 0, 0, notFound(err, "card")
	}
	return owner, board, nil
}

type itemRepo struct{ family }

const itemColumns = "item_id, card_id, content, completed, position, created_at, updated_at"

func scanItem(row interface{ Scan(...interface{}) error }) (*models.ChecklistItem, error) {
	var i models.ChecklistItem
	if err := row.Scan(&i.ID, &i.CardID, &i.Content, &i.Completed, &i.Position, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, notFound(err, "checklist item")
	}
	return &i, nil
}

func (r itemRepo) Create(ctx context.Context, item *models.ChecklistItem) error {
	item.CreatedAt = r.t.now()
	item.UpdatedAt = item.CreatedAt
	query := `INSERT INTO checklist_items (card_id, content, completed, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, item.CardID, item.Content, item.Completed, item.Position, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return err
	}
	item.ID, err = res.LastInsertId()
	return err
}

func (r itemRepo) GetByID(ctx context.Context, id int64) (*models.ChecklistItem, error) {
	return scanItem(r.t.tx.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM checklist_items WHERE item_id = ?", id))
}

func (r itemRepo) ListByCard(ctx context.Context, cardID int64) ([]*models.ChecklistItem, error) {
	query := "SELECT " + itemColumns + " FROM checklist_items WHERE card_id = ? ORDER BY position, item_id"
	rows, err := r.t.tx.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.ChecklistItem{}
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r itemRepo) Update(ctx context.Context, item *models.ChecklistItem) error {
	item.UpdatedAt = r.t.now()
	query := `UPDATE checklist_items SET content = ?, completed = ?, updated_at = ? WHERE item_id = ?`
	res, err := r.t.tx.ExecContext(ctx, query, item.Content, item.Completed, item.UpdatedAt, item.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, "checklist item")
}

type commentRepo struct{ t *txn }

func (r commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = r.t.now()
	comment.UpdatedAt = comment.CreatedAt
	query := `INSERT INTO comments (card_id, author_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.t.tx.ExecContext(ctx, query, comment.CardID, comment.AuthorID, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return err
	}
	comment.ID, err = res.LastInsertId()
	return err
}

func (r commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	query := `SELECT comment_id, card_id, author_id, content, created_at, updated_at FROM comments WHERE comment_id = ?`
	err := r.t.tx.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return &c, nil
}

func (r commentRepo) ListByCard(ctx context.Context, cardID int64) ([]*models.Comment, error) {
	query := `SELECT c.comment_id, c.card_id, c.author_id, c.content, c.created_at, c.updated_at,
			u.user_id, u.email, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.card_id = ?
		ORDER BY c.created_at DESC, c.comment_id DESC`
	rows, err := r.t.tx.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		var u usermodels.User
		if err := rows.Scan(&c.ID, &c.CardID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&u.UserID, &u.Email, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		c.Author = &u
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func (r commentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.t.tx.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "comment")
}
