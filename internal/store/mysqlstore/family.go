package mysqlstore

import (
	"context"
	"fmt"

	"github.com/nikhil/taskflow/internal/ordering"
)

// family implements ordering.Reparenter for one positioned table. Table and
// column names come from the constructors below, never from input.
type family struct {
	t            *txn
	table        string
	idColumn     string
	parentColumn string
	parentTable  string
	parentID     string
	entity       string
	parentEntity string
}

func listFamily(t *txn) family {
	return family{t: t, table: "board_lists", idColumn: "list_id", parentColumn: "board_id",
		parentTable: "boards", parentID: "board_id", entity: "list", parentEntity: "board"}
}

func cardFamily(t *txn) family {
	return family{t: t, table: "cards", idColumn: "card_id", parentColumn: "list_id",
		parentTable: "board_lists", parentID: "list_id", entity: "card", parentEntity: "list"}
}

func itemFamily(t *txn) family {
	return family{t: t, table: "checklist_items", idColumn: "item_id", parentColumn: "card_id",
		parentTable: "cards", parentID: "card_id", entity: "checklist item", parentEntity: "card"}
}

func (f family) LockParent(ctx context.Context, parentID int64) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? FOR UPDATE", f.parentID, f.parentTable, f.parentID)
	var id int64
	if err := f.t.tx.QueryRowContext(ctx, query, parentID).Scan(&id); err != nil {
		return notFound(err, f.parentEntity)
	}
	return nil
}

func (f family) Siblings(ctx context.Context, parentID int64) ([]ordering.Member, error) {
	query := fmt.Sprintf("SELECT %s, position FROM %s WHERE %s = ? ORDER BY position, %s FOR UPDATE",
		f.idColumn, f.table, f.parentColumn, f.idColumn)
	rows, err := f.t.tx.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s siblings: %w", f.entity, err)
	}
	defer rows.Close()

	var members []ordering.Member
	for rows.Next() {
		var m ordering.Member
		if err := rows.Scan(&m.ID, &m.Position); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (f family) SetPosition(ctx context.Context, id int64, position int) error {
	query := fmt.Sprintf("UPDATE %s SET position = ?, updated_at = ? WHERE %s = ?", f.table, f.idColumn)
	res, err := f.t.tx.ExecContext(ctx, query, position, f.t.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, f.entity)
}

func (f family) SetParent(ctx context.Context, id, parentID int64, position int) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ?, position = ?, updated_at = ? WHERE %s = ?",
		f.table, f.parentColumn, f.idColumn)
	res, err := f.t.tx.ExecContext(ctx, query, parentID, position, f.t.now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, f.entity)
}

// Remove deletes the row; children go with it through ON DELETE CASCADE.
func (f family) Remove(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", f.table, f.idColumn)
	res, err := f.t.tx.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(res, f.entity)
}

var _ ordering.Reparenter = family{}
