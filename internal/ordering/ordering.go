// Package ordering keeps the members of a parent collection densely numbered.
//
// Lists within a board, cards within a list and checklist items within a
// card all carry a zero-based position. After every insert, move or delete
// the positions of one parent's members are exactly 0..n-1. The shifting
// logic lives here once; each family plugs in through Family.
package ordering

import (
	"context"
	"fmt"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
)

// Member is the part of an ordered entity the maintainer works with.
type Member struct {
	ID       int64
	Position int
}

// Family is the persistence seam for one kind of ordered member, bound to a
// single transaction.
type Family interface {
	// LockParent takes a write lock on the parent row so that concurrent
	// reorders of the same parent serialize. Returns apperrors.ErrNotFound
	// when the parent does not exist.
	LockParent(ctx context.Context, parentID int64) error
	// Siblings returns the parent's members ascending by position. Rows are
	// locked for update until the transaction ends.
	Siblings(ctx context.Context, parentID int64) ([]Member, error)
	SetPosition(ctx context.Context, id int64, position int) error
	Remove(ctx context.Context, id int64) error
}

// Reparenter is implemented by families whose members may change parent.
type Reparenter interface {
	Family
	SetParent(ctx context.Context, id, parentID int64, position int) error
}

// Shift is one planned position rewrite.
type Shift struct {
	ID   int64
	From int
	To   int
}

// Maintainer applies insert, move, transfer and delete to a Family while
// keeping every parent's positions contiguous. Reads in position order go
// straight to the repositories.
type Maintainer struct {
	Log *logger.Logger
}

// NewMaintainer creates a maintainer logging under the "ordering" component.
func NewMaintainer(log *logger.Logger) *Maintainer {
	return &Maintainer{Log: log.Service("ordering")}
}

// Insert opens a slot for a new member and returns its position. A nil
// requested position appends. Positions past the end are clamped to the
// count. The caller must store the new member at the returned position in
// the same transaction.
func (m *Maintainer) Insert(ctx context.Context, f Family, parentID int64, requested *int) (int, error) {
	if requested != nil && *requested < 0 {
		return 0, invalidPosition(*requested)
	}
	if err := f.LockParent(ctx, parentID); err != nil {
		return 0, err
	}
	siblings, err := f.Siblings(ctx, parentID)
	if err != nil {
		return 0, err
	}
	if requested == nil {
		return len(siblings), nil
	}

	slot := clamp(*requested, len(siblings))
	if err := m.apply(ctx, f, PlanInsert(siblings, slot)); err != nil {
		return 0, err
	}
	return slot, nil
}

// Move changes a member's position within its parent and returns the
// position it ended up at (clamped to the last slot).
func (m *Maintainer) Move(ctx context.Context, f Family, parentID, memberID int64, newPosition int) (int, error) {
	if newPosition < 0 {
		return 0, invalidPosition(newPosition)
	}
	if err := f.LockParent(ctx, parentID); err != nil {
		return 0, err
	}
	siblings, err := f.Siblings(ctx, parentID)
	if err != nil {
		return 0, err
	}
	old, ok := positionOf(siblings, memberID)
	if !ok {
		return 0, apperrors.NotFound("member")
	}

	target := clamp(newPosition, len(siblings)-1)
	if target == old {
		return old, nil
	}
	shifts := PlanMove(siblings, old, target)
	shifts = append(shifts, Shift{ID: memberID, From: old, To: target})
	if err := m.apply(ctx, f, shifts); err != nil {
		return 0, err
	}
	return target, nil
}

// Transfer moves a member to another parent. The gap in the old parent is
// closed and a slot is opened in the new one; a nil position appends. When
// both parents are the same it behaves like Move.
func (m *Maintainer) Transfer(ctx context.Context, f Reparenter, fromParent, toParent, memberID int64, newPosition *int) (int, error) {
	if newPosition != nil && *newPosition < 0 {
		return 0, invalidPosition(*newPosition)
	}
	if fromParent == toParent {
		if newPosition == nil {
			if err := f.LockParent(ctx, fromParent); err != nil {
				return 0, err
			}
			siblings, err := f.Siblings(ctx, fromParent)
			if err != nil {
				return 0, err
			}
			if pos, ok := positionOf(siblings, memberID); ok {
				return pos, nil
			}
			return 0, apperrors.NotFound("member")
		}
		return m.Move(ctx, f, fromParent, memberID, *newPosition)
	}

	// Lock in id order so two opposite transfers cannot deadlock.
	first, second := fromParent, toParent
	if first > second {
		first, second = second, first
	}
	if err := f.LockParent(ctx, first); err != nil {
		return 0, err
	}
	if err := f.LockParent(ctx, second); err != nil {
		return 0, err
	}

	source, err := f.Siblings(ctx, fromParent)
	if err != nil {
		return 0, err
	}
	old, ok := positionOf(source, memberID)
	if !ok {
		return 0, apperrors.NotFound("member")
	}
	if err := m.apply(ctx, f, PlanDelete(source, old)); err != nil {
		return 0, err
	}

	target, err := f.Siblings(ctx, toParent)
	if err != nil {
		return 0, err
	}
	slot := len(target)
	if newPosition != nil {
		slot = clamp(*newPosition, len(target))
	}
	if err := m.apply(ctx, f, PlanInsert(target, slot)); err != nil {
		return 0, err
	}
	if err := f.SetParent(ctx, memberID, toParent, slot); err != nil {
		return 0, err
	}
	m.Log.Debug("Member transferred", "member_id", memberID, "from", fromParent, "to", toParent, "position", slot)
	return slot, nil
}

// Delete removes a member and closes the gap it leaves.
func (m *Maintainer) Delete(ctx context.Context, f Family, parentID, memberID int64) error {
	if err := f.LockParent(ctx, parentID); err != nil {
		return err
	}
	siblings, err := f.Siblings(ctx, parentID)
	if err != nil {
		return err
	}
	pos, ok := positionOf(siblings, memberID)
	if !ok {
		return apperrors.NotFound("member")
	}
	if err := f.Remove(ctx, memberID); err != nil {
		return err
	}
	return m.apply(ctx, f, PlanDelete(siblings, pos))
}

func (m *Maintainer) apply(ctx context.Context, f Family, shifts []Shift) error {
	for _, s := range shifts {
		if err := f.SetPosition(ctx, s.ID, s.To); err != nil {
			return fmt.Errorf("failed to shift member %d from %d to %d: %w", s.ID, s.From, s.To, err)
		}
	}
	if len(shifts) > 0 {
		m.Log.Debug("Positions shifted", "count", len(shifts))
	}
	return nil
}

// PlanInsert returns the shifts that open slot in members: everything at or
// after slot moves up by one.
func PlanInsert(members []Member, slot int) []Shift {
	var shifts []Shift
	for _, s := range members {
		if s.Position >= slot {
			shifts = append(shifts, Shift{ID: s.ID, From: s.Position, To: s.Position + 1})
		}
	}
	return shifts
}

// PlanMove returns the sibling shifts for moving the member at old to
// target. The moved member itself is not included.
func PlanMove(members []Member, old, target int) []Shift {
	var shifts []Shift
	for _, s := range members {
		switch {
		case target > old && s.Position > old && s.Position <= target:
			shifts = append(shifts, Shift{ID: s.ID, From: s.Position, To: s.Position - 1})
		case target < old && s.Position >= target && s.Position < old:
			shifts = append(shifts, Shift{ID: s.ID, From: s.Position, To: s.Position + 1})
		}
	}
	return shifts
}

// PlanDelete returns the shifts that close the gap left at pos.
func PlanDelete(members []Member, pos int) []Shift {
	var shifts []Shift
	for _, s := range members {
		if s.Position > pos {
			shifts = append(shifts, Shift{ID: s.ID, From: s.Position, To: s.Position - 1})
		}
	}
	return shifts
}

// Contiguous reports whether members, in the order given, are numbered
// exactly 0..n-1.
func Contiguous(members []Member) bool {
	for i, s := range members {
		if s.Position != i {
			return false
		}
	}
	return true
}

func positionOf(members []Member, id int64) (int, bool) {
	for _, s := range members {
		if s.ID == id {
			return s.Position, true
		}
	}
	return 0, false
}

func clamp(pos, max int) int {
	if max < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}

func invalidPosition(pos int) error {
	return apperrors.New(apperrors.ErrInvalidPosition, "position %d is out of range", pos)
}
