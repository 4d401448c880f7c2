package models

import (
	"time"

	usermodels "github.com/nikhil/taskflow/internal/models/users"
)

// Board is owned by exactly one user and holds ordered lists.
type Board struct {
	ID              int64        `json:"id"`
	OwnerID         int64        `json:"-"`
	Title           string       `json:"title"`
	BackgroundColor string       `json:"backgroundColor,omitempty"`
	Workspace       string       `json:"workspace"`
	Lists           []*BoardList `json:"lists,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// BoardList is an ordered member of a board.
type BoardList struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"boardId"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Cards     []*Card   `json:"cards,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Card is an ordered member of a list.
type Card struct {
	ID             int64            `json:"id"`
	ListID         int64            `json:"listId"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Position       int              `json:"position"`
	DueDate        *time.Time       `json:"dueDate"`
	Comments       []*Comment       `json:"comments,omitempty"`
	ChecklistItems []*ChecklistItem `json:"checklistItems,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ChecklistItem is an ordered member of a card.
type ChecklistItem struct {
	ID        int64     `json:"id"`
	CardID    int64     `json:"cardId"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is attached to a card and listed newest first.
type Comment struct {
	ID        int64            `json:"id"`
	CardID    int64            `json:"cardId"`
	AuthorID  int64            `json:"-"`
	Author    *usermodels.User `json:"author,omitempty"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
