package models

import "time"

type CreateBoardRequest struct {
	Title           string  `json:"title"`
	BackgroundColor *string `json:"backgroundColor"`
	Workspace       *string `json:"workspace"`
}

// CreateBoardListRequest is used for both create and update. Position is
// optional: absent appends on create and leaves the position unchanged on
// update.
type CreateBoardListRequest struct {
	Title    string `json:"title"`
	BoardID  int64  `json:"boardId"`
	Position *int   `json:"position"`
}

type CreateCardRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ListID      int64      `json:"listId"`
	Position    *int       `json:"position"`
	DueDate     *time.Time `json:"dueDate"`
}

type CreateChecklistItemRequest struct {
	Content   string `json:"content"`
	CardID    int64  `json:"cardId"`
	Position  *int   `json:"position"`
	Completed bool   `json:"completed"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
	CardID  int64  `json:"cardId"`
}
