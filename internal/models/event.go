package models

// Event types pushed to websocket subscribers of a board.
const (
	EventBoardUpdated     = "board.updated"
	EventBoardDeleted     = "board.deleted"
	EventListCreated      = "list.created"
	EventListUpdated      = "list.updated"
	EventListDeleted      = "list.deleted"
	EventCardCreated      = "card.created"
	EventCardUpdated      = "card.updated"
	EventCardDeleted      = "card.deleted"
	EventChecklistCreated = "checklist.created"
	EventChecklistUpdated = "checklist.updated"
	EventChecklistDeleted = "checklist.deleted"
	EventCommentCreated   = "comment.created"
	EventCommentDeleted   = "comment.deleted"
)

// Event is a committed change on a board.
type Event struct {
	Type    string      `json:"type"`
	BoardID int64       `json:"boardId"`
	Payload interface{} `json:"payload,omitempty"`
}
