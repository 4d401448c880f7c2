package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/nikhil/taskflow/internal/apperrors"
	"github.com/nikhil/taskflow/internal/logger"
	"github.com/nikhil/taskflow/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BoardAuthorizer checks that a user may watch a board.
type BoardAuthorizer interface {
	Authorize(ctx context.Context, userID, boardID int64) error
}

// WebSocketHandler streams board events to subscribed clients
type WebSocketHandler struct {
	hub    *realtime.Hub
	boards BoardAuthorizer
	Log    *logger.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, boards BoardAuthorizer, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, boards: boards, Log: log.Service("websocket-handler")}
}

// HandleWebSocket upgrades the connection and subscribes it to the board
// named by the board_id query parameter.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}

	boardID, err := strconv.ParseInt(r.URL.Query().Get("board_id"), 10, 64)
	if err != nil || boardID <= 0 {
		respondWithError(w, r, h.Log, apperrors.Invalid("Board ID is required"))
		return
	}
	if err := h.boards.Authorize(r.Context(), userID, boardID); err != nil {
		respondWithError(w, r, h.Log, err)
		return
	}

	// Upgrade the HTTP connection to a WebSocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.WithContext(r.Context()).Warn("Error upgrading connection", "error", err)
		return
	}
	h.Log.WithContext(r.Context()).WithUser(userID).Debug("Websocket subscribed", "board_id", boardID)

	// Serve blocks until the client goes away.
	h.hub.NewClient(conn, userID, boardID).Serve()
}
