package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"quizhost-service/internal/app"
)

// WatchHandler streams live scoreboard updates to admins over a websocket.
type WatchHandler struct {
	attempts *app.AttemptService
	hub      *app.ScoreboardHub
	upgrader websocket.Upgrader
}

func NewWatchHandler(attempts *app.AttemptService, hub *app.ScoreboardHub) *WatchHandler {
	return &WatchHandler{
		attempts: attempts,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type watchMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Watch upgrades the connection and pushes a scoreboard snapshot immediately,
// then one more on every submission, until the client disconnects.
func (h *WatchHandler) Watch(c *gin.Context) {
	sessionCode := c.Param("sessionCode")

	// Resolve the session before committing to the upgrade so a bad code
	// still gets a plain HTTP status.
	board, err := h.attempts.Scoreboard(c.Request.Context(), sessionCode)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.hub.Subscribe(sessionCode)
	defer cancel()

	// Read pump: the only reads we expect are control frames, so any read
	// error means the client went away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(watchMessage{Type: "scoreboard", Payload: board}); err != nil {
		return
	}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(watchMessage{Type: "scoreboard", Payload: update}); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
