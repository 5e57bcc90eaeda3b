package ws

import (
	"errors"
	"log"
	"net/http"
	"time"

	"nftforge/nft_backend/internal/model"
	"nftforge/nft_backend/internal/repository"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	writeWait    = 10 * time.Second
	pollInterval = time.Second
)

// ProgressEvent is one status snapshot pushed to the client.
type ProgressEvent struct {
	Type      string               `json:"type"`
	Session   *model.UploadSession `json:"session,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// ProgressHandler streams upload session status over a websocket. Each
// connection polls the session row on its own ticker; there is no shared
// hub, so concurrent workflow invocations stay independent.
type ProgressHandler struct {
	sessions repository.SessionRepository
}

func NewProgressHandler(sessions repository.SessionRepository) *ProgressHandler {
	return &ProgressHandler{sessions: sessions}
}

func (h *ProgressHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/sessions/{session_id}", h.streamSession).Methods("GET")
}

func (h *ProgressHandler) streamSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Читатель нужен только чтобы заметить закрытие со стороны клиента
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		session, err := h.sessions.GetBySessionID(r.Context(), sessionID)
		if err != nil {
			event := ProgressEvent{Type: "error", Error: "session lookup failed", Timestamp: time.Now()}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				event.Error = "session not found"
			}
			h.write(conn, event)
			return
		}

		if !h.write(conn, ProgressEvent{Type: "session_status", Session: session, Timestamp: time.Now()}) {
			return
		}

		if session.Terminal() {
			return
		}

		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *ProgressHandler) write(conn *websocket.Conn, event ProgressEvent) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(event); err != nil {
		log.Printf("WebSocket write failed: %v", err)
		return false
	}
	return true
}
