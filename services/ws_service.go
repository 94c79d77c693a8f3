package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

const (
	// pending messages per connection before the client is considered stuck
	clientSendBuffer = 16
	writeWait        = 5 * time.Second
)

// WSConn is the part of a websocket connection the hub writes to.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type ChangeEvent struct {
	Type   string `json:"type"`
	NoteID string `json:"note_id"`
}

// hubClient owns the only goroutine that writes to conn.
type hubClient struct {
	userID string
	conn   WSConn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *hubClient) stop() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// NotesHub fans change events out to every open connection of a user. Publishing
// never waits on a socket: a client whose buffer is full is dropped.
type NotesHub struct {
	rooms  map[string]map[WSConn]*hubClient
	mu     sync.Mutex
	logger zerolog.Logger
}

func NewNotesHub(logger zerolog.Logger) *NotesHub {
	return &NotesHub{
		rooms:  make(map[string]map[WSConn]*hubClient),
		logger: logger,
	}
}

func (h *NotesHub) Subscribe(userID string, conn WSConn) {
	client := &hubClient{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, clientSendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if _, exists := h.rooms[userID]; !exists {
		h.rooms[userID] = make(map[WSConn]*hubClient)
	}
	h.rooms[userID][conn] = client
	count := len(h.rooms[userID])
	h.mu.Unlock()

	go h.writeLoop(client)
	h.logger.Debug().Str("user_id", userID).Int("connections", count).Msg("client subscribed")
}

func (h *NotesHub) writeLoop(c *hubClient) {
	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Warn().Err(err).Str("user_id", c.userID).Msg("dropping websocket client")
				h.drop(c)
				return
			}
		}
	}
}

// Publish queues message for every connection of userID.
func (h *NotesHub) Publish(userID string, message []byte) {
	h.mu.Lock()
	clients := make([]*hubClient, 0, len(h.rooms[userID]))
	for _, c := range h.rooms[userID] {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case <-c.done:
		case c.send <- message:
		default:
			h.logger.Warn().Str("user_id", userID).Msg("websocket client not reading, dropping")
			h.drop(c)
		}
	}
}

func (h *NotesHub) drop(c *hubClient) {
	h.mu.Lock()
	if clients, exists := h.rooms[c.userID]; exists && clients[c.conn] == c {
		delete(clients, c.conn)
		if len(clients) == 0 {
			delete(h.rooms, c.userID)
		}
	}
	h.mu.Unlock()
	c.stop()
}

// RemoveClient unsubscribes conn and closes it.
func (h *NotesHub) RemoveClient(conn WSConn) {
	h.mu.Lock()
	var found []*hubClient
	for _, clients := range h.rooms {
		if c, exists := clients[conn]; exists {
			found = append(found, c)
		}
	}
	h.mu.Unlock()

	for _, c := range found {
		h.drop(c)
	}
}

// Connections returns the number of open connections for userID.
func (h *NotesHub) Connections(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[userID])
}

func (h *NotesHub) NotifyNoteChanged(noteID string, userIDs []string) {
	message, err := json.Marshal(ChangeEvent{Type: "notes_changed", NoteID: noteID})
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal change event")
		return
	}
	for _, userID := range userIDs {
		h.Publish(userID, message)
	}
}
