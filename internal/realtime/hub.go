package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/news-portal/internal/events"
)

// Message types pushed to connected clients.
const (
	MessageTypeCommentCreated = "comment_created"
	MessageTypeNewActivity    = "new_activity"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

// Message represents a websocket payload.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ActivitySignal is the lightweight global broadcast accompanying a room
// scoped comment event.
type ActivitySignal struct {
	ArticleID string `json:"article_id"`
}

// Hub maintains the set of connected clients and their room memberships.
// Rooms are keyed by article id and exist only while at least one member is
// joined; nothing here survives a restart.
//
// A nil *Hub is valid: every method no-ops, so the comment write path never
// fails because the realtime layer was not initialized.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates a hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Run blocks until the context is canceled, then closes every client so a
// supervisor can restart the hub without orphaned connections.
func (h *Hub) Run(ctx context.Context) error {
	if h == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	<-ctx.Done()
	h.closeAll()
	return ctx.Err()
}

func (h *Hub) register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("realtime client connected", zap.Int("total_clients", total))
}

// unregister removes the client and cleans up all of its room memberships.
func (h *Hub) unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	for articleID, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, articleID)
		}
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("realtime client disconnected", zap.Int("total_clients", total))
}

// JoinRoom subscribes the client to an article's room. Idempotent.
func (h *Hub) JoinRoom(client *Client, articleID string) {
	if h == nil || client == nil || articleID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, connected := h.clients[client]; !connected {
		return
	}
	members, ok := h.rooms[articleID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[articleID] = members
	}
	members[client] = struct{}{}
}

// LeaveRoom removes the client from an article's room.
func (h *Hub) LeaveRoom(client *Client, articleID string) {
	if h == nil || client == nil || articleID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[articleID]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, articleID)
	}
}

// BroadcastNewComment pushes the comment summary to the article's room and a
// new-activity signal to every connected client. Delivery is fire-and-forget:
// a client with a full send buffer misses the message.
func (h *Hub) BroadcastNewComment(articleID string, summary events.CommentCreatedPayload) {
	if h == nil {
		return
	}

	roomMsg := Message{Type: MessageTypeCommentCreated, Data: summary}
	signal := Message{Type: MessageTypeNewActivity, Data: ActivitySignal{ArticleID: articleID}}

	// Send channels are closed only under the write lock, so fanning out while
	// holding the read lock cannot race a disconnect. trySend never blocks.
	h.mu.RLock()
	for client := range h.rooms[articleID] {
		client.trySend(roomMsg)
	}
	for client := range h.clients {
		client.trySend(signal)
	}
	members := len(h.rooms[articleID])
	clients := len(h.clients)
	h.mu.RUnlock()

	h.logger.Debug("broadcast comment_created",
		zap.String("article_id", articleID),
		zap.Int("room_members", members),
		zap.Int("clients", clients),
	)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the membership count for an article room.
func (h *Hub) RoomSize(articleID string) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[articleID])
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	for articleID := range h.rooms {
		delete(h.rooms, articleID)
	}
	h.logger.Info("closed all realtime clients during shutdown")
}
