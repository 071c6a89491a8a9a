package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"shop-chatbot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "cluster_events"
	broadcastAll   = "*"

	EventEscalation = "escalation"
)

// Hub keeps the connected staff consoles and fans events out to them, and
// to the other instances through Redis when it is configured.
type Hub struct {
	// Registered clients: user id -> connections (multi-device)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	// nil when running single-instance
	rdb *redis.Client

	// instance id, used to skip our own Redis echoes
	origin string

	logger logger.ILogger
}

type clusterEnvelope struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx is cancelled. It
// must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Staff console connected", map[string]interface{}{"user_id": client.UserID, "role": client.Role})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// join hands client to Run. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Staff console disconnected", map[string]interface{}{"user_id": client.UserID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// ConnectedCount is the number of open connections on this instance.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// NotifyEscalation tells every staff console that a customer is waiting.
func (h *Hub) NotifyEscalation(ctx context.Context, sessionID, customerID, reason string) error {
	return h.Broadcast(ctx, EventEscalation, map[string]interface{}{
		"session_id":   sessionID,
		"customer_id":  customerID,
		"reason":       reason,
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// Broadcast sends an event to all connected consoles.
func (h *Hub) Broadcast(ctx context.Context, eventType string, data interface{}) error {
	return h.dispatch(ctx, broadcastAll, eventType, data)
}

// SendTo sends an event to one staff user on whichever instance holds them.
func (h *Hub) SendTo(ctx context.Context, userID, eventType string, data interface{}) error {
	return h.dispatch(ctx, userID, eventType, data)
}

func (h *Hub) dispatch(ctx context.Context, target, eventType string, data interface{}) error {
	msg, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		return err
	}

	h.deliver(target, msg)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterEnvelope{Origin: h.origin, TargetUserID: target, Message: msg})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, clusterChannel, payload).Err()
}

// deliver pushes msg to local clients. A client whose buffer is full is
// dropped.
func (h *Hub) deliver(target string, msg []byte) {
	var slow []*Client

	h.mu.RLock()
	for id, clients := range h.clients {
		if target != broadcastAll && id != target {
			continue
		}
		for _, client := range clients {
			select {
			case client.Send <- msg:
			default:
				slow = append(slow, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Send buffer full, dropping console", map[string]interface{}{"user_id": client.UserID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
				continue
			}
			if env.Origin == h.origin {
				continue
			}
			h.deliver(env.TargetUserID, env.Message)
		}
	}
}
