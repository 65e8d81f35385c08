package realtime

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/infrastructure/metrics"
)

// 消息类型
const (
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeError          = "error"
	MessageTypeTerminalJoin   = "terminal:join"
	MessageTypeTerminalJoined = "terminal:joined"
	MessageTypeAlertTrigger   = "alert:trigger"
	MessageTypeAlertTriggered = "alert:triggered"
)

// Message is a server to client frame
type Message struct {
	Type  string      `json:"type"`
	Topic string      `json:"topic,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type delivery struct {
	topic string
	msg   Message
}

// Hub tracks operator sessions and the topics they follow. Publish never
// blocks: events are queued for the hub loop, and a session whose send buffer
// is full is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	topics  map[string]map[*Client]struct{}

	broadcast chan delivery
	logger    *zap.Logger
}

// NewHub 创建实时推送中心
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		topics:    make(map[string]map[*Client]struct{}),
		broadcast: make(chan delivery, 256),
		logger:    logger.Named("websocket-hub"),
	}
}

// Register adds a client and subscribes it to the given topics
func (h *Hub) Register(c *Client, topics ...string) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	for _, topic := range topics {
		h.subscribeLocked(c, topic)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	h.logger.Info("websocket client connected",
		zap.String("session_id", c.sessionID),
		zap.String("user_id", c.userID),
		zap.Int("total_clients", total))
}

// Unregister removes a client. Calling it twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		h.logger.Info("websocket client disconnected",
			zap.String("session_id", c.sessionID),
			zap.Int("total_clients", total))
	}
}

// Subscribe adds a registered client to a topic. It reports false when the
// client has already been disconnected.
func (h *Hub) Subscribe(c *Client, topic string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	h.subscribeLocked(c, topic)
	return true
}

func (h *Hub) subscribeLocked(c *Client, topic string) {
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Client]struct{})
		h.topics[topic] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) removeLocked(c *Client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	for topic, subs := range h.topics {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	close(c.send)
	metrics.WSConnections.Dec()
	return true
}

// Publish queues an event for every subscriber of topic
func (h *Hub) Publish(topic, event string, payload interface{}) {
	select {
	case h.broadcast <- delivery{topic: topic, msg: Message{Type: event, Topic: topic, Data: payload}}:
	default:
		metrics.WSMessagesDropped.Inc()
		h.logger.Warn("broadcast channel full, dropping event",
			zap.String("topic", topic), zap.String("event", event))
	}
}

// Serve runs the hub loop until ctx is cancelled, then closes every client.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			closed := h.closeAllClients()
			h.logger.Info("websocket hub stopped", zap.Int("clients_closed", closed))
			return ctx.Err()
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

// String names the hub in supervisor logs
func (h *Hub) String() string {
	return "websocket-hub"
}

// deliver fans a message out in client id order so delivery is reproducible.
func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.topics[d.topic]
	clients := make([]*Client, 0, len(subs))
	for c := range subs {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	for _, c := range clients {
		select {
		case c.send <- d.msg:
			metrics.WSMessagesSent.WithLabelValues(d.msg.Type).Inc()
		default:
			metrics.WSMessagesDropped.Inc()
			h.logger.Warn("websocket client too slow, disconnecting",
				zap.String("session_id", c.sessionID), zap.String("topic", d.topic))
			h.removeLocked(c)
		}
	}
}

func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if h.removeLocked(c) {
			n++
		}
	}
	return n
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns the number of clients following topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
