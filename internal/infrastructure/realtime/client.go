package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	handlerTimeout = 10 * time.Second
)

var clientIDCounter atomic.Uint64

// Inbound is a client to server frame. Data is decoded by the handler.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MessageHandler processes inbound frames other than ping
type MessageHandler interface {
	HandleMessage(ctx context.Context, c *Client, msg Inbound)
}

// Identity is the authenticated operator behind a session
type Identity struct {
	UserID string
	Role   string
}

// Client is one operator websocket session
type Client struct {
	id        uint64
	sessionID string
	userID    string
	role      string

	hub     *Hub
	conn    *websocket.Conn
	send    chan Message
	handler MessageHandler
	logger  *zap.Logger
}

// NewClient 创建会话
func NewClient(hub *Hub, conn *websocket.Conn, who Identity, handler MessageHandler) *Client {
	sessionID := uuid.NewString()
	return &Client{
		id:        clientIDCounter.Add(1),
		sessionID: sessionID,
		userID:    who.UserID,
		role:      who.Role,
		hub:       hub,
		conn:      conn,
		send:      make(chan Message, 256),
		handler:   handler,
		logger:    hub.logger.With(zap.String("session_id", sessionID)),
	}
}

// SessionID 会话编号
func (c *Client) SessionID() string { return c.sessionID }

// UserID 操作员编号
func (c *Client) UserID() string { return c.userID }

// Role 操作员角色
func (c *Client) Role() string { return c.role }

// Join subscribes the session to topic
func (c *Client) Join(topic string) bool {
	return c.hub.Subscribe(c, topic)
}

// Reply queues a frame for this session only. It is dropped when the buffer
// is full or the session has been closed.
func (c *Client) Reply(msgType string, data interface{}) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- Message{Type: msgType, Data: data}:
	default:
	}
}

// ReplyError sends an error frame
func (c *Client) ReplyError(requestType, message string) {
	c.Reply(MessageTypeError, map[string]string{"request": requestType, "message": message})
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected websocket close", zap.Error(err))
			}
			return
		}

		if msg.Type == MessageTypePing {
			c.Reply(MessageTypePong, nil)
			continue
		}
		if c.handler == nil {
			c.ReplyError(msg.Type, "unsupported message type")
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		c.handler.HandleMessage(ctx, c, msg)
		cancel()
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Warn("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// NewUpgrader returns an upgrader accepting the configured origins. An empty
// list or "*" accepts any origin.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return checkOrigin(allowedOrigins, r.Header.Get("Origin"))
		},
	}
}

func checkOrigin(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
