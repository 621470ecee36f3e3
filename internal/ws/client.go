package ws

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	authTimeout    = 3 * time.Second
)

const (
	FrameJoin    = "join"
	FrameLeave   = "leave"
	FrameMessage = "message"
	FrameJoined  = "joined"
	FrameLeft    = "left"
	FrameError   = "error"
)

// Inbound is a frame sent by a client.
type Inbound struct {
	Type string `json:"type"`
	Room string `json:"room"`
	Body string `json:"body"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	authz  RoomAuthorizer
	send   chan []byte

	// rooms is guarded by hub.mutex.
	rooms map[string]struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, authz RoomAuthorizer) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		authz:  authz,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]struct{}),
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws read error", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}
		c.handleFrame(data)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleFrame(data []byte) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		c.reply(Outbound{Type: FrameError, Body: "malformed frame"})
		return
	}
	room := strings.TrimSpace(in.Room)
	if room == "" {
		c.reply(Outbound{Type: FrameError, Body: "room is required"})
		return
	}

	switch in.Type {
	case FrameJoin:
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		ok, err := c.authz.CanJoin(ctx, c.userID, room)
		cancel()
		if err != nil {
			c.hub.logger.Error("ws room authorization failed", zap.String("room", room), zap.Error(err))
			c.reply(Outbound{Type: FrameError, Room: room, Body: "internal error"})
			return
		}
		if !ok {
			c.reply(Outbound{Type: FrameError, Room: room, Body: "forbidden"})
			return
		}
		c.hub.Join(c, room)
		c.reply(Outbound{Type: FrameJoined, Room: room})

	case FrameLeave:
		c.hub.Leave(c, room)
		c.reply(Outbound{Type: FrameLeft, Room: room})

	case FrameMessage:
		body := strings.TrimSpace(in.Body)
		if body == "" {
			return
		}
		b, err := json.Marshal(Outbound{
			Type:   FrameMessage,
			Room:   room,
			From:   c.userID.String(),
			Body:   body,
			SentAt: c.hub.now().UTC(),
		})
		if err != nil {
			return
		}
		c.hub.Publish(room, c, b)

	default:
		c.reply(Outbound{Type: FrameError, Body: "unknown frame type"})
	}
}

func (c *Client) reply(o Outbound) {
	o.SentAt = c.hub.now().UTC()
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	c.hub.sendTo(c, b)
}
