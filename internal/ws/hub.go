package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outbound is every frame the server writes.
type Outbound struct {
	Type    string    `json:"type"`
	Room    string    `json:"room,omitempty"`
	From    string    `json:"from,omitempty"`
	Body    string    `json:"body,omitempty"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

type opKind int

const (
	opRegister opKind = iota
	opUnregister
	opJoin
	opLeave
	opPublish
	opDirect
)

type hubOp struct {
	kind    opKind
	client  *Client
	room    string
	message []byte
}

// Hub owns the room registry. Every change and every delivery runs on the
// Run goroutine in arrival order; the mutex only guards reads from other
// goroutines.
type Hub struct {
	rooms    map[string]map[*Client]struct{}
	clients  map[*Client]struct{}
	ops      chan hubOp
	// done is closed once Run returns; sends on ops select on it.
	done     chan struct{}
	doneOnce sync.Once

	mutex  sync.RWMutex
	logger *zap.Logger
	now    func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		ops:     make(chan hubOp, 1024),
		done:    make(chan struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.doneOnce.Do(func() { close(h.done) })
			h.closeAll()
			return
		case op := <-h.ops:
			h.apply(op)
		}
	}
}

func (h *Hub) apply(op hubOp) {
	switch op.kind {
	case opRegister:
		h.mutex.Lock()
		h.clients[op.client] = struct{}{}
		h.addLocked(op.client, UserRoom(op.client.userID))
		total := len(h.clients)
		h.mutex.Unlock()
		h.logger.Info("ws connected", zap.String("user_id", op.client.userID.String()), zap.Int("total_clients", total))

	case opUnregister:
		h.mutex.Lock()
		h.removeClientLocked(op.client)
		total := len(h.clients)
		h.mutex.Unlock()
		h.logger.Info("ws disconnected", zap.String("user_id", op.client.userID.String()), zap.Int("total_clients", total))

	case opJoin:
		h.mutex.Lock()
		if _, ok := h.clients[op.client]; ok {
			h.addLocked(op.client, op.room)
		}
		h.mutex.Unlock()

	case opLeave:
		h.mutex.Lock()
		h.removeLocked(op.client, op.room)
		h.mutex.Unlock()

	case opPublish:
		h.deliver(op.room, op.client, op.message)

	case opDirect:
		h.mutex.RLock()
		_, ok := h.clients[op.client]
		h.mutex.RUnlock()
		if ok {
			h.push(op.client, op.message)
		}
	}
}

func (h *Hub) enqueue(op hubOp) {
	select {
	case h.ops <- op:
	case <-h.done:
	default:
		h.logger.Warn("ws hub queue full, dropping op", zap.Int("kind", int(op.kind)), zap.String("room", op.room))
	}
}

func (h *Hub) Register(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case <-h.done:
		// The hub is gone; closing send lets WritePump hang up.
		close(c.send)
		return
	default:
	}
	select {
	case h.ops <- hubOp{kind: opRegister, client: c}:
	case <-h.done:
		close(c.send)
	}
}

// Unregister blocks until queued so a disconnect is never lost while the hub
// runs. After Run returns every client is already closed and it is a no-op.
func (h *Hub) Unregister(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case h.ops <- hubOp{kind: opUnregister, client: c}:
	case <-h.done:
	}
}

func (h *Hub) Join(c *Client, room string) {
	h.enqueue(hubOp{kind: opJoin, client: c, room: room})
}

func (h *Hub) Leave(c *Client, room string) {
	h.enqueue(hubOp{kind: opLeave, client: c, room: room})
}

// Publish fans message out to every member of room. When from is set the
// sender must be a member, otherwise the message is dropped.
func (h *Hub) Publish(room string, from *Client, message []byte) {
	if h == nil {
		return
	}
	h.enqueue(hubOp{kind: opPublish, client: from, room: room, message: message})
}

// NotifyUser sends an event to the personal room of userID.
func (h *Hub) NotifyUser(userID uuid.UUID, eventType string, payload any) {
	if h == nil {
		return
	}
	room := UserRoom(userID)
	b, err := json.Marshal(Outbound{Type: eventType, Room: room, Payload: payload, SentAt: h.now().UTC()})
	if err != nil {
		h.logger.Error("ws encode notification failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	h.Publish(room, nil, b)
}

func (h *Hub) sendTo(c *Client, message []byte) {
	h.enqueue(hubOp{kind: opDirect, client: c, message: message})
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) deliver(room string, from *Client, message []byte) {
	h.mutex.RLock()
	members := h.rooms[room]
	if from != nil {
		if _, ok := members[from]; !ok {
			h.mutex.RUnlock()
			return
		}
	}
	snapshot := make([]*Client, 0, len(members))
	for c := range members {
		snapshot = append(snapshot, c)
	}
	h.mutex.RUnlock()

	for _, c := range snapshot {
		h.push(c, message)
	}
}

// push drops a client whose buffer is full.
func (h *Hub) push(c *Client, message []byte) {
	select {
	case c.send <- message:
	default:
		h.logger.Warn("ws client too slow, dropping", zap.String("user_id", c.userID.String()))
		h.mutex.Lock()
		h.removeClientLocked(c)
		h.mutex.Unlock()
	}
}

func (h *Hub) addLocked(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) removeLocked(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) removeClientLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for room := range c.rooms {
		h.removeLocked(c, room)
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		h.removeClientLocked(c)
	}
}
