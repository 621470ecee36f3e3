package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type participants map[uuid.UUID][]uuid.UUID

func (p participants) IsParticipant(_ context.Context, applicationID, userID uuid.UUID) (bool, error) {
	for _, id := range p[applicationID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type failingChecker struct{}

func (failingChecker) IsParticipant(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, errors.New("db down")
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func connect(t *testing.T, h *Hub, userID uuid.UUID, authz RoomAuthorizer) *Client {
	t.Helper()
	c := NewClient(h, nil, userID, authz)
	h.Register(c)
	require.Eventually(t, func() bool { return h.RoomSize(UserRoom(userID)) > 0 }, time.Second, 5*time.Millisecond)
	return c
}

func next(t *testing.T, c *Client) Outbound {
	t.Helper()
	select {
	case b, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var o Outbound
		require.NoError(t, json.Unmarshal(b, &o))
		return o
	case <-time.After(time.Second):
		t.Fatal("no frame received")
		return Outbound{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case b := <-c.send:
		t.Fatalf("unexpected frame: %s", b)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegisterJoinsPersonalRoom(t *testing.T) {
	h := startHub(t)
	c := connect(t, h, uuid.New(), RoomPolicy{})

	assert.Equal(t, 1, h.ClientCount())
	assert.Equal(t, 1, h.RoomSize(UserRoom(c.userID)))
}

func TestNotifyUserReachesEveryConnection(t *testing.T) {
	h := startHub(t)
	user := uuid.New()
	a := connect(t, h, user, RoomPolicy{})
	b := connect(t, h, user, RoomPolicy{})
	other := connect(t, h, uuid.New(), RoomPolicy{})

	h.NotifyUser(user, "application_submitted", map[string]string{"job_id": "j1"})

	for _, c := range []*Client{a, b} {
		o := next(t, c)
		assert.Equal(t, "application_submitted", o.Type)
		assert.Equal(t, UserRoom(user), o.Room)
		assert.Equal(t, map[string]any{"job_id": "j1"}, o.Payload)
	}
	assertSilent(t, other)
}

func TestApplicationRoomChat(t *testing.T) {
	h := startHub(t)
	appID, candidate, org, stranger := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	policy := RoomPolicy{Applications: participants{appID: {candidate, org}}}
	room := ApplicationRoom(appID)

	cc := connect(t, h, candidate, policy)
	oc := connect(t, h, org, policy)
	sc := connect(t, h, stranger, policy)

	cc.handleFrame([]byte(`{"type":"join","room":"` + room + `"}`))
	assert.Equal(t, FrameJoined, next(t, cc).Type)
	oc.handleFrame([]byte(`{"type":"join","room":"` + room + `"}`))
	assert.Equal(t, FrameJoined, next(t, oc).Type)

	sc.handleFrame([]byte(`{"type":"join","room":"` + room + `"}`))
	denied := next(t, sc)
	assert.Equal(t, FrameError, denied.Type)
	assert.Equal(t, "forbidden", denied.Body)
	assert.Equal(t, 2, h.RoomSize(room))

	cc.handleFrame([]byte(`{"type":"message","room":"` + room + `","body":"  Halo, kapan interview?  "}`))
	for _, c := range []*Client{cc, oc} {
		o := next(t, c)
		assert.Equal(t, FrameMessage, o.Type)
		assert.Equal(t, candidate.String(), o.From)
		assert.Equal(t, "Halo, kapan interview?", o.Body)
	}

	// Non-members cannot post into the room.
	sc.handleFrame([]byte(`{"type":"message","room":"` + room + `","body":"spam"}`))
	assertSilent(t, cc)
	assertSilent(t, oc)

	oc.handleFrame([]byte(`{"type":"leave","room":"` + room + `"}`))
	assert.Equal(t, FrameLeft, next(t, oc).Type)
	assert.Equal(t, 1, h.RoomSize(room))
}

func TestCannotJoinSomeoneElsesPersonalRoom(t *testing.T) {
	h := startHub(t)
	victim := uuid.New()
	c := connect(t, h, uuid.New(), RoomPolicy{})

	c.handleFrame([]byte(`{"type":"join","room":"` + UserRoom(victim) + `"}`))
	assert.Equal(t, "forbidden", next(t, c).Body)
}

func TestJoinAuthorizationFailure(t *testing.T) {
	h := startHub(t)
	c := connect(t, h, uuid.New(), RoomPolicy{Applications: failingChecker{}})

	c.handleFrame([]byte(`{"type":"join","room":"` + ApplicationRoom(uuid.New()) + `"}`))
	o := next(t, c)
	assert.Equal(t, FrameError, o.Type)
	assert.Equal(t, "internal error", o.Body)
}

func TestMalformedFrames(t *testing.T) {
	h := startHub(t)
	c := connect(t, h, uuid.New(), RoomPolicy{})

	c.handleFrame([]byte(`not json`))
	assert.Equal(t, "malformed frame", next(t, c).Body)
	c.handleFrame([]byte(`{"type":"join"}`))
	assert.Equal(t, "room is required", next(t, c).Body)
	c.handleFrame([]byte(`{"type":"dance","room":"x"}`))
	assert.Equal(t, "unknown frame type", next(t, c).Body)
}

func TestUnregisterLeavesAllRooms(t *testing.T) {
	h := startHub(t)
	appID, user := uuid.New(), uuid.New()
	c := connect(t, h, user, RoomPolicy{Applications: participants{appID: {user}}})
	c.handleFrame([]byte(`{"type":"join","room":"` + ApplicationRoom(appID) + `"}`))
	next(t, c)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, h.RoomSize(UserRoom(user)))
	assert.Zero(t, h.RoomSize(ApplicationRoom(appID)))

	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHubStoppedDoesNotBlockClients(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	user := uuid.New()
	c := connect(t, h, user, RoomPolicy{})
	cancel()
	<-stopped

	_, ok := <-c.send
	assert.False(t, ok)

	// More disconnects than the queue holds must all return.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 2*cap(h.ops); i++ {
			h.Unregister(NewClient(h, nil, uuid.New(), RoomPolicy{}))
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after the hub stopped")
	}

	late := NewClient(h, nil, uuid.New(), RoomPolicy{})
	h.Register(late)
	_, ok = <-late.send
	assert.False(t, ok)
}
