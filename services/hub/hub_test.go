package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a bare session with the given buffer, bypassing
// the websocket upgrade
func newTestClient(h *Hub, id string, buffer int) *Client {
	return &Client{
		ID:   id,
		hub:  h,
		send: make(chan []byte, buffer),
	}
}

// drainUntilClosed reads everything the hub delivered before closing
// the session's channel
func drainUntilClosed(t *testing.T, c *Client) [][]byte {
	t.Helper()
	var messages [][]byte
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return messages
			}
			messages = append(messages, msg)
		case <-time.After(2 * time.Second):
			t.Fatal("send channel was never closed")
		}
	}
}

func TestBroadcastReachesAllSessions(t *testing.T) {
	h := NewHub()
	go h.Run()

	a := newTestClient(h, "a", 16)
	b := newTestClient(h, "b", 16)
	h.register <- a
	h.register <- b

	require.NoError(t, h.Broadcast(EventFallAlert, map[string]any{"id": 1}))

	for _, client := range []*Client{a, b} {
		select {
		case raw := <-client.send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, EventFallAlert, env.Type)
			assert.NotZero(t, env.Timestamp)
		case <-time.After(2 * time.Second):
			t.Fatalf("session %s received nothing", client.ID)
		}
	}
}

func TestStuckSessionIsDroppedOthersStayLive(t *testing.T) {
	h := NewHub()
	go h.Run()

	stuck := newTestClient(h, "stuck", 2)
	healthy := newTestClient(h, "healthy", 64)
	h.register <- stuck
	h.register <- healthy

	// The stuck session never drains; its buffer fills after 2 events
	// and the hub cuts it loose instead of blocking the fan-out.
	const total = 10
	for i := 0; i < total; i++ {
		require.NoError(t, h.Broadcast(EventPatientDetected, map[string]any{"seq": i}))
	}

	delivered := drainUntilClosed(t, stuck)
	assert.LessOrEqual(t, len(delivered), 2)

	received := 0
	for received < total {
		select {
		case <-healthy.send:
			received++
		case <-time.After(2 * time.Second):
			t.Fatalf("healthy session stalled after %d of %d events", received, total)
		}
	}
}

func TestBroadcastQueueFullIsReported(t *testing.T) {
	// No Run loop: the broadcast queue fills up and the caller is told
	h := NewHub()

	var err error
	for i := 0; i < cap(h.broadcast)+1; i++ {
		err = h.Broadcast(EventFallAlert, i)
		if err != nil {
			break
		}
	}
	assert.Error(t, err)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := newTestClient(h, "c", 4)
	h.register <- c
	h.unregister <- c
	h.unregister <- c // second disconnect must not panic

	_, open := <-c.send
	assert.False(t, open)
}

type fakeAcknowledger struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeAcknowledger) AcknowledgeAlert(alertID uint, acknowledgedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%d/%s", alertID, acknowledgedBy))
	return f.err
}

func TestInboundAcknowledgeRoutesThroughAcknowledger(t *testing.T) {
	h := NewHub()
	ack := &fakeAcknowledger{}
	h.SetAcknowledger(ack)

	c := newTestClient(h, "c", 4)
	h.handleInbound(c, []byte(`{"type":"AcknowledgeAlert","payload":{"alertId":7,"acknowledgedBy":"Y tá Lan"}}`))

	require.Equal(t, []string{"7/Y tá Lan"}, ack.calls)

	// the invoking session gets a positive AckResult back
	select {
	case raw := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "AckResult", env.Type)
		payload, err := json.Marshal(env.Payload)
		require.NoError(t, err)
		var result AckResult
		require.NoError(t, json.Unmarshal(payload, &result))
		assert.True(t, result.OK)
		assert.EqualValues(t, 7, result.AlertID)
	default:
		t.Fatal("no AckResult was queued")
	}
}

func TestInboundAcknowledgeFailure(t *testing.T) {
	h := NewHub()
	ack := &fakeAcknowledger{err: fmt.Errorf("alert not found")}
	h.SetAcknowledger(ack)

	c := newTestClient(h, "c", 4)
	h.handleInbound(c, []byte(`{"type":"AcknowledgeAlert","payload":{"alertId":99}}`))

	select {
	case raw := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		payload, err := json.Marshal(env.Payload)
		require.NoError(t, err)
		var result AckResult
		require.NoError(t, json.Unmarshal(payload, &result))
		assert.False(t, result.OK)
		assert.Contains(t, result.Message, "not found")
	default:
		t.Fatal("no AckResult was queued")
	}
}

func TestInboundGarbageIsIgnored(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "c", 4)

	h.handleInbound(c, []byte(`{not json`))
	h.handleInbound(c, []byte(`{"type":"Unknown"}`))

	select {
	case <-c.send:
		t.Fatal("garbage input must not produce a reply")
	default:
	}
}
