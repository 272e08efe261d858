package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeClient(h *Hub) *Client {
	return &Client{hub: h, queue: make(chan []byte, queueSize)}
}

func TestAddRemove(t *testing.T) {
	h := NewHub(quietLogger())
	a, b := fakeClient(h), fakeClient(h)
	h.add(a)
	h.add(b)
	if n := h.ClientCount(); n != 2 {
		t.Fatalf("clients = %d, want 2", n)
	}

	h.remove(a)
	h.remove(a) // second remove must not panic on a closed queue
	if n := h.ClientCount(); n != 1 {
		t.Fatalf("clients = %d, want 1", n)
	}
}

func TestPublish(t *testing.T) {
	h := NewHub(quietLogger())
	a, b := fakeClient(h), fakeClient(h)
	h.add(a)
	h.add(b)

	h.Publish("shopping_item", "updated", "s1", map[string]any{"isBought": true})

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.queue:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if ev.Type != "shopping_item_updated" || ev.ID != "s1" || ev.Extra["isBought"] != true {
				t.Errorf("event = %+v", ev)
			}
		default:
			t.Fatal("client did not receive event")
		}
	}
}

func TestPublishDropsForFullQueue(t *testing.T) {
	h := NewHub(quietLogger())
	c := fakeClient(h)
	h.add(c)

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize+5; i++ {
			h.Publish("inventory_item", "updated", "x", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	if len(c.queue) != queueSize {
		t.Errorf("queue length = %d, want %d", len(c.queue), queueSize)
	}
}

func TestHandlerDeliversEvents(t *testing.T) {
	h := NewHub(quietLogger())
	srv := httptest.NewServer(Handler(h, nil))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	for h.ClientCount() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	h.Publish("inventory_item", "deleted", "i9", nil)

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	json.Unmarshal(data, &ev)
	if ev.Type != "inventory_item_deleted" || ev.ID != "i9" {
		t.Errorf("event = %+v", ev)
	}
}
