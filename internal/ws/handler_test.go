package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/event"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/library" + query
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var msg map[string]any
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("Read: %v", err)
	}
	return msg
}

func waitForClients(t *testing.T, h *Handler, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Hub().ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", h.Hub().ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLibraryStream(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	h := NewHandler(bus, nil, zap.NewNop())
	defer h.Close()

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dial(t, srv, "?project=web")
	if hello := read(t, conn); hello["type"] != string(MessageHello) {
		t.Fatalf("first message = %v", hello)
	}
	waitForClients(t, h, 1)

	ctx := context.Background()
	bus.Publish(ctx, event.Event{Topic: event.TopicThemeSaved, Payload: event.ThemePayload{ID: "a", Project: "app"}})
	bus.Publish(ctx, event.Event{Topic: event.TopicThemeSaved, Payload: event.ThemePayload{ID: "b", Project: "web"}})

	msg := read(t, conn)
	if msg["type"] != event.TopicThemeSaved || msg["project"] != "web" {
		t.Fatalf("message = %v", msg)
	}
	data, _ := msg["data"].(map[string]any)
	if data["id"] != "b" {
		t.Errorf("data = %v, want theme b (theme a belongs to another project)", data)
	}
}

func TestForwardIgnoresUnknownPayload(t *testing.T) {
	h := NewHandler(nil, nil, nil)
	c := newTestClient("a", "")
	h.Hub().Register(c)

	h.forward(context.Background(), event.Event{Topic: "other", Payload: 42})
	h.forward(context.Background(), event.Event{Topic: event.TopicProjectAdded, Payload: event.ProjectPayload{Name: "web"}})

	if len(c.send) != 1 {
		t.Fatalf("queued = %d, want 1", len(c.send))
	}
	if m := <-c.send; m.Type != MessageProjectAdded || m.Project != "web" {
		t.Errorf("message = %+v", m)
	}
}
