package ws

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestClient(remote, project string) *Client {
	return newClient(nil, remote, project, testLogger())
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())
	client := newTestClient("10.0.0.1", "")

	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}
	hub.Unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("client.send channel is not closed")
	}

	// A second unregister must be a no-op.
	hub.Unregister(client)
}

func TestUnregisterNotRegistered(t *testing.T) {
	hub := NewHub(testLogger())
	client := newTestClient("10.0.0.1", "")
	hub.Unregister(client)

	select {
	case _, ok := <-client.send:
		if !ok {
			t.Error("channel closed for unregistered client")
		}
	default:
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	clients := []*Client{
		newTestClient("a", ""),
		newTestClient("b", ""),
		newTestClient("c", ""),
	}
	for _, c := range clients {
		hub.Register(c)
	}

	hub.Broadcast(Message{
		Type:      MessageThemeSaved,
		Timestamp: time.Now(),
		Data:      ThemeData{ID: "t-1", Name: "Ocean"},
	})

	for i, c := range clients {
		select {
		case got := <-c.send:
			if got.Type != MessageThemeSaved {
				t.Errorf("client %d Type = %v", i, got.Type)
			}
			if d, ok := got.Data.(ThemeData); !ok || d.ID != "t-1" {
				t.Errorf("client %d Data = %#v", i, got.Data)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i)
		}
	}
}

func TestBroadcastProjectFilter(t *testing.T) {
	hub := NewHub(testLogger())
	everything := newTestClient("a", "")
	web := newTestClient("b", "web")
	app := newTestClient("c", "app")
	for _, c := range []*Client{everything, web, app} {
		hub.Register(c)
	}

	hub.Broadcast(Message{Type: MessageThemeSaved, Project: "web"})
	hub.Broadcast(Message{Type: MessageThemeDeleted})

	tests := []struct {
		name   string
		client *Client
		want   int
	}{
		{name: "unfiltered", client: everything, want: 2},
		{name: "matching", client: web, want: 2},
		{name: "other_project", client: app, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.client.send); got != tt.want {
				t.Errorf("queued = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBroadcastDropsMessagesWhenBufferFull(t *testing.T) {
	hub := NewHub(testLogger())
	client := newTestClient("a", "")
	hub.Register(client)

	for i := 0; i < sendBuffer; i++ {
		client.send <- Message{Type: MessageProjectAdded}
	}
	hub.Broadcast(Message{Type: MessageProjectDeleted})

	if len(client.send) != sendBuffer {
		t.Fatalf("buffer length = %d, want %d", len(client.send), sendBuffer)
	}
	for i := 0; i < sendBuffer; i++ {
		if m := <-client.send; m.Type == MessageProjectDeleted {
			t.Fatal("dropped message was delivered")
		}
	}
}

func TestConcurrentRegisterUnregisterBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := newTestClient("c", "")
			hub.Register(client)
			go func() {
				for range client.send {
				}
			}()
			time.Sleep(5 * time.Millisecond)
			hub.Unregister(client)
		}()
	}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(Message{Type: MessageThemeSaved})
		}()
	}
	wg.Wait()

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after all clients left", hub.ClientCount())
	}
}

func TestConcurrentClientCount(t *testing.T) {
	hub := NewHub(testLogger())
	for i := 0; i < 10; i++ {
		hub.Register(newTestClient("c", ""))
	}

	var wg sync.WaitGroup
	var sum atomic.Int64
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sum.Add(int64(hub.ClientCount()))
		}()
	}
	wg.Wait()
	if sum.Load() != 1000 {
		t.Errorf("sum = %d, want 1000", sum.Load())
	}
}
