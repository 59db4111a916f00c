package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/event"
	"github.com/HerbHall/themeforge/internal/version"
)

// Subscriber is the subscribing side of the event bus.
type Subscriber interface {
	SubscribeAll(fn event.Handler) (unsubscribe func())
}

// Handler serves the library event stream.
type Handler struct {
	hub            *Hub
	logger         *zap.Logger
	originPatterns []string
	unsubscribe    func()
}

// NewHandler creates a Handler and starts forwarding library events from bus.
// originPatterns lists the extra origins allowed to connect; same-origin
// requests are always accepted.
func NewHandler(bus Subscriber, originPatterns []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		hub:            NewHub(logger),
		logger:         logger,
		originPatterns: originPatterns,
		unsubscribe:    func() {},
	}
	if bus != nil {
		h.unsubscribe = bus.SubscribeAll(h.forward)
	}
	return h
}

// Hub returns the client hub.
func (h *Handler) Hub() *Hub { return h.hub }

// Close stops forwarding events.
func (h *Handler) Close() { h.unsubscribe() }

// RegisterRoutes registers the WebSocket route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/library", h.handleLibraryStream)
}

// handleLibraryStream upgrades the connection and streams library messages.
// ?project= restricts the stream to one project.
func (h *Handler) handleLibraryStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	project := r.URL.Query().Get("project")
	client := newClient(conn, r.RemoteAddr, project, h.logger)
	client.send <- Message{
		Type:      MessageHello,
		Timestamp: time.Now().UTC(),
		Data:      HelloData{Version: version.Short(), Project: project},
	}
	h.hub.Register(client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// forward converts a bus event into a hub message.
func (h *Handler) forward(_ context.Context, e event.Event) {
	msg := Message{Type: MessageType(e.Topic), Timestamp: e.Timestamp}
	switch p := e.Payload.(type) {
	case event.ThemePayload:
		msg.Project = p.Project
		msg.Data = ThemeData{ID: p.ID, Name: p.Name}
	case event.ProjectPayload:
		msg.Project = p.Name
		msg.Data = ProjectData{Name: p.Name, Retagged: p.Retagged}
	default:
		return
	}
	h.hub.Broadcast(msg)
}
