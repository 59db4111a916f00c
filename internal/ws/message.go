package ws

import (
	"time"
)

// MessageType discriminates WebSocket messages. Values match the event
// topics they are derived from.
type MessageType string

const (
	MessageThemeSaved          MessageType = "library.theme.saved"
	MessageThemeDeleted        MessageType = "library.theme.deleted"
	MessageThemeProjectChanged MessageType = "library.theme.project_changed"
	MessageProjectAdded        MessageType = "library.project.added"
	MessageProjectDeleted      MessageType = "library.project.deleted"
	MessageHello               MessageType = "hello"
)

// Message is the envelope for all WebSocket messages. Project scopes the
// message; clients that asked for one project only receive messages whose
// Project is empty or matches.
type Message struct {
	Type      MessageType `json:"type"`
	Project   string      `json:"project,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data,omitempty"`
}

// ThemeData is the payload of theme messages.
type ThemeData struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ProjectData is the payload of project messages.
type ProjectData struct {
	Name     string `json:"name"`
	Retagged int    `json:"retagged,omitempty"`
}

// HelloData is sent once after a client connects.
type HelloData struct {
	Version string `json:"version"`
	Project string `json:"project,omitempty"`
}
