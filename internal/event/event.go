// Package event is the in-process notification bus library changes are
// published on.
package event

import (
	"context"
	"time"
)

// Library topics.
const (
	TopicThemeSaved          = "library.theme.saved"
	TopicThemeDeleted        = "library.theme.deleted"
	TopicThemeProjectChanged = "library.theme.project_changed"
	TopicProjectAdded        = "library.project.added"
	TopicProjectDeleted      = "library.project.deleted"
)

// Event is one notification. Payload is a topic-specific value.
type Event struct {
	Topic     string    `json:"topic"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Handler receives events.
type Handler func(ctx context.Context, e Event)

// Publisher is the publishing side of Bus.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// ThemePayload accompanies theme topics.
type ThemePayload struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Project string `json:"project,omitempty"`
}

// ProjectPayload accompanies project topics. Retagged counts the themes whose
// tag was cleared by a project deletion.
type ProjectPayload struct {
	Name     string `json:"name"`
	Retagged int    `json:"retagged,omitempty"`
}
