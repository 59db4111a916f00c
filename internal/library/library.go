// Package library persists saved theme snapshots and their project tags in a
// string key/value store.
//
// Two keys are used. The themes key holds a JSON array of strings, each the
// JSON text of one record {"id", "project", "savedAt", "theme"} where "theme"
// is the codec wire form. The projects key holds a JSON array of project
// names. Unreadable collections read as empty and individual bad records are
// dropped, so a corrupt store never breaks listing.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/event"
	"github.com/HerbHall/themeforge/internal/store"
	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// Default storage keys.
const (
	DefaultThemesKey   = "themeforge.library.themes"
	DefaultProjectsKey = "themeforge.library.projects"
)

var operationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "themeforge_library_operations_total",
		Help: "Library operations by name and result.",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(operationsTotal)
}

// KV is the durable string store the library writes to. Get returns
// store.ErrNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// SavedTheme is a persisted Theme snapshot. An empty Project means untagged.
type SavedTheme struct {
	ID      string      `json:"id"`
	Theme   theme.Theme `json:"-"`
	Project string      `json:"project,omitempty"`
	SavedAt int64       `json:"savedAt"`
}

// record is the stored JSON form of a SavedTheme.
type record struct {
	ID      string          `json:"id"`
	Project string          `json:"project,omitempty"`
	SavedAt int64           `json:"savedAt"`
	Theme   json.RawMessage `json:"theme"`
}

// Library is the saved-theme store. All methods are safe for concurrent use;
// read-modify-write cycles are serialized.
type Library struct {
	kv          KV
	logger      *zap.Logger
	bus         event.Publisher
	themesKey   string
	projectsKey string
	now         func() time.Time
	newID       func() string

	mu sync.Mutex
}

// Option configures a Library.
type Option func(*Library)

// WithKeys overrides the storage keys. Empty values keep the defaults.
func WithKeys(themesKey, projectsKey string) Option {
	return func(l *Library) {
		if themesKey != "" {
			l.themesKey = themesKey
		}
		if projectsKey != "" {
			l.projectsKey = projectsKey
		}
	}
}

// WithClock sets the time source for savedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithIDGenerator sets the id source for new snapshots.
func WithIDGenerator(fn func() string) Option {
	return func(l *Library) { l.newID = fn }
}

// WithPublisher publishes a notification after every successful change.
func WithPublisher(p event.Publisher) Option {
	return func(l *Library) { l.bus = p }
}

// New creates a Library over kv. A nil kv yields a library whose writes all
// fail and whose reads are empty.
func New(kv KV, logger *zap.Logger, opts ...Option) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Library{
		kv:          kv,
		logger:      logger,
		themesKey:   DefaultThemesKey,
		projectsKey: DefaultProjectsKey,
		now:         time.Now,
		newID:       newID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// newID returns a time-ordered random UUID.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

var errUnavailable = errors.New("library store unavailable")

func observe(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func (l *Library) publish(ctx context.Context, topic string, payload any) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(ctx, event.Event{Topic: topic, Source: "library", Payload: payload})
}

// readRaw returns the array stored under key. A missing key is an empty
// array. A value that is not a JSON array of strings is reported with
// corrupt set and no error.
func (l *Library) readRaw(ctx context.Context, key string) (items []string, corrupt bool, err error) {
	if l.kv == nil {
		return nil, false, errUnavailable
	}
	raw, err := l.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		l.logger.Warn("stored collection is not a JSON string array; treating as empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, true, nil
	}
	return items, false, nil
}

func decodeRecord(raw string) (SavedTheme, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return SavedTheme{}, err
	}
	if rec.ID == "" {
		return SavedTheme{}, errors.New("record has no id")
	}
	t, err := codec.Unmarshal(rec.Theme)
	if err != nil {
		return SavedTheme{}, err
	}
	return SavedTheme{ID: rec.ID, Theme: t, Project: rec.Project, SavedAt: rec.SavedAt}, nil
}

func encodeRecord(st SavedTheme) (string, error) {
	wire, err := codec.Marshal(st.Theme)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(record{ID: st.ID, Project: st.Project, SavedAt: st.SavedAt, Theme: wire})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (l *Library) readThemes(ctx context.Context) ([]SavedTheme, error) {
	items, _, err := l.readRaw(ctx, l.themesKey)
	if err != nil {
		return nil, err
	}
	out := make([]SavedTheme, 0, len(items))
	for i, raw := range items {
		st, err := decodeRecord(raw)
		if err != nil {
			l.logger.Warn("dropping unreadable saved theme",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (l *Library) encodeThemes(themes []SavedTheme) (string, error) {
	items := make([]string, 0, len(themes))
	for _, st := range themes {
		rec, err := encodeRecord(st)
		if err != nil {
			return "", fmt.Errorf("encode saved theme %s: %w", st.ID, err)
		}
		items = append(items, rec)
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (l *Library) writeThemes(ctx context.Context, themes []SavedTheme) error {
	value, err := l.encodeThemes(themes)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, l.themesKey, value)
}

func encodeProjects(projects []string) string {
	if projects == nil {
		projects = []string{}
	}
	data, _ := json.Marshal(projects)
	return string(data)
}

// ListThemes returns every readable saved theme in save order.
func (l *Library) ListThemes(ctx context.Context) []SavedTheme {
	themes, err := l.readThemes(ctx)
	if err != nil {
		l.logger.Error("failed to list saved themes", zap.Error(err))
		return []SavedTheme{}
	}
	return themes
}

// SaveTheme stores a snapshot of t tagged with project and returns it, or
// nil when the store is unavailable or the write fails.
func (l *Library) SaveTheme(ctx context.Context, t theme.Theme, project string) *SavedTheme {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, err := l.saveLocked(ctx, t, project)
	observe("save_theme", err == nil)
	if err != nil {
		l.logger.Error("failed to save theme", zap.String("name", t.Name), zap.Error(err))
		return nil
	}
	l.publish(ctx, event.TopicThemeSaved, event.ThemePayload{ID: st.ID, Name: t.Name, Project: project})
	return st
}

func (l *Library) saveLocked(ctx context.Context, t theme.Theme, project string) (*SavedTheme, error) {
	themes, err := l.readThemes(ctx)
	if err != nil {
		return nil, err
	}
	st := SavedTheme{
		ID:      l.newID(),
		Theme:   t,
		Project: project,
		SavedAt: l.now().UnixMilli(),
	}
	if err := l.writeThemes(ctx, append(themes, st)); err != nil {
		return nil, err
	}
	return &st, nil
}

// DeleteTheme removes the snapshot with id. Removing an unknown id succeeds;
// false means the store could not be read or written.
func (l *Library) DeleteTheme(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed, err := l.deleteLocked(ctx, id)
	observe("delete_theme", err == nil)
	if err != nil {
		l.logger.Error("failed to delete theme", zap.String("id", id), zap.Error(err))
		return false
	}
	if removed {
		l.publish(ctx, event.TopicThemeDeleted, event.ThemePayload{ID: id})
	}
	return true
}

func (l *Library) deleteLocked(ctx context.Context, id string) (bool, error) {
	themes, err := l.readThemes(ctx)
	if err != nil {
		return false, err
	}
	kept := themes[:0:0]
	for _, st := range themes {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	if err := l.writeThemes(ctx, kept); err != nil {
		return false, err
	}
	return len(kept) != len(themes), nil
}

// UpdateThemeProject retags one snapshot. An empty project clears the tag.
// It reports false when id is unknown or the store fails.
func (l *Library) UpdateThemeProject(ctx context.Context, id, project string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	found, err := l.retagLocked(ctx, id, project)
	observe("update_theme_project", err == nil && found)
	if err != nil {
		l.logger.Error("failed to update theme project", zap.String("id", id), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	l.publish(ctx, event.TopicThemeProjectChanged, event.ThemePayload{ID: id, Project: project})
	return true
}

func (l *Library) retagLocked(ctx context.Context, id, project string) (bool, error) {
	themes, err := l.readThemes(ctx)
	if err != nil {
		return false, err
	}
	for i := range themes {
		if themes[i].ID == id {
			themes[i].Project = project
			return true, l.writeThemes(ctx, themes)
		}
	}
	return false, nil
}

// ListProjects returns the project names in creation order.
func (l *Library) ListProjects(ctx context.Context) []string {
	projects, _, err := l.readRaw(ctx, l.projectsKey)
	if err != nil {
		l.logger.Error("failed to list projects", zap.Error(err))
		return []string{}
	}
	if projects == nil {
		return []string{}
	}
	return projects
}

// AddProject appends a project. The name is trimmed; blank names and exact
// duplicates are rejected without writing.
func (l *Library) AddProject(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	projects, _, err := l.readRaw(ctx, l.projectsKey)
	if err != nil {
		observe("add_project", false)
		l.logger.Error("failed to read projects", zap.Error(err))
		return false
	}
	for _, p := range projects {
		if p == name {
			return false
		}
	}
	err = l.kv.Set(ctx, l.projectsKey, encodeProjects(append(projects, name)))
	observe("add_project", err == nil)
	if err != nil {
		l.logger.Error("failed to add project", zap.String("project", name), zap.Error(err))
		return false
	}
	l.publish(ctx, event.TopicProjectAdded, event.ProjectPayload{Name: name})
	return true
}

// DeleteProject removes a project and clears it from every theme tagged
// with it. Both collections are written in one batch when the store
// supports it.
func (l *Library) DeleteProject(ctx context.Context, name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	retagged, err := l.deleteProjectLocked(ctx, name)
	observe("delete_project", err == nil)
	if err != nil {
		l.logger.Error("failed to delete project", zap.String("project", name), zap.Error(err))
		return false
	}
	l.publish(ctx, event.TopicProjectDeleted, event.ProjectPayload{Name: name, Retagged: retagged})
	return true
}

func (l *Library) deleteProjectLocked(ctx context.Context, name string) (int, error) {
	projects, _, err := l.readRaw(ctx, l.projectsKey)
	if err != nil {
		return 0, err
	}
	themes, err := l.readThemes(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]string, 0, len(projects))
	for _, p := range projects {
		if p != name {
			kept = append(kept, p)
		}
	}
	retagged := 0
	for i := range themes {
		if themes[i].Project == name {
			themes[i].Project = ""
			retagged++
		}
	}

	themesValue, err := l.encodeThemes(themes)
	if err != nil {
		return 0, err
	}
	projectsValue := encodeProjects(kept)

	if b, ok := l.kv.(Batcher); ok {
		return retagged, b.SetMany(ctx, map[string]string{
			l.themesKey:   themesValue,
			l.projectsKey: projectsValue,
		})
	}
	if err := l.kv.Set(ctx, l.themesKey, themesValue); err != nil {
		return 0, err
	}
	return retagged, l.kv.Set(ctx, l.projectsKey, projectsValue)
}

// FilterByProject returns the themes tagged with project. An empty project
// selects untagged themes.
func FilterByProject(themes []SavedTheme, project string) []SavedTheme {
	out := make([]SavedTheme, 0, len(themes))
	for _, st := range themes {
		if st.Project == project {
			out = append(out, st)
		}
	}
	return out
}
