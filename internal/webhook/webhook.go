// Package webhook posts library change events to an external URL.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/event"
	"github.com/HerbHall/themeforge/internal/version"
)

// queueSize bounds deliveries waiting for the sender.
const queueSize = 64

// Topics lists the library topics the notifier forwards.
var Topics = []string{
	event.TopicThemeSaved,
	event.TopicThemeDeleted,
	event.TopicThemeProjectChanged,
	event.TopicProjectAdded,
	event.TopicProjectDeleted,
}

// Subscriber is the subscribing side of the event bus.
type Subscriber interface {
	Subscribe(topic string, fn event.Handler) (unsubscribe func())
}

// Config holds the notifier configuration. An empty URL disables delivery.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Payload is the JSON body sent to the webhook URL.
type Payload struct {
	Event     string `json:"event"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

type delivery struct {
	topic string
	body  []byte
}

// Notifier forwards bus events to a webhook. Publishers never wait on the
// remote endpoint: events are queued and sent by one background sender, and
// dropped when the queue is full.
type Notifier struct {
	logger *zap.Logger
	cfg    Config
	client *http.Client

	// mu guards closed and sends on queue, so a publish racing Close is
	// dropped instead of sending on a closed channel.
	mu     sync.RWMutex
	closed bool
	queue  chan delivery
	unsub  []func()
	wg     sync.WaitGroup
}

// New creates a Notifier. Call Start to begin delivery.
func New(cfg Config, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Notifier{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		queue:  make(chan delivery, queueSize),
	}
}

// Enabled reports whether a URL is configured.
func (n *Notifier) Enabled() bool { return n.cfg.URL != "" }

// Start subscribes to bus and runs the sender until Close. Start does nothing
// when the notifier is disabled.
func (n *Notifier) Start(bus Subscriber) {
	if !n.Enabled() {
		n.logger.Info("webhook URL not configured; notifications disabled")
		return
	}
	for _, topic := range Topics {
		n.unsub = append(n.unsub, bus.Subscribe(topic, n.handleEvent))
	}
	n.wg.Add(1)
	go n.run()
	n.logger.Info("webhook notifier started",
		zap.String("url", n.cfg.URL),
		zap.Duration("timeout", n.cfg.Timeout),
	)
}

// Close unsubscribes and waits for queued deliveries to finish.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		for _, u := range n.unsub {
			u()
		}
		close(n.queue)
	}
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for d := range n.queue {
		n.send(context.Background(), d.body, d.topic)
	}
}

func (n *Notifier) handleEvent(_ context.Context, e event.Event) {
	body, err := json.Marshal(Payload{
		Event:     e.Topic,
		Source:    e.Source,
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		Data:      e.Payload,
	})
	if err != nil {
		n.logger.Error("failed to marshal webhook payload",
			zap.String("topic", e.Topic),
			zap.Error(err),
		)
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.logger.Debug("webhook notifier closed, dropping event", zap.String("topic", e.Topic))
		return
	}
	select {
	case n.queue <- delivery{topic: e.Topic, body: body}:
	default:
		n.logger.Warn("webhook queue full, dropping event", zap.String("topic", e.Topic))
	}
}

func (n *Notifier) send(ctx context.Context, body []byte, topic string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to create webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "themeforge-webhook/"+version.Short())

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			zap.String("url", n.cfg.URL),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Warn("webhook endpoint returned error",
			zap.String("url", n.cfg.URL),
			zap.String("topic", topic),
			zap.Int("status_code", resp.StatusCode),
		)
		return
	}

	n.logger.Debug("webhook delivered",
		zap.String("topic", topic),
		zap.Int("status_code", resp.StatusCode),
	)
}
