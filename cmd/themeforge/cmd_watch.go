package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/urlstate"
)

// printLocation is a Location whose replacements are written to w, one URL
// per line.
type printLocation struct {
	mu  sync.Mutex
	url string
	w   io.Writer
}

func (l *printLocation) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url
}

func (l *printLocation) Replace(newURL string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url = newURL
	fmt.Fprintln(l.w, newURL)
}

// themeWatcher keeps a share URL in step with a theme file.
type themeWatcher struct {
	path     string
	adapter  *urlstate.Adapter
	loc      urlstate.Location
	debounce *urlstate.Debouncer
	logger   *zap.Logger
}

// reload reads the file and syncs the location. Unreadable intermediate
// saves are logged and skipped.
func (tw *themeWatcher) reload() {
	t, err := readTheme(tw.path, nil)
	if err != nil {
		tw.logger.Warn("skipping unreadable theme file", zap.String("path", tw.path), zap.Error(err))
		return
	}
	tw.adapter.Sync(tw.loc, t)
}

// run schedules a reload for every change to the watched file until ctx ends
// or events closes. A pending reload is flushed on return.
func (tw *themeWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	defer tw.debounce.Flush()
	target := filepath.Clean(tw.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				tw.debounce.Do(tw.reload)
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			tw.logger.Warn("file watch error", zap.Error(err))
		}
	}
}

// runWatch prints a fresh share URL each time a theme file settles after
// edits.
func runWatch(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	base := fs.String("base", "", "page the share URL points at (default share.base_url)")
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: themeforge watch [-base url] <theme.json>")
	}
	path := fs.Arg(0)

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	baseURL := *base
	if baseURL == "" {
		baseURL = cfg.Share.BaseURL
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	tw := &themeWatcher{
		path:     path,
		adapter:  urlstate.NewAdapter(nil, logger.Named("urlstate")),
		loc:      &printLocation{url: baseURL, w: stdout},
		debounce: urlstate.NewDebouncer(cfg.Share.Debounce),
		logger:   logger.Named("watch"),
	}
	if _, err := os.Stat(path); err == nil {
		tw.reload()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	tw.run(ctx, watcher.Events, watcher.Errors)
	return nil
}
