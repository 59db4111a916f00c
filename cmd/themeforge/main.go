// Command themeforge serves the theme editor API and offers share, export and
// backup tools.
//
//	@title			themeforge API
//	@version		0.1.0
//	@description	Theme authoring: mutation engine, share URLs, CSS export and the saved theme library.
//	@BasePath		/api/v1
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/config"
	"github.com/HerbHall/themeforge/internal/editor"
	"github.com/HerbHall/themeforge/internal/event"
	"github.com/HerbHall/themeforge/internal/library"
	"github.com/HerbHall/themeforge/internal/server"
	"github.com/HerbHall/themeforge/internal/store"
	"github.com/HerbHall/themeforge/internal/urlstate"
	"github.com/HerbHall/themeforge/internal/version"
	"github.com/HerbHall/themeforge/internal/webhook"
	"github.com/HerbHall/themeforge/internal/ws"
	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/theme"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		var err error
		handled := true
		switch os.Args[1] {
		case "serve":
			os.Args = append(os.Args[:1], os.Args[2:]...)
			handled = false
		case "share":
			err = runShare(os.Args[2:], os.Stdin, os.Stdout)
		case "open":
			err = runOpen(os.Args[2:], os.Stdout)
		case "export":
			err = runExport(os.Args[2:], os.Stdin, os.Stdout)
		case "watch":
			err = runWatch(os.Args[2:], os.Stdout)
		case "backup":
			err = runBackup(os.Args[2:], os.Stdout)
		case "restore":
			err = runRestore(os.Args[2:], os.Stdout)
		case "version":
			fmt.Println(version.Info())
		default:
			handled = false
		}
		if handled {
			if err != nil {
				fmt.Fprintf(os.Stderr, "themeforge %s: %v\n", os.Args[1], err)
				os.Exit(1)
			}
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := serve(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// setup loads configuration and builds the logger.
func setup(configPath string) (config.Config, *zap.Logger, error) {
	v, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if f := v.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Debug("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}
	return cfg, logger, nil
}

// openLibrary opens the database, checks its version and returns the
// library over its settings table. The caller closes the store.
func openLibrary(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...library.Option) (*library.Library, *store.SQLiteStore, error) {
	dbPath := cfg.Database.Path
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := store.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		db.Close()
		return nil, nil, err
	}
	settings, err := store.NewSettingsRepository(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initializing settings: %w", err)
	}

	opts = append([]library.Option{library.WithKeys(cfg.Library.ThemesKey, cfg.Library.ProjectsKey)}, opts...)
	return library.New(settings, logger.Named("library"), opts...), db, nil
}

func serve(cfg config.Config, logger *zap.Logger) error {
	logger.Info("themeforge server starting", zap.String("version", version.Short()))

	ctx := context.Background()
	bus := event.NewBus(logger.Named("event"))
	lib, db, err := openLibrary(ctx, cfg, logger, library.WithPublisher(bus))
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", cfg.Database.Path),
	)

	c := codec.New(logger.Named("codec"))
	urls := urlstate.NewAdapter(c, logger.Named("urlstate"))
	ed := theme.NewEditor(logger.Named("editor")).WithIncrement(cfg.Editor.LightnessIncrement)

	wsHandler := ws.NewHandler(bus, cfg.Server.AllowedOrigins, logger.Named("ws"))
	defer wsHandler.Close()

	notifier := webhook.New(webhook.Config{URL: cfg.Webhook.URL, Timeout: cfg.Webhook.Timeout}, logger.Named("webhook"))
	notifier.Start(bus)
	defer notifier.Close()

	srv := server.New(server.Options{
		Addr:             cfg.Server.Addr(),
		ReadOnly:         cfg.Server.ReadOnly,
		ReadOnlyPrefixes: []string{"/api/v1/library/"},
		RateLimitRPS:     cfg.Server.RateLimit.RPS,
		RateLimitBurst:   cfg.Server.RateLimit.Burst,
		DevMode:          cfg.Server.DevMode,
	}, logger, db.Ping,
		library.NewHandler(lib, logger.Named("library")),
		editor.NewHandler(ed, urls, cfg.Share.BaseURL, logger.Named("editor")),
		wsHandler,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("themeforge server ready", zap.String("addr", cfg.Server.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("themeforge server stopped")
	return nil
}
