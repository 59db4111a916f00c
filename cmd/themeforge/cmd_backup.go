package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/HerbHall/themeforge/internal/backup"
)

func runBackup(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	out := fs.String("o", "", "archive path (default themeforge-backup-<timestamp>.json.gz)")
	force := fs.Bool("force", false, "overwrite an existing archive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	lib, db, err := openLibrary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	path := *out
	if path == "" {
		path = fmt.Sprintf("themeforge-backup-%s.json.gz", time.Now().UTC().Format("20060102-150405"))
	}
	a, err := backup.Backup(ctx, lib, path, *force)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "wrote %s: %d themes, %d projects\n", path, len(a.Themes), len(a.Projects))
	return err
}

func runRestore(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to configuration file")
	replace := fs.Bool("replace", false, "replace the library instead of merging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: themeforge restore [-replace] <archive>")
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	lib, db, err := openLibrary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := backup.Restore(ctx, lib, fs.Arg(0), *replace)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "restored %d themes, %d projects (%d skipped)\n", res.Themes, res.Projects, res.Skipped)
	return err
}
