package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "themeforge.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func tempSettings(t *testing.T) (*SQLiteStore, *SettingsRepository) {
	t.Helper()
	s := tempDB(t)
	repo, err := NewSettingsRepository(context.Background(), s)
	if err != nil {
		t.Fatalf("NewSettingsRepository: %v", err)
	}
	return s, repo
}

func TestNew_OpensWithPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	tests := []struct {
		pragma string
		want   string
	}{
		{pragma: "PRAGMA journal_mode", want: "wal"},
		{pragma: "PRAGMA foreign_keys", want: "1"},
		{pragma: "PRAGMA busy_timeout", want: "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRowContext(context.Background(), tt.pragma).Scan(&got); err != nil {
			t.Fatalf("%s: %v", tt.pragma, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent", "dir", "x.db")); err == nil {
		t.Error("expected error when the parent directory does not exist")
	}
}

func TestSettingsMigration_AppliedOnce(t *testing.T) {
	s, _ := tempSettings(t)
	ctx := context.Background()

	// Reopening the repository must not rerun the table creation.
	if _, err := NewSettingsRepository(ctx, s); err != nil {
		t.Fatalf("second NewSettingsRepository: %v", err)
	}

	var count int
	if err := s.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM _migrations WHERE component = 'settings'").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != len(settingsMigrations) {
		t.Errorf("settings migrations recorded = %d, want %d", count, len(settingsMigrations))
	}

	var desc string
	if err := s.DB().QueryRowContext(ctx,
		"SELECT description FROM _migrations WHERE component = 'settings' AND version = 1").Scan(&desc); err != nil {
		t.Fatalf("query migration row: %v", err)
	}
	if desc != settingsMigrations[0].Description {
		t.Errorf("description = %q", desc)
	}
}

func TestMigrate_FailureLeavesNoTrace(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	failing := []Migration{
		{Version: 1, Description: "create themes index", Up: func(tx *sql.Tx) error {
			_, err := tx.Exec("CREATE TABLE theme_index (id TEXT PRIMARY KEY)")
			return err
		}},
		{Version: 2, Description: "broken step", Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec("CREATE TABLE half_done (id TEXT)"); err != nil {
				return err
			}
			return errors.New("boom")
		}},
	}
	err := s.Migrate(ctx, "index", failing)
	if err == nil {
		t.Fatal("expected migration error")
	}

	var name string
	err = s.DB().QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'half_done'").Scan(&name)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("failed migration left table behind (err = %v)", err)
	}

	var versions int
	if err := s.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM _migrations WHERE component = 'index'").Scan(&versions); err != nil {
		t.Fatal(err)
	}
	if versions != 1 {
		t.Errorf("recorded versions = %d, want 1 (the successful step)", versions)
	}

	// A fixed second step resumes after the recorded one.
	failing[1].Up = func(tx *sql.Tx) error { return nil }
	if err := s.Migrate(ctx, "index", failing); err != nil {
		t.Fatalf("retry Migrate: %v", err)
	}
}

func TestSetMany_AllOrNothing(t *testing.T) {
	s, repo := tempSettings(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "themeforge.library.projects", `["web"]`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DB().ExecContext(ctx, `
		CREATE TRIGGER reject_poison BEFORE INSERT ON settings
		WHEN NEW.key = 'poison'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	err := repo.SetMany(ctx, map[string]string{
		"themeforge.library.projects": `[]`,
		"themeforge.library.themes":   `[]`,
		"poison":                      "x",
	})
	if err == nil {
		t.Fatal("SetMany succeeded with a rejected key")
	}

	got, err := repo.Get(ctx, "themeforge.library.projects")
	if err != nil || got != `["web"]` {
		t.Errorf("projects = %q, %v; want the value from before the failed batch", got, err)
	}
	if _, err := repo.Get(ctx, "themeforge.library.themes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("themes key written by failed batch (err = %v)", err)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name       string
		stored     string // empty means first run
		current    string
		wantErr    error
		wantStored string
	}{
		{name: "first run", current: "1.0.0", wantStored: "1.0.0"},
		{name: "same", stored: "1.0.0", current: "1.0.0", wantStored: "1.0.0"},
		{name: "upgrade", stored: "1.0.0", current: "1.2.0", wantStored: "1.2.0"},
		{name: "patch with prefix", stored: "v1.2.0", current: "1.2.1", wantStored: "1.2.1"},
		{name: "downgrade rejected", stored: "2.0.0", current: "1.9.0", wantErr: ErrNewerSchema, wantStored: "2.0.0"},
		{name: "dev binary", stored: "3.0.0", current: "dev", wantStored: "dev"},
		{name: "dev database", stored: "dev", current: "0.1.0", wantStored: "0.1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempDB(t)
			ctx := context.Background()
			if tt.stored != "" {
				if err := s.CheckVersion(ctx, tt.stored); err != nil {
					t.Fatalf("seed CheckVersion(%q): %v", tt.stored, err)
				}
			}

			err := s.CheckVersion(ctx, tt.current)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CheckVersion(%q) = %v, want %v", tt.current, err, tt.wantErr)
			}

			var stored string
			if err := s.DB().QueryRowContext(ctx,
				"SELECT app_version FROM _schema_meta WHERE id = 1").Scan(&stored); err != nil {
				t.Fatal(err)
			}
			if stored != tt.wantStored {
				t.Errorf("stored version = %q, want %q", stored, tt.wantStored)
			}
		})
	}
}

func TestPing_AfterClose(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New memory: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping after Close succeeded")
	}
}
