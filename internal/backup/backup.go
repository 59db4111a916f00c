// Package backup writes and restores gzip-compressed JSON archives of the
// theme library.
package backup

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HerbHall/themeforge/internal/library"
	"github.com/HerbHall/themeforge/internal/version"
	"github.com/HerbHall/themeforge/pkg/codec"
)

// FormatVersion is the archive layout version written by Export.
const FormatVersion = 1

// maxArchiveBytes bounds the decompressed size Import will read.
const maxArchiveBytes = 256 << 20

// ErrUnsupportedFormat is returned for archives written by a newer layout.
var ErrUnsupportedFormat = errors.New("unsupported backup format")

// Source provides the library contents to archive.
type Source interface {
	Snapshot(ctx context.Context) ([]library.SavedTheme, []string, error)
}

// Sink receives restored library contents.
type Sink interface {
	Import(ctx context.Context, themes []library.SavedTheme, projects []string, replace bool) (library.ImportResult, error)
}

// Archive is the decompressed archive document.
type Archive struct {
	Format     int             `json:"format"`
	AppVersion string          `json:"appVersion"`
	CreatedAt  time.Time       `json:"createdAt"`
	Themes     []ArchivedTheme `json:"themes"`
	Projects   []string        `json:"projects"`
}

// ArchivedTheme is one saved theme in wire form.
type ArchivedTheme struct {
	ID      string          `json:"id"`
	Project string          `json:"project,omitempty"`
	SavedAt int64           `json:"savedAt"`
	Theme   json.RawMessage `json:"theme"`
}

// Export writes a gzip JSON archive of src to w.
func Export(ctx context.Context, src Source, w io.Writer) (Archive, error) {
	themes, projects, err := src.Snapshot(ctx)
	if err != nil {
		return Archive{}, fmt.Errorf("reading library: %w", err)
	}

	a := Archive{
		Format:     FormatVersion,
		AppVersion: version.Short(),
		CreatedAt:  time.Now().UTC(),
		Themes:     make([]ArchivedTheme, 0, len(themes)),
		Projects:   projects,
	}
	for _, st := range themes {
		wire, err := codec.Marshal(st.Theme)
		if err != nil {
			return Archive{}, fmt.Errorf("encoding theme %s: %w", st.ID, err)
		}
		a.Themes = append(a.Themes, ArchivedTheme{ID: st.ID, Project: st.Project, SavedAt: st.SavedAt, Theme: wire})
	}

	gw := gzip.NewWriter(w)
	gw.Name = "themeforge-library.json"
	gw.ModTime = a.CreatedAt
	if err := json.NewEncoder(gw).Encode(a); err != nil {
		return Archive{}, fmt.Errorf("writing archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return Archive{}, fmt.Errorf("closing archive: %w", err)
	}
	return a, nil
}

// Read decodes an archive from r without applying it.
func Read(r io.Reader) (Archive, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return Archive{}, fmt.Errorf("decompressing archive: %w", err)
	}
	defer gr.Close()

	var a Archive
	if err := json.NewDecoder(io.LimitReader(gr, maxArchiveBytes)).Decode(&a); err != nil {
		return Archive{}, fmt.Errorf("decoding archive: %w", err)
	}
	if a.Format < 1 || a.Format > FormatVersion {
		return Archive{}, fmt.Errorf("%w: %d", ErrUnsupportedFormat, a.Format)
	}
	return a, nil
}

// Import reads an archive from r and applies it to dst. Every theme must
// decode; a single invalid entry aborts the import before anything is
// written.
func Import(ctx context.Context, dst Sink, r io.Reader, replace bool) (library.ImportResult, error) {
	a, err := Read(r)
	if err != nil {
		return library.ImportResult{}, err
	}

	themes := make([]library.SavedTheme, 0, len(a.Themes))
	for i, at := range a.Themes {
		t, err := codec.Unmarshal(at.Theme)
		if err != nil {
			return library.ImportResult{}, fmt.Errorf("theme %d (%s): %w", i, at.ID, err)
		}
		themes = append(themes, library.SavedTheme{ID: at.ID, Theme: t, Project: at.Project, SavedAt: at.SavedAt})
	}

	res, err := dst.Import(ctx, themes, a.Projects, replace)
	if err != nil {
		return library.ImportResult{}, fmt.Errorf("importing archive: %w", err)
	}
	return res, nil
}

// Backup writes an archive of src to path. It refuses to overwrite an
// existing file unless force is true.
func Backup(ctx context.Context, src Source, path string, force bool) (Archive, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return Archive{}, fmt.Errorf("file already exists (use --force to overwrite): %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Archive{}, fmt.Errorf("creating target directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".themeforge-backup-*")
	if err != nil {
		return Archive{}, fmt.Errorf("creating archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	a, err := Export(ctx, src, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Archive{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Archive{}, fmt.Errorf("finalizing archive: %w", err)
	}
	return a, nil
}

// Restore applies the archive at path to dst.
func Restore(ctx context.Context, dst Sink, path string, replace bool) (library.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return library.ImportResult{}, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()
	return Import(ctx, dst, f, replace)
}
