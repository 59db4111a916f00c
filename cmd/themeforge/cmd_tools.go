package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/export"
	"github.com/HerbHall/themeforge/internal/urlstate"
	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// readTheme decodes a wire-shape theme from path, or from stdin when path is
// empty or "-".
func readTheme(path string, stdin io.Reader) (theme.Theme, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return theme.Theme{}, fmt.Errorf("reading theme: %w", err)
	}
	t, err := codec.Unmarshal(data)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("decoding theme: %w", err)
	}
	return t, nil
}

// shareBase resolves the share base URL from -base or the configuration.
func shareBase(base, configPath string) (string, error) {
	if base != "" {
		return base, nil
	}
	cfg, _, err := setup(configPath)
	if err != nil {
		return "", err
	}
	return cfg.Share.BaseURL, nil
}

// runShare prints the share URL of a theme file.
func runShare(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	base := fs.String("base", "", "page the share URL points at (default share.base_url)")
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := readTheme(fs.Arg(0), stdin)
	if err != nil {
		return err
	}
	if _, err := codec.Encode(t); err != nil {
		return fmt.Errorf("theme cannot be shared: %w", err)
	}
	baseURL, err := shareBase(*base, *configPath)
	if err != nil {
		return err
	}

	shareURL := urlstate.NewAdapter(nil, zap.NewNop()).Write(t, baseURL)
	_, err = fmt.Fprintln(stdout, shareURL)
	return err
}

// runOpen prints the wire-shape theme carried by a share URL.
func runOpen(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: themeforge open <url>")
	}

	t, ok := urlstate.NewAdapter(nil, zap.NewNop()).Read(fs.Arg(0))
	if !ok {
		return fmt.Errorf("url carries no readable theme")
	}
	data, err := codec.Marshal(t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

// runExport prints a theme file as CSS custom properties.
func runExport(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "oklch", "color format: oklch or hex")
	selector := fs.String("selector", ":root", "CSS selector of the rule")
	out := fs.String("o", "", "write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	t, err := readTheme(fs.Arg(0), stdin)
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer file.Close()
		w = file
	}
	return export.Write(w, t, export.Options{Format: f, Selector: *selector})
}
