package library

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Snapshot returns both collections as currently stored. Unlike the list
// methods it reports store failures.
func (l *Library) Snapshot(ctx context.Context) ([]SavedTheme, []string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	themes, err := l.readThemes(ctx)
	if err != nil {
		return nil, nil, err
	}
	projects, _, err := l.readRaw(ctx, l.projectsKey)
	if err != nil {
		return nil, nil, err
	}
	if projects == nil {
		projects = []string{}
	}
	return themes, projects, nil
}

// ImportResult counts what Import changed.
type ImportResult struct {
	Themes   int `json:"themes"`
	Projects int `json:"projects"`
	Skipped  int `json:"skipped"`
}

// Import adds themes and projects. With replace set both collections are
// overwritten; otherwise themes whose id already exists are skipped and
// projects are merged. Snapshots without an id receive a fresh one.
func (l *Library) Import(ctx context.Context, themes []SavedTheme, projects []string, replace bool) (ImportResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res ImportResult
	var curThemes []SavedTheme
	var curProjects []string
	if !replace {
		var err error
		if curThemes, err = l.readThemes(ctx); err != nil {
			return res, err
		}
		if curProjects, _, err = l.readRaw(ctx, l.projectsKey); err != nil {
			return res, err
		}
	} else if l.kv == nil {
		return res, errUnavailable
	}

	seen := make(map[string]bool, len(curThemes)+len(themes))
	for _, st := range curThemes {
		seen[st.ID] = true
	}
	for _, st := range themes {
		if st.ID == "" {
			st.ID = l.newID()
		}
		if seen[st.ID] {
			res.Skipped++
			continue
		}
		seen[st.ID] = true
		curThemes = append(curThemes, st)
		res.Themes++
	}

	known := make(map[string]bool, len(curProjects)+len(projects))
	for _, p := range curProjects {
		known[p] = true
	}
	for _, p := range projects {
		p = strings.TrimSpace(p)
		if p == "" || known[p] {
			continue
		}
		known[p] = true
		curProjects = append(curProjects, p)
		res.Projects++
	}

	themesValue, err := l.encodeThemes(curThemes)
	if err != nil {
		return res, err
	}
	values := map[string]string{
		l.themesKey:   themesValue,
		l.projectsKey: encodeProjects(curProjects),
	}
	if b, ok := l.kv.(Batcher); ok {
		err = b.SetMany(ctx, values)
	} else {
		for k, v := range values {
			if err = l.kv.Set(ctx, k, v); err != nil {
				break
			}
		}
	}
	observe("import", err == nil)
	if err != nil {
		return ImportResult{}, err
	}
	l.logger.Info("library import complete",
		zap.Bool("replace", replace),
		zap.Int("themes", res.Themes),
		zap.Int("projects", res.Projects),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
