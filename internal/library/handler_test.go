package library_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/library"
	"github.com/HerbHall/themeforge/internal/testutil"
	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/theme"
)

func setupHandlerEnv(t *testing.T) (*library.Library, *http.ServeMux) {
	t.Helper()
	repo := testutil.NewSettings(t)
	logger, _ := zap.NewDevelopment()
	lib := library.New(repo, logger)

	mux := http.NewServeMux()
	library.NewHandler(lib, logger).RegisterRoutes(mux)
	return lib, mux
}

func doRequest(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func wireTheme(t *testing.T, th theme.Theme) json.RawMessage {
	t.Helper()
	data, err := codec.Marshal(th)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestHandleSaveAndListThemes(t *testing.T) {
	_, mux := setupHandlerEnv(t)
	th := testutil.NewTheme(testutil.WithName("Ocean"))

	w := doRequest(mux, "POST", "/api/v1/library/themes", library.SaveThemeRequest{Theme: wireTheme(t, th), Project: "web"})
	if w.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}
	var saved library.SavedThemeResponse
	if err := json.NewDecoder(w.Body).Decode(&saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.ID == "" || saved.Project != "web" || saved.SavedAt == 0 {
		t.Errorf("saved = %+v", saved)
	}

	doRequest(mux, "POST", "/api/v1/library/themes", library.SaveThemeRequest{Theme: wireTheme(t, theme.Default())})

	tests := []struct {
		path string
		want int
	}{
		{path: "/api/v1/library/themes", want: 2},
		{path: "/api/v1/library/themes?project=web", want: 1},
		{path: "/api/v1/library/themes?project=", want: 1},
		{path: "/api/v1/library/themes?project=none", want: 0},
	}
	for _, tt := range tests {
		w := doRequest(mux, "GET", tt.path, nil)
		var list []library.SavedThemeResponse
		if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
			t.Fatalf("%s decode: %v", tt.path, err)
		}
		if len(list) != tt.want {
			t.Errorf("%s returned %d themes, want %d", tt.path, len(list), tt.want)
		}
	}

	w = doRequest(mux, "GET", "/api/v1/library/themes?project=web", nil)
	var list []library.SavedThemeResponse
	_ = json.NewDecoder(w.Body).Decode(&list)
	got, err := codec.Unmarshal(list[0].Theme)
	if err != nil || !got.Equal(th) {
		t.Errorf("listed theme does not round trip: %v", err)
	}
}

func TestHandleSaveTheme_Invalid(t *testing.T) {
	_, mux := setupHandlerEnv(t)
	req := httptest.NewRequest("POST", "/api/v1/library/themes", bytes.NewBufferString("{bad"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d", w.Code)
	}

	w = doRequest(mux, "POST", "/api/v1/library/themes", map[string]any{"theme": map[string]any{"name": "x"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHandleDeleteTheme(t *testing.T) {
	lib, mux := setupHandlerEnv(t)
	st := lib.SaveTheme(context.Background(), theme.Default(), "")

	for i := 0; i < 2; i++ {
		if w := doRequest(mux, "DELETE", "/api/v1/library/themes/"+st.ID, nil); w.Code != http.StatusNoContent {
			t.Errorf("delete #%d status = %d", i+1, w.Code)
		}
	}
	if n := len(lib.ListThemes(context.Background())); n != 0 {
		t.Errorf("themes after delete = %d", n)
	}
}

func TestHandleUpdateThemeProject(t *testing.T) {
	lib, mux := setupHandlerEnv(t)
	st := lib.SaveTheme(context.Background(), theme.Default(), "")

	w := doRequest(mux, "PUT", "/api/v1/library/themes/"+st.ID+"/project", library.ThemeProjectRequest{Project: "web"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := lib.ListThemes(context.Background())[0].Project; got != "web" {
		t.Errorf("project = %q", got)
	}

	w = doRequest(mux, "PUT", "/api/v1/library/themes/nope/project", library.ThemeProjectRequest{Project: "web"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d", w.Code)
	}
}

func TestHandleProjects(t *testing.T) {
	lib, mux := setupHandlerEnv(t)
	ctx := context.Background()

	if w := doRequest(mux, "POST", "/api/v1/library/projects", library.ProjectRequest{Name: " web "}); w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}
	if w := doRequest(mux, "POST", "/api/v1/library/projects", library.ProjectRequest{Name: "web"}); w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", w.Code)
	}
	if w := doRequest(mux, "POST", "/api/v1/library/projects", library.ProjectRequest{Name: "  "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank status = %d", w.Code)
	}

	w := doRequest(mux, "GET", "/api/v1/library/projects", nil)
	var projects []string
	_ = json.NewDecoder(w.Body).Decode(&projects)
	if len(projects) != 1 || projects[0] != "web" {
		t.Errorf("projects = %v", projects)
	}

	st := lib.SaveTheme(ctx, theme.Default(), "web")
	if w := doRequest(mux, "DELETE", "/api/v1/library/projects/web", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	for _, saved := range lib.ListThemes(ctx) {
		if saved.ID == st.ID && saved.Project != "" {
			t.Errorf("project tag not cleared: %q", saved.Project)
		}
	}
}

func TestHandleUnavailableStore(t *testing.T) {
	mux := http.NewServeMux()
	library.NewHandler(library.New(nil, zap.NewNop()), nil).RegisterRoutes(mux)

	w := doRequest(mux, "POST", "/api/v1/library/themes", library.SaveThemeRequest{Theme: wireTheme(t, theme.Default())})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("save status = %d", w.Code)
	}
	if w := doRequest(mux, "DELETE", "/api/v1/library/themes/x", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("delete status = %d", w.Code)
	}
	w = doRequest(mux, "GET", "/api/v1/library/themes", nil)
	if w.Code != http.StatusOK || bytes.TrimSpace(w.Body.Bytes())[0] != '[' {
		t.Errorf("list = %d %s", w.Code, w.Body.String())
	}
}
