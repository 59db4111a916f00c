package library

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/pkg/codec"
)

// SavedThemeResponse is the HTTP form of a SavedTheme.
// @Description A saved theme snapshot with its wire-shape theme.
type SavedThemeResponse struct {
	ID      string          `json:"id"`
	Project string          `json:"project,omitempty"`
	SavedAt int64           `json:"savedAt"`
	Theme   json.RawMessage `json:"theme"`
}

// SaveThemeRequest is the body of POST /api/v1/library/themes.
// @Description Request body for saving a theme to the library.
type SaveThemeRequest struct {
	Theme   json.RawMessage `json:"theme"`
	Project string          `json:"project,omitempty"`
}

// ProjectRequest carries a project name.
// @Description A project name.
type ProjectRequest struct {
	Name string `json:"name"`
}

// ThemeProjectRequest is the body of PUT /api/v1/library/themes/{id}/project.
// An empty project clears the tag.
// @Description Request body for retagging a saved theme.
type ThemeProjectRequest struct {
	Project string `json:"project"`
}

// ThemeProjectResponse confirms a retag.
type ThemeProjectResponse struct {
	ID      string `json:"id"`
	Project string `json:"project"`
}

// LibraryProblemDetail is the problem body of library errors.
// @Description RFC 7807 Problem Details error response.
type LibraryProblemDetail struct {
	Type   string `json:"type" example:"https://themeforge.dev/problems/library-error"`
	Title  string `json:"title" example:"Not Found"`
	Status int    `json:"status" example:"404"`
	Detail string `json:"detail,omitempty" example:"theme not found"`
}

// Handler serves the library over HTTP.
type Handler struct {
	lib    *Library
	logger *zap.Logger
}

// NewHandler creates a library Handler.
func NewHandler(lib *Library, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{lib: lib, logger: logger}
}

// RegisterRoutes registers the library routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/library/themes", h.handleListThemes)
	mux.HandleFunc("POST /api/v1/library/themes", h.handleSaveTheme)
	mux.HandleFunc("DELETE /api/v1/library/themes/{id}", h.handleDeleteTheme)
	mux.HandleFunc("PUT /api/v1/library/themes/{id}/project", h.handleUpdateThemeProject)

	mux.HandleFunc("GET /api/v1/library/projects", h.handleListProjects)
	mux.HandleFunc("POST /api/v1/library/projects", h.handleAddProject)
	mux.HandleFunc("DELETE /api/v1/library/projects/{name}", h.handleDeleteProject)
}

func toResponse(st SavedTheme) (SavedThemeResponse, error) {
	wire, err := codec.Marshal(st.Theme)
	if err != nil {
		return SavedThemeResponse{}, err
	}
	return SavedThemeResponse{ID: st.ID, Project: st.Project, SavedAt: st.SavedAt, Theme: wire}, nil
}

// handleListThemes returns saved themes, optionally filtered by ?project=.
// An empty project parameter selects untagged themes.
//
//	@Summary		List saved themes
//	@Description	List the library's saved themes, newest last. An empty project selects untagged themes.
//	@Tags			library
//	@Produce		json
//	@Param			project	query		string					false	"Filter by project tag"
//	@Success		200		{array}		SavedThemeResponse		"Saved themes"
//	@Router			/library/themes [get]
func (h *Handler) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes := h.lib.ListThemes(r.Context())
	if r.URL.Query().Has("project") {
		themes = FilterByProject(themes, r.URL.Query().Get("project"))
	}

	out := make([]SavedThemeResponse, 0, len(themes))
	for _, st := range themes {
		resp, err := toResponse(st)
		if err != nil {
			h.logger.Warn("skipping unencodable saved theme", zap.String("id", st.ID), zap.Error(err))
			continue
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSaveTheme saves a new snapshot.
//
//	@Summary		Save a theme
//	@Description	Store a snapshot of a theme, optionally tagged with a project.
//	@Tags			library
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SaveThemeRequest		true	"Theme to save"
//	@Success		201		{object}	SavedThemeResponse		"Saved theme"
//	@Failure		400		{object}	LibraryProblemDetail	"Invalid request or theme"
//	@Failure		503		{object}	LibraryProblemDetail	"Library store unavailable"
//	@Router			/library/themes [post]
func (h *Handler) handleSaveTheme(w http.ResponseWriter, r *http.Request) {
	var req SaveThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLibraryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := codec.Unmarshal(req.Theme)
	if err != nil {
		writeLibraryError(w, http.StatusBadRequest, "invalid theme: "+err.Error())
		return
	}

	st := h.lib.SaveTheme(r.Context(), t, strings.TrimSpace(req.Project))
	if st == nil {
		writeLibraryError(w, http.StatusServiceUnavailable, "library store unavailable")
		return
	}
	resp, err := toResponse(*st)
	if err != nil {
		writeLibraryError(w, http.StatusInternalServerError, "failed to encode saved theme")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

//	@Summary		Delete a saved theme
//	@Description	Remove a saved theme. Deleting an unknown id succeeds.
//	@Tags			library
//	@Param			id	path	string	true	"Theme ID"
//	@Success		204	"Deleted"
//	@Failure		503	{object}	LibraryProblemDetail	"Library store unavailable"
//	@Router			/library/themes/{id} [delete]
func (h *Handler) handleDeleteTheme(w http.ResponseWriter, r *http.Request) {
	if !h.lib.DeleteTheme(r.Context(), r.PathValue("id")) {
		writeLibraryError(w, http.StatusServiceUnavailable, "library store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//	@Summary		Retag a saved theme
//	@Description	Set or clear the project tag of a saved theme.
//	@Tags			library
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Theme ID"
//	@Param			request	body		ThemeProjectRequest		true	"New project, empty to clear"
//	@Success		200		{object}	ThemeProjectResponse	"Updated tag"
//	@Failure		400		{object}	LibraryProblemDetail	"Invalid request body"
//	@Failure		404		{object}	LibraryProblemDetail	"Theme not found"
//	@Router			/library/themes/{id}/project [put]
func (h *Handler) handleUpdateThemeProject(w http.ResponseWriter, r *http.Request) {
	var req ThemeProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLibraryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := r.PathValue("id")
	project := strings.TrimSpace(req.Project)
	if !h.lib.UpdateThemeProject(r.Context(), id, project) {
		writeLibraryError(w, http.StatusNotFound, "theme not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, ThemeProjectResponse{ID: id, Project: project})
}

//	@Summary		List projects
//	@Tags			library
//	@Produce		json
//	@Success		200	{array}	string	"Project names"
//	@Router			/library/projects [get]
func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lib.ListProjects(r.Context()))
}

//	@Summary		Add a project
//	@Description	Create a project tag. Names are trimmed; blank and duplicate names are rejected.
//	@Tags			library
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProjectRequest			true	"Project to add"
//	@Success		201		{object}	ProjectRequest			"Added project"
//	@Failure		400		{object}	LibraryProblemDetail	"Missing name"
//	@Failure		409		{object}	LibraryProblemDetail	"Duplicate or unstorable project"
//	@Router			/library/projects [post]
func (h *Handler) handleAddProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLibraryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeLibraryError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !h.lib.AddProject(r.Context(), name) {
		writeLibraryError(w, http.StatusConflict, "project already exists or could not be stored: "+name)
		return
	}
	writeJSON(w, http.StatusCreated, ProjectRequest{Name: name})
}

//	@Summary		Delete a project
//	@Description	Remove a project and clear its tag from every saved theme.
//	@Tags			library
//	@Param			name	path	string	true	"Project name"
//	@Success		204		"Deleted"
//	@Failure		503		{object}	LibraryProblemDetail	"Library store unavailable"
//	@Router			/library/projects/{name} [delete]
func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if !h.lib.DeleteProject(r.Context(), r.PathValue("name")) {
		writeLibraryError(w, http.StatusServiceUnavailable, "library store unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeLibraryError writes an RFC 7807 problem response.
func writeLibraryError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(LibraryProblemDetail{
		Type:   "https://themeforge.dev/problems/library-error",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
