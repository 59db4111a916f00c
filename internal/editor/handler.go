// Package editor serves the theme editing API: mutations, share URLs and
// CSS export over stateless wire-shape themes.
package editor

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/HerbHall/themeforge/internal/export"
	"github.com/HerbHall/themeforge/internal/urlstate"
	"github.com/HerbHall/themeforge/pkg/codec"
	"github.com/HerbHall/themeforge/pkg/theme"
)

const maxBodyBytes = 1 << 20

// ShareRequest is the body of POST /api/v1/editor/share.
// @Description Request body for building a share URL.
type ShareRequest struct {
	Theme json.RawMessage `json:"theme"`
	// BaseURL overrides the configured share base URL.
	BaseURL string `json:"baseUrl,omitempty"`
}

// ShareResponse carries a share URL.
// @Description A share URL and the encoded theme parameter it carries.
type ShareResponse struct {
	URL     string `json:"url"`
	Encoded string `json:"encoded"`
}

// EditorProblemDetail is the problem body of editor errors.
// @Description RFC 7807 Problem Details error response.
type EditorProblemDetail struct {
	Type   string `json:"type" example:"https://themeforge.dev/problems/editor-error"`
	Title  string `json:"title" example:"Unprocessable Entity"`
	Status int    `json:"status" example:"422"`
	Detail string `json:"detail,omitempty" example:"mutation rejected: group not found"`
}

// Handler serves the editor API.
type Handler struct {
	editor  *theme.Editor
	urls    *urlstate.Adapter
	baseURL string
	logger  *zap.Logger
}

// NewHandler creates an editor Handler. baseURL is the page share links
// point at.
func NewHandler(editor *theme.Editor, urls *urlstate.Adapter, baseURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if editor == nil {
		editor = theme.NewEditor(logger)
	}
	if urls == nil {
		urls = urlstate.NewAdapter(nil, logger)
	}
	return &Handler{editor: editor, urls: urls, baseURL: baseURL, logger: logger}
}

// RegisterRoutes registers the editor routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/editor/default", h.handleDefault)
	mux.HandleFunc("GET /api/v1/editor/ops", h.handleOps)
	mux.HandleFunc("POST /api/v1/editor/mutate", h.handleMutate)
	mux.HandleFunc("POST /api/v1/editor/share", h.handleShare)
	mux.HandleFunc("GET /api/v1/editor/open", h.handleOpen)
	mux.HandleFunc("POST /api/v1/editor/css", h.handleCSS)
}

// Apply runs the named mutation against t. Rejections wrap
// theme.ErrMutationRejected and are reported through the editor's logger.
func (h *Handler) Apply(t theme.Theme, req MutateRequest) (theme.Theme, error) {
	fn, ok := ops[req.Op]
	if !ok {
		return t, errUnknownOp
	}
	next, err := fn(t, req, h.editor.Increment())
	if errors.Is(err, theme.ErrMutationRejected) {
		h.editor.Report(req.Op, err)
	}
	return next, err
}

var errUnknownOp = errors.New("unknown operation")

//	@Summary		Default theme
//	@Description	Get the starter theme new editing sessions begin with.
//	@Tags			editor
//	@Produce		json
//	@Success		200	{object}	object	"Wire-shape theme"
//	@Router			/editor/default [get]
func (h *Handler) handleDefault(w http.ResponseWriter, _ *http.Request) {
	h.writeTheme(w, http.StatusOK, theme.Default())
}

//	@Summary		List mutations
//	@Description	List the operation names accepted by the mutate endpoint.
//	@Tags			editor
//	@Produce		json
//	@Success		200	{array}	string	"Sorted operation names"
//	@Router			/editor/ops [get]
func (h *Handler) handleOps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Ops())
}

//	@Summary		Apply a mutation
//	@Description	Apply one named mutation to the posted theme and return the result.
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MutateRequest			true	"Operation, arguments and theme"
//	@Success		200		{object}	object					"Mutated wire-shape theme"
//	@Failure		400		{object}	EditorProblemDetail		"Unknown operation or malformed input"
//	@Failure		422		{object}	EditorProblemDetail		"Mutation rejected"
//	@Router			/editor/mutate [post]
func (h *Handler) handleMutate(w http.ResponseWriter, r *http.Request) {
	var req MutateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeEditorError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := codec.Unmarshal(req.Theme)
	if err != nil {
		writeEditorError(w, http.StatusBadRequest, "invalid theme: "+err.Error())
		return
	}

	next, err := h.Apply(t, req)
	switch {
	case err == nil:
		h.writeTheme(w, http.StatusOK, next)
	case errors.Is(err, errUnknownOp):
		writeEditorError(w, http.StatusBadRequest, "unknown operation "+req.Op)
	case errors.Is(err, errBadArgs):
		writeEditorError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, theme.ErrMutationRejected):
		writeEditorError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeEditorError(w, http.StatusInternalServerError, err.Error())
	}
}

//	@Summary		Build a share URL
//	@Tags			editor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ShareRequest			true	"Theme and optional base URL"
//	@Success		200		{object}	ShareResponse			"Share URL"
//	@Failure		400		{object}	EditorProblemDetail		"Invalid or unshareable theme"
//	@Router			/editor/share [post]
func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeEditorError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := codec.Unmarshal(req.Theme)
	if err != nil {
		writeEditorError(w, http.StatusBadRequest, "invalid theme: "+err.Error())
		return
	}
	encoded, err := codec.Encode(t)
	if err != nil {
		writeEditorError(w, http.StatusBadRequest, "theme cannot be shared: "+err.Error())
		return
	}

	base := req.BaseURL
	if base == "" {
		base = h.baseURL
	}
	writeJSON(w, http.StatusOK, ShareResponse{URL: h.urls.Write(t, base), Encoded: encoded})
}

// handleOpen decodes the theme carried by ?url=.
//
//	@Summary		Open a share URL
//	@Tags			editor
//	@Produce		json
//	@Param			url	query		string					true	"Share URL"
//	@Success		200	{object}	object					"Wire-shape theme"
//	@Failure		400	{object}	EditorProblemDetail		"Missing url parameter"
//	@Failure		404	{object}	EditorProblemDetail		"URL carries no readable theme"
//	@Router			/editor/open [get]
func (h *Handler) handleOpen(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeEditorError(w, http.StatusBadRequest, "url parameter is required")
		return
	}
	t, ok := h.urls.Read(raw)
	if !ok {
		writeEditorError(w, http.StatusNotFound, "url carries no readable theme")
		return
	}
	h.writeTheme(w, http.StatusOK, t)
}

// handleCSS renders the posted wire theme as CSS. ?format= selects oklch
// (default) or hex; ?selector= overrides ":root".
//
//	@Summary		Export CSS
//	@Description	Render the posted theme as CSS custom properties.
//	@Tags			editor
//	@Accept			json
//	@Produce		text/css
//	@Param			format		query		string					false	"oklch (default) or hex"
//	@Param			selector	query		string					false	"Rule selector, default :root"
//	@Success		200			{string}	string					"CSS"
//	@Failure		400			{object}	EditorProblemDetail		"Invalid format or theme"
//	@Router			/editor/css [post]
func (h *Handler) handleCSS(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeEditorError(w, http.StatusBadRequest, err.Error())
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		writeEditorError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := codec.Unmarshal(raw)
	if err != nil {
		writeEditorError(w, http.StatusBadRequest, "invalid theme: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, t, export.Options{Format: format, Selector: r.URL.Query().Get("selector")}); err != nil {
		h.logger.Debug("css write failed", zap.Error(err))
	}
}

func (h *Handler) writeTheme(w http.ResponseWriter, status int, t theme.Theme) {
	data, err := codec.Marshal(t)
	if err != nil {
		writeEditorError(w, http.StatusUnprocessableEntity, "theme cannot be encoded: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEditorError writes an RFC 7807 problem response.
func writeEditorError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(EditorProblemDetail{
		Type:   "https://themeforge.dev/problems/editor-error",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
