package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/amonks/todolist/internal/logging"
	internalstrings "github.com/amonks/todolist/internal/strings"
	"github.com/amonks/todolist/media"
	"github.com/amonks/todolist/todo"
)

const (
	indexPath = "/web/"

	defaultMaxUploadBytes = 64 << 20
)

// Options configures the web handler.
type Options struct {
	Store  *todo.Store
	Logger *slog.Logger

	// Theme is the initial theme. Empty means DefaultTheme.
	Theme    string
	DarkMode bool

	// MaxUploadBytes caps multipart request bodies.
	MaxUploadBytes int64
}

// Handler serves the HTML client.
type Handler struct {
	store          *todo.Store
	logger         *slog.Logger
	mux            *http.ServeMux
	templates      *templateWrapper
	maxUploadBytes int64

	mu       sync.Mutex
	theme    string
	darkMode bool
	flash    []string
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	theme, err := normalizeTheme(opts.Theme)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	handler := &Handler{
		store:          opts.Store,
		logger:         logger,
		templates:      newTemplateWrapper(),
		maxUploadBytes: maxUpload,
		theme:          theme,
		darkMode:       opts.DarkMode,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /web/{$}", handler.handleIndex)
	mux.HandleFunc("POST /web/draft", handler.handleDraftSave)
	mux.HandleFunc("POST /web/draft/image", handler.handleDraftImage)
	mux.HandleFunc("POST /web/draft/image/clear", handler.handleDraftImageClear)
	mux.HandleFunc("POST /web/todos/create", handler.handleTodosCreate)
	mux.HandleFunc("POST /web/todos/{id}/toggle", handler.handleTodoToggle)
	mux.HandleFunc("POST /web/todos/{id}/delete", handler.handleTodoDelete)
	mux.HandleFunc("POST /web/todos/{id}/media", handler.handleMediaAttach)
	mux.HandleFunc("POST /web/todos/{id}/media/{index}/delete", handler.handleMediaRemove)
	mux.HandleFunc("POST /web/prefs", handler.handlePrefs)
	handler.mux = mux
	return handler, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	Theme       string
	DarkMode    bool
	Themes      []themeOption
	Todos       []todoView
	Remaining   int
	Draft       todo.Draft
	Errors      []string
	Accept      string
	ImageAccept string
}

type todoView struct {
	todo.Todo
	IDPrefix string
	IDRest   string
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	lengths := todo.NewIDIndex(snapshot.Items).PrefixLengths()

	views := make([]todoView, 0, len(snapshot.Items))
	remaining := 0
	for _, item := range snapshot.Items {
		prefixLen := min(max(lengths[strings.ToLower(item.ID)], 1), len(item.ID))
		views = append(views, todoView{Todo: item, IDPrefix: item.ID[:prefixLen], IDRest: item.ID[prefixLen:]})
		if !item.Completed {
			remaining++
		}
	}

	h.mu.Lock()
	data := pageData{
		Theme:    h.theme,
		DarkMode: h.darkMode,
		Errors:   h.flash,
	}
	h.flash = nil
	h.mu.Unlock()

	policy := h.store.Policy()
	data.Themes = themeOptions
	data.Todos = views
	data.Remaining = remaining
	data.Draft = snapshot.Draft
	data.Accept = strings.Join(policy.Types(), ",")
	data.ImageAccept = strings.Join(imageTypes(policy), ",")

	if err := h.templates.Render(w, data); err != nil {
		h.logger.Error("render page", "err", err)
	}
}

func (h *Handler) handleDraftSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithError(w, r, "invalid form input")
		return
	}
	h.saveDraft(r)
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleDraftImage(w http.ResponseWriter, r *http.Request) {
	files, err := h.parseUploads(w, r, "image")
	if err != nil {
		h.redirectWithError(w, r, err.Error())
		return
	}
	h.saveDraft(r)
	if len(files) > 0 {
		h.stageImage(r, files[0])
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleDraftImageClear(w http.ResponseWriter, r *http.Request) {
	h.store.ClearStagedImage()
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleTodosCreate(w http.ResponseWriter, r *http.Request) {
	files, err := h.parseUploads(w, r, "image")
	if err != nil {
		h.redirectWithError(w, r, err.Error())
		return
	}
	h.saveDraft(r)
	if len(files) > 0 {
		h.stageImage(r, files[0])
	}
	if _, err := h.store.Create(); err != nil {
		h.addFlash(err.Error())
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleTodoToggle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ToggleCompleted(h.todoID(r)); err != nil {
		h.addFlash(err.Error())
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleTodoDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(h.todoID(r)); err != nil {
		h.addFlash(err.Error())
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleMediaAttach(w http.ResponseWriter, r *http.Request) {
	files, err := h.parseUploads(w, r, "files")
	if err != nil {
		h.redirectWithError(w, r, err.Error())
		return
	}
	if err := h.store.AttachMedia(r.Context(), h.todoID(r), files).Err(); err != nil {
		h.addFlash(err.Error())
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handleMediaRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.redirectWithError(w, r, fmt.Sprintf("invalid media index %q", r.PathValue("index")))
		return
	}
	if _, err := h.store.RemoveMedia(h.todoID(r), index); err != nil {
		h.addFlash(err.Error())
	}
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func (h *Handler) handlePrefs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectWithError(w, r, "invalid form input")
		return
	}
	theme, err := normalizeTheme(internalstrings.NormalizeLowerTrimSpace(r.FormValue("theme")))
	if err != nil {
		h.redirectWithError(w, r, err.Error())
		return
	}
	h.mu.Lock()
	h.theme = theme
	if r.Form.Has("dark") {
		h.darkMode = r.FormValue("dark") == "1"
	}
	h.mu.Unlock()
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

// saveDraft copies title and description from a parsed form into the
// store's draft. Absent fields are left alone.
func (h *Handler) saveDraft(r *http.Request) {
	if r.Form.Has("title") {
		_ = h.store.SetDraftField(todo.DraftTitle, r.FormValue("title"))
	}
	if r.Form.Has("description") {
		_ = h.store.SetDraftField(todo.DraftDescription, r.FormValue("description"))
	}
}

func (h *Handler) stageImage(r *http.Request, file media.File) {
	if err := h.store.StageImage(r.Context(), file).Err(); err != nil {
		h.addFlash(err.Error())
	}
}

// parseUploads parses a multipart form and wraps the files under field.
// Plain urlencoded forms yield no files.
func (h *Handler) parseUploads(w http.ResponseWriter, r *http.Request, field string) ([]media.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form input")
		}
		return nil, nil
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("invalid upload: %w", err)
	}
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[field]
	}
	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		if header.Size == 0 && header.Filename == "" {
			continue
		}
		file, err := media.FromMultipart(header)
		if err != nil {
			h.addFlash(err.Error())
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

func (h *Handler) todoID(r *http.Request) string {
	raw := r.PathValue("id")
	if resolved, err := h.store.Resolve(raw); err == nil {
		return resolved
	}
	return raw
}

func (h *Handler) addFlash(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flash = append(h.flash, message)
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	h.addFlash(message)
	http.Redirect(w, r, indexPath, http.StatusSeeOther)
}

func imageTypes(policy media.Policy) []string {
	var types []string
	for _, t := range policy.Types() {
		if policy.AcceptsImage(t) {
			types = append(types, t)
		}
	}
	return types
}
