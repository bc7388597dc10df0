package codex

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alnah/go-codex/internal/assets"
)

// highlightCSSPath is the stylesheet generated from the highlight style.
const highlightCSSPath = "/" + assets.StaticDir + "/css/highlight.css"

// previewHandler serves a project straight from its source directory.
type previewHandler struct {
	compiler *Compiler
	dir      string
}

// Compile-time interface implementation check.
var _ http.Handler = (*previewHandler)(nil)

// Handler returns an http.Handler that previews the project in dir. Every
// request reloads the project and renders only the requested page, so
// edits show up on the next reload. Unknown URLs get the 404 page.
func (c *Compiler) Handler(dir string) http.Handler {
	return &previewHandler{compiler: c, dir: dir}
}

func (h *previewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	logger := h.compiler.cfg.logger
	s, err := h.compiler.load(h.dir)
	if err != nil {
		logger.Warn("preview load failed", slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	rel, inBase := relativeTo(urlPath, s.resolver.BaseURL())
	switch {
	case inBase && rel == highlightCSSPath:
		css, err := s.renderer.HighlightCSS()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveBytes(w, r, "highlight.css", []byte(css))
	case inBase && strings.HasPrefix(rel, "/"+assets.StaticDir+"/"):
		h.serveStatic(w, r, s, rel)
	default:
		a, ok := s.project.ArticleByURL(urlPath)
		if !ok {
			h.notFound(w, s)
			return
		}
		page, err := s.renderer.Page(a)
		if err != nil {
			err = &DocumentError{Path: a.Path.Rel(), Err: err}
			logger.Warn("preview render failed", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
	logger.Debug("preview request", slog.String("path", urlPath), slog.Duration("duration", time.Since(start)))
}

func (h *previewHandler) serveStatic(w http.ResponseWriter, r *http.Request, s *session, rel string) {
	p, err := s.resolver.Path(strings.TrimPrefix(rel, "/"))
	if err != nil {
		h.notFound(w, s)
		return
	}
	data, _, err := s.resolver.Read(p)
	if errors.Is(err, assets.ErrNotFound) {
		h.notFound(w, s)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	serveBytes(w, r, p.Base(), data)
}

func (h *previewHandler) notFound(w http.ResponseWriter, s *session) {
	page, err := s.renderer.NotFound()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(page)
}

// serveBytes lets net/http pick the content type from name and handle
// conditional and range requests.
func serveBytes(w http.ResponseWriter, r *http.Request, name string, data []byte) {
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}

// relativeTo strips base from urlPath. It reports false when urlPath lies
// outside base.
func relativeTo(urlPath, base string) (string, bool) {
	if base == "" {
		return urlPath, true
	}
	if urlPath == base {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(urlPath, base+"/"); ok {
		return "/" + rest, true
	}
	return urlPath, false
}
