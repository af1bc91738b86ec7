package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// SPAHandler serves a built single-page app from a directory.
// Paths that do not name a file fall back to index.html so the client
// router can resolve them. API paths and non-GET requests go to notFound.
type SPAHandler struct {
	root     fs.FS
	files    http.Handler
	notFound http.HandlerFunc
}

// NewSPAHandler returns a handler serving dir. It fails if dir has no index.html.
func NewSPAHandler(dir string, notFound http.HandlerFunc) (*SPAHandler, error) {
	root := os.DirFS(dir)
	if _, err := fs.Stat(root, "index.html"); err != nil {
		return nil, err
	}
	return &SPAHandler{
		root:     root,
		files:    http.FileServerFS(root),
		notFound: notFound,
	}, nil
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if (r.Method != http.MethodGet && r.Method != http.MethodHead) || isAPIPath(r.URL.Path) {
		h.notFound(w, r)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		h.serveIndex(w, r)
		return
	}

	info, err := fs.Stat(h.root, name)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		h.serveIndex(w, r)
		return
	}
	if err != nil {
		h.notFound(w, r)
		return
	}

	h.files.ServeHTTP(w, r)
}

func (h *SPAHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, h.root, "index.html")
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
