package rest

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FrontendHandler serves a single page application from dir. Unknown paths
// fall back to the index file so client-side routes survive a reload.
type FrontendHandler struct {
	dir       string
	indexFile string
}

func NewFrontendHandler(dir string, indexFile string) *FrontendHandler {
	return &FrontendHandler{dir: dir, indexFile: indexFile}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	cleaned := filepath.Clean("/" + r.URL.Path)
	path := filepath.Join(h.dir, cleaned)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		log.Tracef("frontend fallback to index for %s", r.URL.Path)
		http.ServeFile(w, r, filepath.Join(h.dir, h.indexFile))
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.ServeFile(w, r, path)
}
