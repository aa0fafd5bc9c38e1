package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// handleOutput serves a generated artifact from the output directory.
func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	// Only bare filenames are served; no path traversal.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		jsonError(w, "invalid filename", http.StatusBadRequest)
		return
	}

	ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		jsonError(w, "unsupported file type", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.cfg.OutputDir, name)
	f, err := os.Open(path)
	if err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), f)
}
