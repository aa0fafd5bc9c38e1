package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exporter writes research reports into a shared output directory. One
// Export call is one full scan plus one layout; the exporter holds no
// per-document state, so a single Exporter may serve concurrent callers
// as long as they tolerate filename collisions (names derive from
// content, which is not guaranteed unique).
type Exporter struct {
	OutputDir  string
	Author     string
	Compositor Compositor

	// Now is injected into the renderer for the cover date; nil means
	// time.Now.
	Now func() time.Time
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{
		OutputDir:  outputDir,
		Compositor: Compositor{ImageDir: outputDir},
	}
}

// Export renders body under the given title to <OutputDir>/<filename> and
// returns the artifact path. An empty filename is derived from the body.
// A missing title is a rejected precondition; malformed markdown degrades
// inside the scan and never fails the export.
func (e *Exporter) Export(body, title, filename string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("title is required")
	}
	if filename == "" {
		filename = Filename(body)
	}

	doc, err := e.Compositor.Compose(body, title)
	if err != nil {
		return "", fmt.Errorf("compose: %w", err)
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}
	path := filepath.Join(e.OutputDir, filename)

	r := &Renderer{Author: e.Author, Now: e.Now}
	if err := r.Render(doc, path); err != nil {
		return "", err
	}
	return path, nil
}
