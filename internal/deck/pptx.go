package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Generator renders decks into OutputDir. NodeDir is where the helper
// script runs; pptxgenjs must be resolvable from there.
type Generator struct {
	OutputDir string
	NodeDir   string
	Author    string
	Timeout   time.Duration
	Logger    *slog.Logger
}

func NewGenerator(outputDir, nodeDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		OutputDir: outputDir,
		NodeDir:   nodeDir,
		Author:    "Research Service",
		Timeout:   2 * time.Minute,
		Logger:    logger,
	}
}

var fileSafeRe = regexp.MustCompile(`[^a-z0-9_]+`)

func safeStem(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "_")
	s = fileSafeRe.ReplaceAllString(s, "")
	if len(s) > 50 {
		s = s[:50]
	}
	if s == "" {
		s = "research_output"
	}
	return s
}

// ExportReport writes a content deck built from a markdown report body.
// filename may be empty, in which case one is derived from the title.
func (g *Generator) ExportReport(ctx context.Context, body, title, filename string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("pptx: title is required")
	}
	slides := PlanReport(title, SplitSections(body))
	if filename == "" {
		filename = safeStem(title) + "_presentation.pptx"
	}
	return g.run(ctx, Themes[DefaultTheme], slides, filename)
}

// ExportViz writes a data-visualization deck from a validated spec.
func (g *Generator) ExportViz(ctx context.Context, spec *VizSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	slides := PlanViz(spec)
	filename := safeStem(spec.PresentationTitle) + "_visualization.pptx"
	return g.run(ctx, Themes[spec.Theme], slides, filename)
}

func (g *Generator) run(ctx context.Context, theme Theme, slides []Slide, filename string) (string, error) {
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("pptx: create output dir: %w", err)
	}
	outPath, err := filepath.Abs(filepath.Join(g.OutputDir, filename))
	if err != nil {
		return "", err
	}

	script, err := renderScript(theme, slides, g.Author, outPath)
	if err != nil {
		return "", fmt.Errorf("pptx: render script: %w", err)
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	scriptPath := filepath.Join(g.NodeDir, "temp_pptx_"+stem+".js")
	if err := os.WriteFile(scriptPath, script, 0o644); err != nil {
		return "", fmt.Errorf("pptx: write script: %w", err)
	}
	defer os.Remove(scriptPath)

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "node", scriptPath)
	cmd.Dir = g.NodeDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("pptx: node is not installed or not on PATH")
		}
		g.Logger.Error("pptx generation failed",
			slog.String("file", filename),
			slog.String("output", strings.TrimSpace(string(out))))
		return "", fmt.Errorf("pptx: node exited with error: %w", err)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("pptx: output file was not produced: %w", err)
	}
	g.Logger.Info("pptx written", slog.String("path", outPath), slog.Int("slides", len(slides)))
	return outPath, nil
}
