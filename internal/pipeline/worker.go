package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgallion1/researchd/internal/agent"
	"github.com/dgallion1/researchd/internal/deck"
)

// Researcher runs the agent conversation for one query.
type Researcher interface {
	Research(ctx context.Context, model, query string, includeViz bool) (*agent.Result, error)
}

// ReportExporter writes the PDF report.
type ReportExporter interface {
	Export(body, title, filename string) (string, error)
}

// DeckExporter writes PowerPoint artifacts.
type DeckExporter interface {
	ExportReport(ctx context.Context, body, title, filename string) (string, error)
	ExportViz(ctx context.Context, spec *deck.VizSpec) (string, error)
}

// ModelPicker chooses the model for a query.
type ModelPicker func(query string) string

// Worker processes a single research job: agent run, then artifact
// rendering. The PDF is the primary artifact; its failure fails the job.
// PPTX and visualization failures only degrade it.
type Worker struct {
	researcher Researcher
	pdf        ReportExporter
	decks      DeckExporter
	pickModel  ModelPicker
	log        *slog.Logger
	backoff    func(attempt int) time.Duration
}

func NewWorker(researcher Researcher, pdf ReportExporter, decks DeckExporter, pickModel ModelPicker, log *slog.Logger) *Worker {
	return &Worker{
		researcher: researcher,
		pdf:        pdf,
		decks:      decks,
		pickModel:  pickModel,
		log:        log,
		backoff:    agent.Backoff,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	job.SetStatus(StatusResearching, "researching")
	model := w.pickModel(job.Query)
	log.Info("research started", "model", model, "include_viz", job.IncludeViz)

	res, err := w.research(ctx, model, job, log)
	if err != nil {
		log.Error("research failed", "error", err)
		job.AddError(fmt.Sprintf("research: %s", err))
		job.SetStatus(StatusFailed, "researching")
		return
	}
	job.SetResult(res)
	log.Info("research complete", "topic", res.Topic, "sources", len(res.Sources))

	job.SetStatus(StatusRendering, "rendering")

	if job.WantsFormat(FormatPDF) {
		path, err := w.pdf.Export(res.Report, res.Topic, "")
		if err != nil {
			log.Error("pdf export failed", "error", err)
			job.AddError(fmt.Sprintf("pdf: %s", err))
			job.SetStatus(StatusFailed, "rendering")
			return
		}
		job.AddFile(FormatPDF, filepath.Base(path))
		log.Info("pdf written", "file", filepath.Base(path))
	}

	if job.WantsFormat(FormatPPTX) {
		path, err := w.decks.ExportReport(ctx, res.Report, res.Topic, "")
		if err != nil {
			log.Error("pptx export failed", "error", err)
			job.AddError(fmt.Sprintf("pptx: %s", err))
		} else {
			job.AddFile(FormatPPTX, filepath.Base(path))
			log.Info("pptx written", "file", filepath.Base(path))
		}
	}

	if job.IncludeViz {
		if res.Visualization == nil {
			job.AddError("visualization: agent returned no visualization spec")
		} else if path, err := w.decks.ExportViz(ctx, res.Visualization); err != nil {
			log.Error("visualization export failed", "error", err)
			job.AddError(fmt.Sprintf("visualization: %s", err))
		} else {
			job.AddFile("visualization", filepath.Base(path))
			log.Info("visualization written", "file", filepath.Base(path))
		}
	}

	job.SetStatus(StatusCompleted, "done")
}

// research retries transient agent failures with backoff.
func (w *Worker) research(ctx context.Context, model string, job *Job, log *slog.Logger) (*agent.Result, error) {
	var res *agent.Result
	var lastErr error
	for attempt := range agent.MaxRetries {
		res, lastErr = w.researcher.Research(ctx, model, job.Query, job.IncludeViz)
		if lastErr == nil || !agent.IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable research error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, lastErr
}
