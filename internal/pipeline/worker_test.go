package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/researchd/internal/agent"
	"github.com/dgallion1/researchd/internal/deck"
)

type fakeResearcher struct {
	res      *agent.Result
	err      error
	failures int
	calls    int
}

func (f *fakeResearcher) Research(context.Context, string, string, bool) (*agent.Result, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, &agent.RetryableError{StatusCode: 529, Message: "overloaded"}
	}
	return f.res, f.err
}

type fakePDF struct {
	path string
	err  error
}

func (f *fakePDF) Export(body, title, filename string) (string, error) {
	return f.path, f.err
}

type fakeDecks struct {
	reportPath string
	reportErr  error
	vizPath    string
	vizErr     error
}

func (f *fakeDecks) ExportReport(context.Context, string, string, string) (string, error) {
	return f.reportPath, f.reportErr
}

func (f *fakeDecks) ExportViz(context.Context, *deck.VizSpec) (string, error) {
	return f.vizPath, f.vizErr
}

func testWorker(r Researcher, pdf ReportExporter, decks DeckExporter) *Worker {
	w := NewWorker(r, pdf, decks, func(string) string { return "model-x" }, slog.Default())
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

func goodResult() *agent.Result {
	return &agent.Result{
		Topic:  "Solar",
		Report: "# Solar\n\nbody",
		Visualization: &deck.VizSpec{
			PresentationTitle: "Solar",
			Charts: []deck.ChartSpec{
				{Type: "bar", Title: "c", Labels: []string{"a"}, Data: []float64{1}},
			},
		},
	}
}

func TestWorker_AllFormats(t *testing.T) {
	w := testWorker(
		&fakeResearcher{res: goodResult()},
		&fakePDF{path: "/out/solar_research.pdf"},
		&fakeDecks{reportPath: "/out/solar_presentation.pptx", vizPath: "/out/solar_visualization.pptx"},
	)
	job := NewJob("solar", []string{FormatPDF, FormatPPTX}, true)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q, errors = %v", snap.Status, snap.Errors)
	}
	if snap.Files[FormatPDF] != "solar_research.pdf" {
		t.Errorf("pdf file = %q", snap.Files[FormatPDF])
	}
	if snap.Files[FormatPPTX] != "solar_presentation.pptx" {
		t.Errorf("pptx file = %q", snap.Files[FormatPPTX])
	}
	if snap.Files["visualization"] != "solar_visualization.pptx" {
		t.Errorf("viz file = %q", snap.Files["visualization"])
	}
}

func TestWorker_ResearchFailureFailsJob(t *testing.T) {
	w := testWorker(&fakeResearcher{err: fmt.Errorf("boom")}, &fakePDF{}, &fakeDecks{})
	job := NewJob("q", []string{FormatPDF}, false)
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Errorf("status = %q", job.Snapshot().Status)
	}
}

func TestWorker_RetriesTransientErrors(t *testing.T) {
	r := &fakeResearcher{res: goodResult(), failures: 2}
	w := testWorker(r, &fakePDF{path: "/out/a.pdf"}, &fakeDecks{})
	job := NewJob("q", []string{FormatPDF}, false)
	w.Process(context.Background(), job)

	if r.calls != 3 {
		t.Errorf("researcher called %d times, want 3", r.calls)
	}
	if job.Snapshot().Status != StatusCompleted {
		t.Errorf("status = %q", job.Snapshot().Status)
	}
}

func TestWorker_PDFFailureIsFatal(t *testing.T) {
	w := testWorker(
		&fakeResearcher{res: goodResult()},
		&fakePDF{err: fmt.Errorf("render blew up")},
		&fakeDecks{reportPath: "/out/a.pptx"},
	)
	job := NewJob("q", []string{FormatPDF, FormatPPTX}, false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("status = %q", snap.Status)
	}
	if _, ok := snap.Files[FormatPPTX]; ok {
		t.Error("pptx should not run after fatal pdf failure")
	}
}

func TestWorker_PPTXFailureDegrades(t *testing.T) {
	w := testWorker(
		&fakeResearcher{res: goodResult()},
		&fakePDF{path: "/out/a.pdf"},
		&fakeDecks{reportErr: fmt.Errorf("node is not installed")},
	)
	job := NewJob("q", []string{FormatPDF, FormatPPTX}, false)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q", snap.Status)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("errors = %v", snap.Errors)
	}
	if snap.Files[FormatPDF] != "a.pdf" {
		t.Errorf("pdf file = %q", snap.Files[FormatPDF])
	}
}

func TestWorker_MissingVizSpecDegrades(t *testing.T) {
	res := goodResult()
	res.Visualization = nil
	w := testWorker(&fakeResearcher{res: res}, &fakePDF{path: "/out/a.pdf"}, &fakeDecks{})
	job := NewJob("q", []string{FormatPDF}, true)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q", snap.Status)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("errors = %v", snap.Errors)
	}
}

func TestOrchestrator_SubmitAndQueueFull(t *testing.T) {
	o := NewOrchestrator(0, 1, 0, func() *Worker {
		return testWorker(&fakeResearcher{res: goodResult()}, &fakePDF{}, &fakeDecks{})
	}, slog.Default())
	// No workers started: the queue fills up.

	first := NewJob("a", nil, false)
	if err := o.Submit(first); err != nil {
		t.Fatal(err)
	}
	second := NewJob("b", nil, false)
	if err := o.Submit(second); err == nil {
		t.Error("expected queue-full error")
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("status = %q", second.Snapshot().Status)
	}
	if o.GetJob(first.ID) == nil {
		t.Error("submitted job not retrievable")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("queue depth = %d", o.QueueDepth())
	}
}
