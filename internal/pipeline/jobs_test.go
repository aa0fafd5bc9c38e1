package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/researchd/internal/agent"
)

func TestNewJob(t *testing.T) {
	job := NewJob("solar power", []string{FormatPDF, FormatPPTX}, true)
	if job.ID == "" {
		t.Error("expected non-empty job ID")
	}
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued, got %q/%q", job.Status, job.Phase)
	}
	if !job.WantsFormat(FormatPDF) || !job.WantsFormat(FormatPPTX) {
		t.Error("requested formats not recorded")
	}
	if job.WantsFormat("docx") {
		t.Error("unexpected format reported")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("q", []string{FormatPDF}, false)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusResearching, "researching"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("q", nil, false)
	job.AddError("pptx: node missing")
	job.AddError("visualization: invalid spec")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "pptx: node missing" {
		t.Errorf("first error = %q", snap.Errors[0])
	}
}

func TestJob_SnapshotCarriesResult(t *testing.T) {
	job := NewJob("q", []string{FormatPDF}, false)
	job.SetResult(&agent.Result{
		Topic:     "Solar",
		Summary:   "sum",
		Sources:   []string{"http://a"},
		ToolsUsed: []string{"web_search"},
	})
	job.AddFile(FormatPDF, "solar_research.pdf")

	snap := job.Snapshot()
	if snap.Topic != "Solar" || snap.Summary != "sum" {
		t.Errorf("result fields missing: %+v", snap)
	}
	if snap.Files[FormatPDF] != "solar_research.pdf" {
		t.Errorf("files = %v", snap.Files)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	snap := NewJob("q", nil, false).Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("q", nil, false)
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("old", nil, false)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := NewJob("new", nil, false)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
