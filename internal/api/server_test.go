package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/researchd/internal/agent"
	"github.com/dgallion1/researchd/internal/config"
	"github.com/dgallion1/researchd/internal/deck"
	"github.com/dgallion1/researchd/internal/pipeline"
)

type stubResearcher struct{}

func (stubResearcher) Research(context.Context, string, string, bool) (*agent.Result, error) {
	return &agent.Result{Topic: "T", Report: "# T\n\nbody"}, nil
}

type stubPDF struct{}

func (stubPDF) Export(body, title, filename string) (string, error) {
	return "/out/t_research.pdf", nil
}

type stubDecks struct{}

func (stubDecks) ExportReport(context.Context, string, string, string) (string, error) {
	return "/out/t_presentation.pptx", nil
}

func (stubDecks) ExportViz(context.Context, *deck.VizSpec) (string, error) {
	return "/out/t_visualization.pptx", nil
}

func testServer(t *testing.T, apiKey string) (*Server, *pipeline.Orchestrator) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	orch := pipeline.NewOrchestrator(0, 4, time.Hour, func() *pipeline.Worker {
		return pipeline.NewWorker(stubResearcher{}, stubPDF{}, stubDecks{}, func(string) string { return "m" }, log)
	}, log)
	cfg := config.Config{ServiceAPIKey: apiKey, OutputDir: t.TempDir()}
	return NewServer(orch, log, cfg), orch
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSubmit(t *testing.T) {
	srv, orch := testServer(t, "")
	body := `{"query":"solar power","output_formats":["pdf","pptx"],"include_visualization":true}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["job_id"] == "" || resp["status"] != "queued" {
		t.Errorf("resp = %v", resp)
	}
	if want := "/api/research/" + resp["job_id"] + "/status"; resp["poll_url"] != want {
		t.Errorf("poll_url = %q, want %q", resp["poll_url"], want)
	}
	if orch.GetJob(resp["job_id"]) == nil {
		t.Error("job not stored")
	}
}

func TestSubmit_Validation(t *testing.T) {
	srv, _ := testServer(t, "")
	cases := []struct {
		name string
		body string
	}{
		{"EmptyQuery", `{"query":"  "}`},
		{"BadFormat", `{"query":"x","output_formats":["docx"]}`},
		{"BadJSON", `{`},
		{"LongQuery", `{"query":"` + strings.Repeat("a", 2001) + `"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/research", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	srv, orch := testServer(t, "")
	job := pipeline.NewJob("q", []string{pipeline.FormatPDF}, false)
	if err := orch.Submit(job); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/"+job.ID+"/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap pipeline.JobSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.ID != job.ID || snap.Status != pipeline.StatusQueued {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStatus_NotFound(t *testing.T) {
	srv, _ := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/nope/status", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestReport_NotReady(t *testing.T) {
	srv, orch := testServer(t, "")
	job := pipeline.NewJob("q", nil, false)
	if err := orch.Submit(job); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/"+job.ID+"/report", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestReport_Ready(t *testing.T) {
	srv, orch := testServer(t, "")
	job := pipeline.NewJob("q", nil, false)
	if err := orch.Submit(job); err != nil {
		t.Fatal(err)
	}
	job.SetResult(&agent.Result{Topic: "T", Report: "# T"})
	job.SetStatus(pipeline.StatusCompleted, "done")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/"+job.ID+"/report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"# T"`) {
		t.Errorf("body = %s", rec.Body)
	}

	// The bare job route is an alias for the report view.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/"+job.ID, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"# T"`) {
		t.Errorf("alias route: status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestJobsList(t *testing.T) {
	srv, orch := testServer(t, "")
	for _, q := range []string{"a", "b"} {
		if err := orch.Submit(pipeline.NewJob(q, nil, false)); err != nil {
			t.Fatal(err)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Jobs []pipeline.JobSnapshot `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Jobs) != 2 {
		t.Errorf("got %d jobs", len(resp.Jobs))
	}
}

func TestAuth(t *testing.T) {
	srv, _ := testServer(t, "secret")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/x/status", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/research/x/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/research/x/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("good token: status = %d", rec.Code)
	}
}

func TestAuth_DisabledWhenUnset(t *testing.T) {
	srv, _ := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/research/x/status", nil))
	if rec.Code == http.StatusUnauthorized {
		t.Error("auth should be disabled with no key configured")
	}
}

func TestOutput(t *testing.T) {
	srv, _ := testServer(t, "")
	if err := os.WriteFile(filepath.Join(srv.cfg.OutputDir, "t_research.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/outputs/t_research.pdf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestOutput_Rejections(t *testing.T) {
	srv, _ := testServer(t, "")
	cases := []struct {
		name string
		path string
		code int
	}{
		{"Traversal", "/api/outputs/..%2Fsecret.pdf", http.StatusBadRequest},
		{"BadExtension", "/api/outputs/report.sh", http.StatusBadRequest},
		{"Missing", "/api/outputs/nope.pdf", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.code {
				t.Errorf("status = %d, want %d", rec.Code, tc.code)
			}
		})
	}
}
