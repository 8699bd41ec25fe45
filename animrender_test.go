package animrender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/animrender/internal/logging"
	"github.com/five82/animrender/internal/model"
	"github.com/five82/animrender/internal/reporter"
)

func writeFakeCodecScript(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fakecodec.sh")
	script := "#!/bin/sh\nfor a in \"$@\"; do last=\"$a\"; done\nprintf 'fake-output-bytes' > \"$last\"\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write fake codec script: %v", err)
	}
	return path
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	logger := logging.New(logging.Config{Enabled: false})
	r, err := New(logger,
		WithWorkers(2),
		WithCodecBinaryPath(writeFakeCodecScript(t)),
		WithTempDirRoot(t.TempDir()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func testJob(t *testing.T, id, uri string) model.RenderJob {
	t.Helper()
	job, err := model.NewRenderJob(id,
		model.AnimationSource{Kind: model.SourceGIF, URI: uri},
		model.SourceMetadata{Width: 64, Height: 64, FrameCount: 5, FrameRate: 30, DurationMs: 500},
		model.RenderOptions{
			Configuration: model.RenderConfiguration{
				Width: 64, Height: 64,
				Container: model.ContainerMP4,
				Codec:     model.CodecH264,
				FrameRate: 30,
				Bitrate:   model.Bitrate{TargetKbps: 500, MaxKbps: 1000},
			},
			Pipeline: model.PipelineFast,
		},
		time.Now(),
	)
	if err != nil {
		t.Fatalf("NewRenderJob: %v", err)
	}
	return job
}

func TestNewAppliesOptionsAndValidates(t *testing.T) {
	r := newTestRenderer(t)
	defer r.Close()
	if r.orchestrator == nil {
		t.Fatal("expected a non-nil orchestrator")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	logger := logging.New(logging.Config{Enabled: false})
	_, err := New(logger, WithWorkers(-1))
	if err == nil {
		t.Fatal("expected an error for a negative worker count")
	}
}

func TestRenderProducesOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("source-bytes"))
	}))
	defer srv.Close()

	r := newTestRenderer(t)
	defer r.Close()

	outcome, err := r.Render(context.Background(), testJob(t, "job1", srv.URL))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(outcome.Result.Video) == 0 {
		t.Error("expected non-empty video output")
	}
}

type recordingReporter struct {
	reporter.NullReporter
	started   []reporter.JobSummary
	completed []reporter.JobOutcome
	errors    []reporter.ReporterError
}

func (r *recordingReporter) JobStarted(s reporter.JobSummary)  { r.started = append(r.started, s) }
func (r *recordingReporter) JobComplete(s reporter.JobOutcome) { r.completed = append(r.completed, s) }
func (r *recordingReporter) Error(e reporter.ReporterError)    { r.errors = append(r.errors, e) }

func TestRenderWithReporterEmitsStartAndComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("source-bytes"))
	}))
	defer srv.Close()

	r := newTestRenderer(t)
	defer r.Close()

	rep := &recordingReporter{}
	if _, err := r.RenderWithReporter(context.Background(), testJob(t, "job1", srv.URL), rep); err != nil {
		t.Fatalf("RenderWithReporter: %v", err)
	}

	if len(rep.started) != 1 || rep.started[0].JobID != "job1" {
		t.Errorf("expected one JobStarted event for job1, got %+v", rep.started)
	}
	if len(rep.completed) != 1 {
		t.Errorf("expected one JobComplete event, got %d", len(rep.completed))
	}
	if len(rep.errors) != 0 {
		t.Errorf("expected no errors, got %+v", rep.errors)
	}
}

func TestRenderWithReporterEmitsErrorOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestRenderer(t)
	defer r.Close()

	rep := &recordingReporter{}
	_, err := r.RenderWithReporter(context.Background(), testJob(t, "job1", srv.URL), rep)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(rep.errors) != 1 {
		t.Errorf("expected one Error event, got %d", len(rep.errors))
	}
}

func TestRenderBatchContinuesPastFailedJob(t *testing.T) {
	goodSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("source-bytes"))
	}))
	defer goodSrv.Close()
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	r := newTestRenderer(t)
	defer r.Close()

	jobs := []model.RenderJob{
		testJob(t, "job1", goodSrv.URL),
		testJob(t, "job2", badSrv.URL),
		testJob(t, "job3", goodSrv.URL),
	}

	rep := &recordingReporter{}
	outcomes, err := r.RenderBatch(context.Background(), jobs, rep)
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	if len(outcomes) != 2 {
		t.Errorf("len(outcomes) = %d, want 2 (one job failed)", len(outcomes))
	}
	if len(rep.errors) != 1 {
		t.Errorf("expected one Error event for the failed job, got %d", len(rep.errors))
	}
}
