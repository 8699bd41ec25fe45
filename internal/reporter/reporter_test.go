package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONReporterJobCompleteEmitsOneLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)

	r.JobComplete(JobOutcome{
		JobID:           "job1",
		Container:       "mp4",
		InputSizeBytes:  1000,
		OutputSizeBytes: 250,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one NDJSON line, got %d", len(lines))
	}

	var event map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if event["type"] != "job_complete" {
		t.Errorf("type = %v, want job_complete", event["type"])
	}
	if event["job_id"] != "job1" {
		t.Errorf("job_id = %v, want job1", event["job_id"])
	}
	if reduction, ok := event["size_reduction_percent"].(float64); !ok || reduction != 75 {
		t.Errorf("size_reduction_percent = %v, want 75", event["size_reduction_percent"])
	}
}

func TestSizeReductionPercentZeroInputIsZero(t *testing.T) {
	if got := sizeReductionPercent(0, 0); got != 0 {
		t.Errorf("sizeReductionPercent(0, 0) = %v, want 0", got)
	}
}

type countingReporter struct {
	NullReporter
	warnings int
}

func (c *countingReporter) Warning(string) { c.warnings++ }

func TestCompositeReporterFansOutToAllReporters(t *testing.T) {
	a := &countingReporter{}
	b := &countingReporter{}
	composite := NewCompositeReporter(a, b)

	composite.Warning("disk nearly full")

	if a.warnings != 1 || b.warnings != 1 {
		t.Errorf("expected both reporters to see the warning, got a=%d b=%d", a.warnings, b.warnings)
	}
}
