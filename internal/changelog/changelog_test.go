package changelog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/labelcritic/internal/schema"
)

func sampleEvents() []schema.ChangeEvent {
	return []schema.ChangeEvent{
		{ImageName: "b.png", FromLabel: 0, ToLabel: 1, AccuracyAfter: 0.75, F1After: 0.8},
		{ImageName: "d.png", FromLabel: 1, ToLabel: 0, AccuracyAfter: 1, F1After: 1},
	}
}

func TestWriteText_ExactFormat(t *testing.T) {
	var sb strings.Builder
	if err := WriteText(&sb, sampleEvents()[:1]); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "--- Log of Label Corrections ---\n\n" +
		"Change #1:\n" +
		"  Image:      b.png\n" +
		"  Label Flip: 0 -> 1\n" +
		"  Resulting F1: 0.8000, Accuracy: 0.7500\n" +
		"------------------------------------\n\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteText_ChronologicalNumbering(t *testing.T) {
	var sb strings.Builder
	if err := WriteText(&sb, sampleEvents()); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := sb.String()
	first := strings.Index(out, "Change #1:\n  Image:      b.png")
	second := strings.Index(out, "Change #2:\n  Image:      d.png")
	if first < 0 || second < 0 || first > second {
		t.Errorf("events missing or out of order:\n%s", out)
	}
}

func TestWriteText_Deterministic(t *testing.T) {
	var a, b strings.Builder
	WriteText(&a, sampleEvents()) //nolint:errcheck
	WriteText(&b, sampleEvents()) //nolint:errcheck
	if a.String() != b.String() {
		t.Error("identical events produced different logs")
	}
}

func TestSummaryLines(t *testing.T) {
	got := SummaryLines(sampleEvents())
	want := []string{
		"Change #1: Image 'b.png' label flipped from 0 to 1",
		"Change #2: Image 'd.png' label flipped from 1 to 0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SummaryLines mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRenderer_Text(t *testing.T) {
	r, err := NewRenderer("text")
	if err != nil {
		t.Fatalf("NewRenderer text: %v", err)
	}
	out, err := r.Render(sampleEvents())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "--- Log of Label Corrections ---") {
		t.Errorf("text log missing header: %q", out)
	}
}

func TestNewRenderer_JSON(t *testing.T) {
	r, err := NewRenderer("json")
	if err != nil {
		t.Fatalf("NewRenderer json: %v", err)
	}
	out, err := r.Render(sampleEvents())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded struct {
		Changes []struct {
			Seq       int    `json:"seq"`
			ImageName string `json:"image_name"`
			ToLabel   int    `json:"to_label"`
		} `json:"changes"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if len(decoded.Changes) != 2 || decoded.Changes[1].Seq != 2 || decoded.Changes[1].ImageName != "d.png" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNewRenderer_Markdown(t *testing.T) {
	r, err := NewRenderer("md")
	if err != nil {
		t.Fatalf("NewRenderer md: %v", err)
	}
	out, err := r.Render(sampleEvents())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "# Label Corrections") {
		t.Errorf("markdown missing header: %q", s)
	}
	if !strings.Contains(s, "| 2 | d.png | 1 → 0 | 1.0000 | 1.0000 |") {
		t.Errorf("markdown missing second row: %q", s)
	}
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	if _, err := NewRenderer("xml"); err == nil {
		t.Error("expected error for unknown format, got nil")
	}
}
