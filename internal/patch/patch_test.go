package patch

import (
	"strings"
	"testing"

	"github.com/dshills/labelcritic/internal/schema"
)

func sampleRecords() []schema.Record {
	return []schema.Record{
		{ImageName: "a.png", TrueClass: 1},
		{ImageName: "b.png", TrueClass: 0},
		{ImageName: "c.png", TrueClass: 1},
	}
}

func TestManifest(t *testing.T) {
	got, err := Manifest(sampleRecords(), []int{1, 0, 1})
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	want := "a.png\t1\nb.png\t0\nc.png\t1\n"
	if got != want {
		t.Errorf("Manifest = %q, want %q", got, want)
	}
}

func TestManifest_LengthMismatch(t *testing.T) {
	if _, err := Manifest(sampleRecords(), []int{1}); err == nil {
		t.Error("expected error for short label vector, got nil")
	}
}

func TestGenerateDiff_Changed(t *testing.T) {
	before, _ := Manifest(sampleRecords(), []int{1, 0, 1})
	after, _ := Manifest(sampleRecords(), []int{1, 1, 1})
	out := GenerateDiff("report.csv", before, after)
	if out == "" {
		t.Fatal("expected non-empty diff for changed labels")
	}
	if !strings.HasPrefix(out, "# label patch for report.csv\n") {
		t.Errorf("diff missing header: %q", out)
	}
	if !strings.Contains(out, "@@") {
		t.Errorf("diff missing hunk marker: %q", out)
	}
}

func TestGenerateDiff_Unchanged(t *testing.T) {
	m, _ := Manifest(sampleRecords(), []int{1, 0, 1})
	if out := GenerateDiff("report.csv", m, m); out != "" {
		t.Errorf("expected empty diff for equal manifests, got %q", out)
	}
}

func TestGenerateDiff_IgnoresCRLF(t *testing.T) {
	m, _ := Manifest(sampleRecords(), []int{1, 0, 1})
	crlf := strings.ReplaceAll(m, "\n", "\r\n")
	if out := GenerateDiff("report.csv", crlf, m); out != "" {
		t.Errorf("expected empty diff across line endings, got %q", out)
	}
}

func TestApply_RoundTrip(t *testing.T) {
	before, _ := Manifest(sampleRecords(), []int{1, 0, 1})
	after, _ := Manifest(sampleRecords(), []int{0, 0, 1})
	out := GenerateDiff("report.csv", before, after)

	got, err := Apply(before, out)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != after {
		t.Errorf("Apply = %q, want %q", got, after)
	}
}

func TestApply_BadPatch(t *testing.T) {
	if _, err := Apply("a.png\t1\n", "@@ not a patch"); err == nil {
		t.Error("expected error for malformed patch, got nil")
	}
}
