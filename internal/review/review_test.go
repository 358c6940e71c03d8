package review

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/labelcritic/internal/console"
	"github.com/dshills/labelcritic/internal/metrics"
	"github.com/dshills/labelcritic/internal/schema"
)

func rec(name string, truth, pred int, conf float64) schema.Record {
	return schema.Record{
		ImagePath:      "test/" + name,
		ImageName:      name,
		TrueClass:      truth,
		PredictedClass: pred,
		Confidence:     conf,
		Correctness:    schema.CorrectnessOf(pred, truth),
	}
}

// scenarioRecords is the four-row report used throughout: rows 2 and 4 are
// misclassified with confidence errors 0.9 and 0.4.
func scenarioRecords() []schema.Record {
	return []schema.Record{
		rec("a.png", 1, 1, 0.8),
		rec("b.png", 0, 1, 0.9),
		rec("c.png", 0, 0, 0.2),
		rec("d.png", 1, 0, 0.6),
	}
}

func newTestSession(records []schema.Record, input string) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	in := NewLineInput(strings.NewReader(input), &out)
	return NewSession(records, in, console.New(&out, false)), &out
}

func queueNames(q []Item) []string {
	names := make([]string, len(q))
	for i, it := range q {
		names[i] = it.Record.ImageName
	}
	return names
}

// --- BuildQueue tests ---

func TestBuildQueue_ScenarioOrder(t *testing.T) {
	q := BuildQueue(scenarioRecords())
	if diff := cmp.Diff([]string{"b.png", "d.png"}, queueNames(q)); diff != "" {
		t.Fatalf("queue order mismatch (-want +got):\n%s", diff)
	}
	if q[0].Index != 1 || q[1].Index != 3 {
		t.Errorf("indices = %d, %d; want 1, 3", q[0].Index, q[1].Index)
	}
	if q[0].ConfidenceError != 0.9 {
		t.Errorf("b.png confidence error = %v, want 0.9", q[0].ConfidenceError)
	}
	if got := q[1].ConfidenceError; got < 0.4-1e-12 || got > 0.4+1e-12 {
		t.Errorf("d.png confidence error = %v, want 0.4", got)
	}
}

func TestBuildQueue_SizeMatchesMismatches(t *testing.T) {
	records := []schema.Record{
		rec("1", 0, 1, 0.7), rec("2", 1, 1, 0.9), rec("3", 1, 0, 0.1),
		rec("4", 0, 0, 0.3), rec("5", 0, 1, 0.55), rec("6", 1, 0, 0.49),
	}
	want := 0
	for _, r := range records {
		if r.PredictedClass != r.TrueClass {
			want++
		}
	}
	if got := len(BuildQueue(records)); got != want {
		t.Errorf("queue size = %d, want %d", got, want)
	}
}

func TestBuildQueue_StableOnTies(t *testing.T) {
	records := []schema.Record{
		rec("first", 0, 1, 0.75),
		rec("ok", 1, 1, 0.9),
		rec("second", 1, 0, 0.25), // 1 - 0.25 == 0.75
		rec("third", 0, 1, 0.75),
		rec("top", 0, 1, 0.95),
	}
	q := BuildQueue(records)
	want := []string{"top", "first", "second", "third"}
	if diff := cmp.Diff(want, queueNames(q)); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildQueue_Descending(t *testing.T) {
	records := []schema.Record{
		rec("1", 0, 1, 0.51), rec("2", 1, 0, 0.02), rec("3", 0, 1, 0.77), rec("4", 1, 0, 0.4),
	}
	q := BuildQueue(records)
	for i := 1; i < len(q); i++ {
		if q[i-1].ConfidenceError < q[i].ConfidenceError {
			t.Errorf("queue not descending at %d: %v < %v", i, q[i-1].ConfidenceError, q[i].ConfidenceError)
		}
	}
}

func TestBuildQueue_NoMistakes(t *testing.T) {
	q := BuildQueue([]schema.Record{rec("a", 1, 1, 0.9), rec("b", 0, 0, 0.1)})
	if len(q) != 0 {
		t.Errorf("queue size = %d, want 0", len(q))
	}
}

// --- ParseDecision tests ---

func TestParseDecision(t *testing.T) {
	tests := []struct {
		token   string
		current int
		want    Decision
		ok      bool
	}{
		{"c", 0, SetLabel(1), true},
		{"  C \n", 1, SetLabel(0), true},
		{"change", 0, SetLabel(1), true},
		{"k", 0, Keep(), true},
		{"KEEP", 1, Keep(), true},
		{"q", 0, Quit(), true},
		{" Quit ", 0, Quit(), true},
		{"x", 0, Keep(), false},
		{"", 1, Keep(), false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseDecision(tt.token, tt.current)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseDecision(%q, %d) = %+v, %v; want %+v, %v", tt.token, tt.current, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// --- Session tests ---

func TestRun_ScenarioChangeThenQuit(t *testing.T) {
	records := scenarioRecords()
	s, out := newTestSession(records, "c\nq\n")

	res, err := s.Run(BuildQueue(records))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Quit || res.Decided != 1 || res.Queued != 2 {
		t.Errorf("Outcome = %+v, want Quit with 1 decision of 2", res)
	}

	changes := s.Changes()
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	ev := changes[0]
	if ev.ImageName != "b.png" || ev.FromLabel != 0 || ev.ToLabel != 1 {
		t.Errorf("event = %+v", ev)
	}

	// Labels are now [1 1 0 1] vs predictions [1 1 0 0].
	if ev.AccuracyAfter != 0.75 {
		t.Errorf("AccuracyAfter = %v, want 0.75", ev.AccuracyAfter)
	}
	if diff := cmp.Diff([]int{1, 1, 0, 1}, s.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	o := out.String()
	for _, want := range []string{
		"Reviewing Image #1/2",
		"SUCCESS: Changed label for 'b.png' from 0 to 1",
		"Accuracy: 0.7500",
		"F1 Score: 0.8000",
		"Quitting review session.",
	} {
		if !strings.Contains(o, want) {
			t.Errorf("output missing %q:\n%s", want, o)
		}
	}
}

func TestRun_QuitAtKLeavesRestUnseen(t *testing.T) {
	records := []schema.Record{
		rec("1", 0, 1, 0.9), rec("2", 0, 1, 0.8), rec("3", 0, 1, 0.7), rec("4", 0, 1, 0.6),
	}
	// Change, keep, then quit at item 3 of 4.
	s, out := newTestSession(records, "c\nk\nq\nc\n")
	res, err := s.Run(BuildQueue(records))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Decided != 2 {
		t.Errorf("Decided = %d, want 2", res.Decided)
	}
	if strings.Contains(out.String(), "Reviewing Image #4/4") {
		t.Error("item 4 was presented after quit")
	}
	if diff := cmp.Diff([]int{1, 0, 0, 0}, s.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_InvalidTokenKeeps(t *testing.T) {
	records := scenarioRecords()
	s, out := newTestSession(records, "maybe\nk\n")
	res, err := s.Run(BuildQueue(records))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Quit || res.Decided != 2 {
		t.Errorf("Outcome = %+v, want 2 decisions, no quit", res)
	}
	if len(s.Changes()) != 0 {
		t.Errorf("changes = %d, want 0", len(s.Changes()))
	}
	if !strings.Contains(out.String(), "Invalid choice. Keeping label as is.") {
		t.Errorf("invalid choice not reported:\n%s", out.String())
	}
}

func TestRun_EOFActsAsQuit(t *testing.T) {
	records := scenarioRecords()
	s, _ := newTestSession(records, "c")
	res, err := s.Run(BuildQueue(records))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Quit || res.Decided != 1 {
		t.Errorf("Outcome = %+v, want quit after 1 decision", res)
	}
	if len(s.Changes()) != 1 {
		t.Errorf("changes = %d, want 1 (unterminated last line still counts)", len(s.Changes()))
	}
}

func TestRun_ExhaustsQueue(t *testing.T) {
	records := scenarioRecords()
	s, _ := newTestSession(records, "c\nc\n")
	res, err := s.Run(BuildQueue(records))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Quit || res.Decided != 2 {
		t.Errorf("Outcome = %+v", res)
	}
	// Both mistakes relabelled: every row now agrees with its prediction.
	if diff := cmp.Diff([]int{1, 1, 0, 0}, s.Labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	last := s.Changes()[1]
	if last.AccuracyAfter != 1 || last.F1After != 1 {
		t.Errorf("final metrics = %v / %v, want 1 / 1", last.AccuracyAfter, last.F1After)
	}
}

func TestRun_MetricsMatchFromScratch(t *testing.T) {
	records := []schema.Record{
		rec("1", 0, 1, 0.91), rec("2", 1, 1, 0.88), rec("3", 1, 0, 0.12),
		rec("4", 0, 0, 0.3), rec("5", 0, 1, 0.66), rec("6", 1, 0, 0.45), rec("7", 1, 1, 0.7),
	}
	s, _ := newTestSession(records, "c\nk\nc\nc\n")
	if _, err := s.Run(BuildQueue(records)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Replay the events onto the original labels and recompute each snapshot.
	labels := make([]int, len(records))
	pred := make([]int, len(records))
	byName := map[string]int{}
	for i, r := range records {
		labels[i] = r.TrueClass
		pred[i] = r.PredictedClass
		byName[r.ImageName] = i
	}
	for _, ev := range s.Changes() {
		i := byName[ev.ImageName]
		if labels[i] != ev.FromLabel || ev.ToLabel != 1-ev.FromLabel {
			t.Fatalf("event %+v inconsistent with replayed label %d", ev, labels[i])
		}
		labels[i] = ev.ToLabel
		acc, f1 := metrics.Snapshot(labels, pred)
		if acc != ev.AccuracyAfter || f1 != ev.F1After {
			t.Errorf("%s: recorded %v/%v, from scratch %v/%v", ev.ImageName, ev.AccuracyAfter, ev.F1After, acc, f1)
		}
	}
	if diff := cmp.Diff(labels, s.Labels()); diff != "" {
		t.Errorf("replayed labels differ from live labels (-replay +live):\n%s", diff)
	}
}

func TestRun_EmptyQueue(t *testing.T) {
	s, out := newTestSession(nil, "c\n")
	res, err := s.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Decided != 0 || res.Quit {
		t.Errorf("Outcome = %+v", res)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

type failingInput struct{}

func (failingInput) Ask(string) (string, error) { return "", io.ErrClosedPipe }

func TestRun_ReadErrorSurfaces(t *testing.T) {
	records := scenarioRecords()
	s := NewSession(records, failingInput{}, console.New(io.Discard, false))
	if _, err := s.Run(BuildQueue(records)); err == nil {
		t.Error("expected read error, got nil")
	}
}

func TestSetLabel_Rejects(t *testing.T) {
	s, _ := newTestSession(scenarioRecords(), "")
	if _, err := s.SetLabel(9, 1); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := s.SetLabel(0, 2); err == nil {
		t.Error("expected error for non-binary label")
	}
	if _, err := s.SetLabel(0, 1); err == nil {
		t.Error("expected error for unchanged label")
	}
	if len(s.Changes()) != 0 {
		t.Errorf("rejected updates recorded %d changes", len(s.Changes()))
	}
}

func TestLabels_ReturnsCopy(t *testing.T) {
	s, _ := newTestSession(scenarioRecords(), "")
	l := s.Labels()
	l[0] = 0
	if s.Labels()[0] != 1 {
		t.Error("mutating Labels() result changed session state")
	}
}

// --- Confirm tests ---

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"  YES \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		in := NewLineInput(strings.NewReader(tt.input), io.Discard)
		got, err := Confirm(in, "Save? (y/n): ")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	got := DisplayPath("test/center/a.png")
	if !filepath.IsAbs(got) {
		t.Errorf("DisplayPath = %q, want an absolute path", got)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("test/center/a.png")) {
		t.Errorf("DisplayPath = %q, want suffix test/center/a.png", got)
	}
}
