package review

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dshills/labelcritic/internal/console"
	"github.com/dshills/labelcritic/internal/metrics"
	"github.com/dshills/labelcritic/internal/schema"
)

const actionPrompt = "  - Action -> (c)hange label, (k)eep current label, (q)uit review: "

// Session holds the state of one label-correction session: the loaded
// records, the live label vector, and the change log. It is created when a
// review starts and discarded when it ends.
type Session struct {
	records []schema.Record
	live    []int
	pred    []int
	changes []schema.ChangeEvent

	in  Input
	con *console.Console
}

// Outcome describes how a review run ended.
type Outcome struct {
	Queued  int  // items in the queue
	Decided int  // items that received a keep or change decision
	Quit    bool // the operator quit, or input ran out, before the end
}

// NewSession starts a session over records. The live labels start as each
// record's true class.
func NewSession(records []schema.Record, in Input, con *console.Console) *Session {
	s := &Session{
		records: records,
		live:    make([]int, len(records)),
		pred:    make([]int, len(records)),
		in:      in,
		con:     con,
	}
	for i, r := range records {
		s.live[i] = r.TrueClass
		s.pred[i] = r.PredictedClass
	}
	return s
}

// Labels returns a copy of the live label vector.
func (s *Session) Labels() []int {
	out := make([]int, len(s.live))
	copy(out, s.live)
	return out
}

// Changes returns the change events in the order they were made.
func (s *Session) Changes() []schema.ChangeEvent {
	out := make([]schema.ChangeEvent, len(s.changes))
	copy(out, s.changes)
	return out
}

// Run presents each queued item in order and applies the operator's
// decision. It stops at the end of the queue, on quit, or when input is
// exhausted; the last two leave the rest of the queue unseen. Only read
// errors other than io.EOF are returned.
func (s *Session) Run(queue []Item) (Outcome, error) {
	out := Outcome{Queued: len(queue)}

	for i, item := range queue {
		s.present(i, len(queue), item)

		token, err := s.in.Ask(actionPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.con.Println()
				s.con.Println("Input closed. Quitting review session.")
				out.Quit = true
				return out, nil
			}
			return out, fmt.Errorf("reading decision for %s: %w", item.Record.ImageName, err)
		}

		d, ok := ParseDecision(token, s.live[item.Index])
		if !ok {
			s.con.Warning("  -> Invalid choice. Keeping label as is.")
			out.Decided++
			continue
		}

		switch d.Action {
		case ActionQuit:
			s.con.Println("Quitting review session.")
			out.Quit = true
			return out, nil
		case ActionKeep:
			s.con.Println("  -> Label kept as is.")
		case ActionSetLabel:
			ev, err := s.SetLabel(item.Index, d.Label)
			if err != nil {
				return out, err
			}
			s.con.Success(fmt.Sprintf("  -> SUCCESS: Changed label for '%s' from %d to %d",
				ev.ImageName, ev.FromLabel, ev.ToLabel))
			s.con.Box(fmt.Sprintf("New Live Metrics:\n   - Accuracy: %.4f\n   - F1 Score: %.4f",
				ev.AccuracyAfter, ev.F1After))
		}
		out.Decided++
	}
	return out, nil
}

// SetLabel relabels the record at index, recomputes accuracy and F1 over
// the whole live vector, and appends the resulting change event.
func (s *Session) SetLabel(index, label int) (schema.ChangeEvent, error) {
	if index < 0 || index >= len(s.live) {
		return schema.ChangeEvent{}, fmt.Errorf("set label: index %d out of range [0, %d)", index, len(s.live))
	}
	if !schema.IsBinaryLabel(label) {
		return schema.ChangeEvent{}, fmt.Errorf("set label: %d is not a binary label", label)
	}
	from := s.live[index]
	if label == from {
		return schema.ChangeEvent{}, fmt.Errorf("set label: %s already has label %d", s.records[index].ImageName, label)
	}

	s.live[index] = label
	acc, f1 := metrics.Snapshot(s.live, s.pred)
	ev := schema.ChangeEvent{
		ImageName:     s.records[index].ImageName,
		FromLabel:     from,
		ToLabel:       label,
		AccuracyAfter: acc,
		F1After:       f1,
	}
	s.changes = append(s.changes, ev)
	return ev, nil
}

func (s *Session) present(pos, total int, item Item) {
	r := item.Record
	s.con.Println()
	s.con.Rule("=")
	s.con.Println(s.con.Bold(fmt.Sprintf("Reviewing Image #%d/%d", pos+1, total)))
	s.con.Printf("  - View Image:      %s\n", DisplayPath(r.ImagePath))
	s.con.Printf("  - File:            %s\n", r.ImageName)
	s.con.Printf("  - Original Label:    %d\n", r.TrueClass)
	s.con.Printf("  - Model Predicted:   %d (Confidence: %.4f)\n", r.PredictedClass, r.Confidence)
}

// DisplayPath resolves p to an absolute path for display; p is returned
// unchanged on failure.
func DisplayPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
