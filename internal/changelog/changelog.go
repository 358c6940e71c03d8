// Package changelog renders the label corrections made during a review
// session.
package changelog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/dshills/labelcritic/internal/schema"
)

// Renderer formats a sequence of change events for persistence.
type Renderer interface {
	Render(events []schema.ChangeEvent) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "text" (default), "md", "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "text", "":
		return &textRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q: supported formats are text, md, json", format)
	}
}

// SummaryLines returns one console line per event, numbered from 1.
func SummaryLines(events []schema.ChangeEvent) []string {
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = fmt.Sprintf("Change #%d: Image '%s' label flipped from %d to %d",
			i+1, ev.ImageName, ev.FromLabel, ev.ToLabel)
	}
	return lines
}

// WriteText writes the plain-text correction log.
func WriteText(w io.Writer, events []schema.ChangeEvent) error {
	if _, err := io.WriteString(w, "--- Log of Label Corrections ---\n\n"); err != nil {
		return err
	}
	for i, ev := range events {
		_, err := fmt.Fprintf(w,
			"Change #%d:\n"+
				"  Image:      %s\n"+
				"  Label Flip: %d -> %d\n"+
				"  Resulting F1: %.4f, Accuracy: %.4f\n"+
				"------------------------------------\n\n",
			i+1, ev.ImageName, ev.FromLabel, ev.ToLabel, ev.F1After, ev.AccuracyAfter)
		if err != nil {
			return err
		}
	}
	return nil
}

type textRenderer struct{}

func (r *textRenderer) Render(events []schema.ChangeEvent) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, events); err != nil {
		return nil, fmt.Errorf("rendering text log: %w", err)
	}
	return buf.Bytes(), nil
}

type jsonRenderer struct{}

type jsonEntry struct {
	Seq int `json:"seq"`
	schema.ChangeEvent
}

func (r *jsonRenderer) Render(events []schema.ChangeEvent) ([]byte, error) {
	entries := make([]jsonEntry, len(events))
	for i, ev := range events {
		entries[i] = jsonEntry{Seq: i + 1, ChangeEvent: ev}
	}
	return json.MarshalIndent(struct {
		Changes []jsonEntry `json:"changes"`
	}{entries}, "", "  ")
}

type markdownRenderer struct{}

var mdFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"f4":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
}

var mdTemplate = template.Must(template.New("changelog").Funcs(mdFuncs).Parse(`# Label Corrections

| # | Image | Flip | F1 | Accuracy |
|---|---|---|---|---|
{{ range $i, $e := . }}| {{ inc $i }} | {{ $e.ImageName }} | {{ $e.FromLabel }} → {{ $e.ToLabel }} | {{ f4 $e.F1After }} | {{ f4 $e.AccuracyAfter }} |
{{ end }}`))

func (r *markdownRenderer) Render(events []schema.ChangeEvent) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, events); err != nil {
		return nil, fmt.Errorf("rendering markdown log: %w", err)
	}
	return buf.Bytes(), nil
}
