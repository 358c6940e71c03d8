package render

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dshills/labelcritic/internal/schema"
)

type textRenderer struct{}

func (r *textRenderer) Render(s *schema.Summary) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "--- Overall Performance Metrics ---")
	mt := metricsTable(s)
	mt.SetStyle(table.StyleLight)
	fmt.Fprintln(&buf, mt.Render())

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "Confusion Matrix:")
	ct := confusionTable(s)
	ct.SetStyle(table.StyleLight)
	fmt.Fprintln(&buf, ct.Render())
	fmt.Fprintln(&buf)

	for _, line := range outcomeLines(s) {
		fmt.Fprintf(&buf, "  - %s\n", line)
	}
	fmt.Fprintln(&buf, "---------------------------------")
	return buf.Bytes(), nil
}
