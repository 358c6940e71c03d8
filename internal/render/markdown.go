package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dshills/labelcritic/internal/schema"
)

type markdownRenderer struct{}

type mdView struct {
	Metrics   string
	Confusion string
	Outcomes  []string
}

var mdTemplate = template.Must(template.New("summary").Parse(`# Overall Performance Metrics

{{ .Metrics }}

## Confusion Matrix

{{ .Confusion }}
{{ range .Outcomes }}
- {{ . }}{{ end }}
`))

func (r *markdownRenderer) Render(s *schema.Summary) ([]byte, error) {
	view := mdView{
		Metrics:   metricsTable(s).RenderMarkdown(),
		Confusion: confusionTable(s).RenderMarkdown(),
		Outcomes:  outcomeLines(s),
	}
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
