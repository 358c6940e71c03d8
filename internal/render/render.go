package render

import (
	"fmt"

	"github.com/dshills/labelcritic/internal/schema"
)

// Renderer formats a performance Summary into bytes for output.
type Renderer interface {
	Render(s *schema.Summary) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "text" (default), "md", "json".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "text", "":
		return &textRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are text, md, json", format)
	}
}

// classLabel returns "name (class)", falling back to the bare class index
// when the summary carries no class names.
func classLabel(s *schema.Summary, class int) string {
	if s.Classes[class] == "" {
		return fmt.Sprint(class)
	}
	return fmt.Sprintf("%s (%d)", s.Classes[class], class)
}

func className(s *schema.Summary, class int) string {
	if s.Classes[class] == "" {
		return fmt.Sprintf("class %d", class)
	}
	return s.Classes[class]
}

func f4(v float64) string { return fmt.Sprintf("%.4f", v) }

func aucCell(s *schema.Summary) string {
	if s.AUC == nil {
		return "n/a"
	}
	return f4(*s.AUC)
}

// outcomeLines describes each confusion-matrix cell in terms of the class
// names, in TN, FP, FN, TP order.
func outcomeLines(s *schema.Summary) []string {
	neg, pos := className(s, 0), className(s, 1)
	c := s.Confusion
	return []string{
		fmt.Sprintf("True Negatives (TN):  %d (Correctly predicted '%s')", c.TN, neg),
		fmt.Sprintf("False Positives (FP): %d (Incorrectly predicted '%s')", c.FP, pos),
		fmt.Sprintf("False Negatives (FN): %d (Incorrectly predicted '%s')", c.FN, neg),
		fmt.Sprintf("True Positives (TP):  %d (Correctly predicted '%s')", c.TP, pos),
	}
}
