package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dshills/labelcritic/internal/schema"
)

func metricsTable(s *schema.Summary) table.Writer {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"Metric", "Value"})
	w.AppendRows([]table.Row{
		{"Images", s.Total},
		{"Accuracy", f4(s.Accuracy)},
		{"F1 Score", f4(s.F1)},
		{"Precision", f4(s.Precision)},
		{"Recall", f4(s.Recall)},
		{"ROC AUC", aucCell(s)},
	})
	w.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return w
}

// confusionTable lays the matrix out with actual classes as rows and
// predicted classes as columns; labels are always [0, 1].
func confusionTable(s *schema.Summary) table.Writer {
	c := s.Confusion
	w := table.NewWriter()
	w.AppendHeader(table.Row{"", "Predicted " + classLabel(s, 0), "Predicted " + classLabel(s, 1)})
	w.AppendRows([]table.Row{
		{"Actual " + classLabel(s, 0), c.TN, c.FP},
		{"Actual " + classLabel(s, 1), c.FN, c.TP},
	})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return w
}
