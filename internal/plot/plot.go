// Package plot writes the report visualizations as PNG images: a confusion
// matrix heat map, a per-class confidence histogram, and the ROC curve.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/dshills/labelcritic/internal/metrics"
)

// Output file names inside the visualization directory.
const (
	ConfusionMatrixFile = "confusion_matrix.png"
	HistogramFile       = "confidence_histogram.png"
	ROCCurveFile        = "roc_curve.png"
)

const histogramBins = 30

// ErrOneClass is returned for the ROC curve when the report holds only one
// true class.
var ErrOneClass = errors.New("ROC curve needs both classes in the report")

// Data is the label and score columns of a report.
type Data struct {
	Truth  []int
	Pred   []int
	Scores []float64
	// Names holds the display names of class 0 and class 1.
	Names [2]string
}

// WriteAll creates dir if needed and writes every visualization into it. A
// plot that cannot be drawn for the data at hand is skipped with a warning
// on warn; the paths written are returned.
func WriteAll(dir string, d Data, warn io.Writer) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating visualization dir: %w", err)
	}

	steps := []struct {
		file string
		fn   func(string, Data) error
	}{
		{ConfusionMatrixFile, ConfusionMatrix},
		{HistogramFile, ConfidenceHistogram},
		{ROCCurveFile, ROCCurve},
	}
	var written []string
	for _, s := range steps {
		path := filepath.Join(dir, s.file)
		if err := s.fn(path, d); err != nil {
			if errors.Is(err, ErrOneClass) {
				if warn != nil {
					fmt.Fprintf(warn, "WARN: skipping %s: %v\n", s.file, err)
				}
				continue
			}
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// confusionGrid adapts a 2x2 matrix to plotter.GridXYZ. Columns are the
// predicted class, rows the actual class.
type confusionGrid [2][2]float64

func (g confusionGrid) Dims() (c, r int)   { return 2, 2 }
func (g confusionGrid) Z(c, r int) float64 { return g[r][c] }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }

// ConfusionMatrix writes a heat map of the confusion matrix with the count
// printed in each cell.
func ConfusionMatrix(path string, d Data) error {
	c := metrics.ConfusionMatrix(d.Truth, d.Pred)
	grid := confusionGrid{
		{float64(c.TN), float64(c.FP)},
		{float64(c.FN), float64(c.TP)},
	}

	p := gplot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted Class"
	p.Y.Label.Text = "Actual (True) Class"

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	var xys plotter.XYs
	var texts []string
	for r := 0; r < 2; r++ {
		for col := 0; col < 2; col++ {
			xys = append(xys, plotter.XY{X: float64(col), Y: float64(r)})
			texts = append(texts, fmt.Sprintf("%d", int(grid[r][col])))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("confusion matrix labels: %w", err)
	}
	p.Add(labels)

	ticks := gplot.ConstantTicks{
		{Value: 0, Label: displayName(d.Names, 0)},
		{Value: 1, Label: displayName(d.Names, 1)},
	}
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks

	return save(p, 8, 6, path)
}

// ConfidenceHistogram writes the confidence distribution in 30 equal bins
// over [0, 1], stacked by true class.
func ConfidenceHistogram(path string, d Data) error {
	if len(d.Truth) != len(d.Scores) {
		return fmt.Errorf("histogram: %d labels for %d scores", len(d.Truth), len(d.Scores))
	}
	var counts [2]plotter.Values
	counts[0] = make(plotter.Values, histogramBins)
	counts[1] = make(plotter.Values, histogramBins)
	for i, s := range d.Scores {
		if d.Truth[i] != 0 && d.Truth[i] != 1 {
			continue
		}
		counts[d.Truth[i]][binOf(s)]++
	}

	p := gplot.New()
	p.Title.Text = "Distribution of Model Confidence Scores by True Class"
	p.X.Label.Text = "Confidence Score (Probability of being Class 1)"
	p.Y.Label.Text = "Number of Images"
	p.Add(plotter.NewGrid())

	width := vg.Points(12)
	var below *plotter.BarChart
	for class := 0; class < 2; class++ {
		bars, err := plotter.NewBarChart(counts[class], width)
		if err != nil {
			return fmt.Errorf("histogram bars: %w", err)
		}
		bars.Color = plotutil.Color(class)
		bars.LineStyle.Width = 0
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(displayName(d.Names, class), bars)
		below = bars
	}
	p.Legend.Top = true

	names := make([]string, histogramBins)
	for i := range names {
		if i%5 == 0 {
			names[i] = fmt.Sprintf("%.2f", float64(i)/histogramBins)
		}
	}
	p.NominalX(names...)

	return save(p, 10, 6, path)
}

func binOf(score float64) int {
	b := int(score * histogramBins)
	switch {
	case b < 0:
		return 0
	case b >= histogramBins:
		return histogramBins - 1
	}
	return b
}

// ROCCurve writes the ROC curve with its AUC in the legend and the chance
// diagonal for reference.
func ROCCurve(path string, d Data) error {
	fpr, tpr, ok := metrics.ROC(d.Truth, d.Scores)
	if !ok {
		return ErrOneClass
	}
	auc, _ := metrics.AUC(d.Truth, d.Scores)

	p := gplot.New()
	p.Title.Text = "Receiver Operating Characteristic (ROC) Curve"
	p.X.Label.Text = "False Positive Rate"
	p.Y.Label.Text = "True Positive Rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(fpr))
	for i := range fpr {
		pts[i] = plotter.XY{X: fpr[i], Y: tpr[i]}
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("roc line: %w", err)
	}
	curve.Color = color.RGBA{R: 255, G: 140, A: 255}
	curve.Width = vg.Points(2)

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return fmt.Errorf("chance line: %w", err)
	}
	chance.Color = color.RGBA{B: 128, A: 255}
	chance.Width = vg.Points(2)
	chance.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(curve, chance)
	p.Legend.Add(fmt.Sprintf("ROC curve (AUC = %.2f)", auc), curve)
	p.Legend.Top = false
	p.Legend.Left = false

	return save(p, 8, 8, path)
}

func displayName(names [2]string, class int) string {
	if names[class] == "" {
		return fmt.Sprint(class)
	}
	return fmt.Sprintf("%s (%d)", names[class], class)
}

func save(p *gplot.Plot, wIn, hIn float64, path string) error {
	if err := p.Save(vg.Length(wIn)*vg.Inch, vg.Length(hIn)*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
